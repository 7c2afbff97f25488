package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestToHTTP(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: etude 42", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: ref is required", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: ref already used", ErrConflict), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		he, ok := ToHTTP(tc.err).(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected an echo.HTTPError for %v", tc.err)
		}
		if he.Code != tc.code {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.code, he.Code)
		}
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if errors.Is(ErrNotFound, ErrInvalidInput) || errors.Is(ErrInvalidInput, ErrConflict) {
		t.Error("sentinel errors must not match each other")
	}
}
