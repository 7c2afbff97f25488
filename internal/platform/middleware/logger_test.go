package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/auth"
)

func logRequest(t *testing.T, target string, handler echo.HandlerFunc) string {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "rid-1")

	_ = Logger(logger)(handler)(c)
	return buf.String()
}

func TestLoggerRequestFields(t *testing.T) {
	line := logRequest(t, "/api/planning/periode?start=2024-06-01&end=2024-06-30", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for _, want := range []string{
		`"request_id":"rid-1"`,
		`"method":"GET"`,
		`"path":"/api/planning/periode"`,
		`"query":"start=2024-06-01&end=2024-06-30"`,
		`"status":200`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("expected log line to contain %s, got %s", want, line)
		}
	}
}

func TestLoggerOmitsEmptyQuery(t *testing.T) {
	line := logRequest(t, "/api/etudes", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if strings.Contains(line, `"query"`) {
		t.Errorf("expected no query field, got %s", line)
	}
}

func TestLoggerAttachesAuthenticatedUser(t *testing.T) {
	line := logRequest(t, "/api/etudes", func(c echo.Context) error {
		ctx := context.WithValue(c.Request().Context(), auth.UserKey, "gestionnaire1")
		c.SetRequest(c.Request().WithContext(ctx))
		return c.String(http.StatusOK, "ok")
	})
	if !strings.Contains(line, `"user":"gestionnaire1"`) {
		t.Errorf("expected the user field, got %s", line)
	}
}

func TestLoggerErrorLevel(t *testing.T) {
	line := logRequest(t, "/api/etudes", func(c echo.Context) error {
		return errors.New("boom")
	})
	if !strings.Contains(line, `"level":"error"`) || !strings.Contains(line, `"error":"boom"`) {
		t.Errorf("expected an error-level line, got %s", line)
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/planning/semaine?date=bad", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "rid-2")

	err := Recovery(logger)(func(c echo.Context) error {
		panic("nil deref")
	})(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected a 500 HTTPError, got %v", err)
	}
	line := buf.String()
	for _, want := range []string{
		`"request_id":"rid-2"`,
		`"path":"/api/planning/semaine"`,
		`"query":"date=bad"`,
		`"panic":"nil deref"`,
		"panic recovered",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("expected log line to contain %s, got %s", want, line)
		}
	}
}
