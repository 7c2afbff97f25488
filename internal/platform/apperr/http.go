package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTP maps a service error onto an echo HTTP error. Unrecognized errors
// become 500s so the recovery and logging middleware see them.
func ToHTTP(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
