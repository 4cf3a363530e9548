package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the request into dst and runs the registered validator.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(dst)
}

// notFoundAs turns repositories.ErrNotFound into a 404 carrying msg.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, msg)
	}
	return err
}
