package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Namer reports the storage backend's name.
type Namer interface {
	Name() string
}

// HealthCheck is a liveness probe; it does not touch the database. The db
// field carries the GORM dialect name ("postgres" or "sqlite"), so clients
// that expect the literal "oracle" must accept the dialect name instead.
func HealthCheck(db Namer) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"db":     db.Name(),
		})
	}
}
