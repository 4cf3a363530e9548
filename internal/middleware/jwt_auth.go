package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

// TokenResolver turns a bearer token into the id of the user it was issued to.
type TokenResolver interface {
	Resolve(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(tokens TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}
			userID, err := tokens.Resolve(token)
			if err != nil {
				return unauthorized(c)
			}
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// OptionalAuth resolves the caller when a valid bearer token is present and
// otherwise continues anonymously. It never fails a request.
func OptionalAuth(tokens TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				if userID, err := tokens.Resolve(token); err == nil {
					c.Set(userIDKey, userID)
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id, or "" for anonymous callers.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
}
