package router

import (
	"net/http"
	"time"

	"github.com/anonto42/socially/backend/internal/handlers"
	"github.com/anonto42/socially/backend/internal/metrics"
	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/anonto42/socially/backend/internal/security"
	"github.com/anonto42/socially/backend/internal/validators"
	"github.com/anonto42/socially/backend/pkg/config"
	"github.com/anonto42/socially/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config   *config.Config
	Store    repositories.Store
	Tokens   *security.TokenManager
	Firebase firebase.IDTokenVerifier // optional
	Log      *logrus.Logger
}

// New builds the echo instance with global middleware and all routes.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e, d.Config, d.Log)
	e.Use(metrics.Middleware())

	SetupRoutes(e, d)
	return e
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	e.GET("/health", handlers.HealthCheck(d.Store))

	requireAuth := middleware.RequireAuth(d.Tokens)
	optionalAuth := middleware.OptionalAuth(d.Tokens)

	api := e.Group(d.Config.APIPrefix)

	authGroup := api.Group("/auth")
	if d.Config.AuthRateLimit > 0 {
		authGroup.Use(authRateLimiter(d.Config.AuthRateLimit))
	}
	handlers.NewAuthHandler(d.Store, d.Tokens, d.Firebase, d.Log).RegisterAuthRoutes(authGroup, requireAuth)

	handlers.NewPostHandler(d.Store, d.Config.FeedPageSize).
		RegisterPostRoutes(api.Group("/posts"), requireAuth, optionalAuth)

	handlers.NewUserHandler(d.Store, d.Config.SuggestionCount).
		RegisterUserRoutes(api.Group("/users"), requireAuth, optionalAuth)

	handlers.NewNotificationHandler(d.Store).
		RegisterNotificationRoutes(api.Group("/notifications", requireAuth))

	d.Log.WithField("prefix", d.Config.APIPrefix).Info("routes configured")
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter(perSecond int) echo.MiddlewareFunc {
	return eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
		Store: eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     perSecond,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
		},
	})
}
