package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/anonto42/socially/backend/internal/metrics"
	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/anonto42/socially/backend/internal/security"
	"github.com/anonto42/socially/backend/pkg/firebase"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	store    repositories.Store
	tokens   TokenIssuer
	firebase firebase.IDTokenVerifier
	log      logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler. verifier may be nil, in which
// case Firebase sign-in is not offered.
func NewAuthHandler(store repositories.Store, tokens TokenIssuer, verifier firebase.IDTokenVerifier, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, firebase: verifier, log: log}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/token", h.Login)
	g.GET("/me", h.Me, requireAuth)
	g.PUT("/me", h.UpdateMe, requireAuth)
	if h.firebase != nil {
		g.POST("/firebase", h.FirebaseLogin)
	}
}

// Register creates a local account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return err
	}

	var id string
	err = h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		if taken, err := identifierTaken(r.Users, req.Email); err != nil {
			return err
		} else if taken {
			return echo.NewHTTPError(http.StatusBadRequest, "Email already exists")
		}
		if taken, err := identifierTaken(r.Users, req.Username); err != nil {
			return err
		} else if taken {
			return echo.NewHTTPError(http.StatusBadRequest, "Username already exists")
		}

		id, err = r.Users.Create(models.NewUser{
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: hash,
			Name:         req.Name,
		})
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordEvent(metrics.EventRegister)
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully", "id": id})
}

func identifierTaken(users repositories.UserRepository, identifier string) (bool, error) {
	_, err := users.FindByIdentifier(identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Login exchanges form-encoded credentials for a bearer token. The username
// field accepts either a username or an email.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var creds *models.Credentials
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		creds, err = r.Users.FindByIdentifier(req.Username)
		return err
	})
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if creds == nil || !security.VerifyPassword(req.Password, creds.PasswordHash) {
		metrics.RecordEvent(metrics.EventLoginFailed)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	return h.respondWithToken(c, creds.ID)
}

func (h *AuthHandler) respondWithToken(c echo.Context, userID string) error {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		return err
	}
	metrics.RecordEvent(metrics.EventLogin)
	return c.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the caller's private profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.UserID(c)

	var profile *models.UserProfile
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		profile, err = r.Users.GetProfile(userID)
		return notFoundAs(err, "User not found")
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe writes the supplied profile fields and returns the result.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	userID := middleware.UserID(c)

	var req models.ProfileUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var profile *models.UserProfile
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		if err := r.Users.UpdateProfile(userID, req); err != nil {
			return err
		}
		var err error
		profile, err = r.Users.GetProfile(userID)
		return notFoundAs(err, "User not found after update")
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// FirebaseLogin verifies a Firebase ID token and issues a local bearer token,
// creating the local account on first sign-in.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.firebase.Verify(c.Request().Context(), req.IDToken)
	if err != nil {
		h.log.WithError(err).Debug("firebase token rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	if !identity.EmailVerified {
		return echo.NewHTTPError(http.StatusUnauthorized, "Firebase email is not verified")
	}

	var userID string
	created := false
	err = h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		creds, err := r.Users.FindByEmail(identity.Email)
		if err == nil {
			userID = creds.ID
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		username, err := freeUsername(r.Users, identity.Email)
		if err != nil {
			return err
		}
		// Firebase accounts have no usable password.
		hash, err := security.HashPassword(uuid.NewString())
		if err != nil {
			return err
		}
		user := models.NewUser{Email: identity.Email, Username: username, PasswordHash: hash, Name: identity.Name}
		if identity.Picture != "" {
			user.Image = &identity.Picture
		}
		userID, err = r.Users.Create(user)
		created = err == nil
		return err
	})
	if err != nil {
		return err
	}

	if created {
		metrics.RecordEvent(metrics.EventRegister)
	}
	return h.respondWithToken(c, userID)
}

var usernameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// freeUsername derives an unused username from the local part of email.
func freeUsername(users repositories.UserRepository, email string) (string, error) {
	base := usernameUnsafe.ReplaceAllString(strings.SplitN(email, "@", 2)[0], "")
	if len(base) < 3 {
		base = "user" + base
	}
	candidate := base
	for {
		taken, err := identifierTaken(users, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:8]
	}
}
