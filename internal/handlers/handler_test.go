package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/anonto42/socially/backend/internal/security"
	"github.com/anonto42/socially/backend/internal/validators"
	"github.com/anonto42/socially/backend/pkg/config"
	"github.com/anonto42/socially/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	t      *testing.T
	e      *echo.Echo
	store  *repositories.GormStore
	tokens *security.TokenManager
}

func newTestEnv(t *testing.T, verifier firebase.IDTokenVerifier) *testEnv {
	t.Helper()
	log, _ := test.NewNullLogger()

	db, err := repositories.OpenSQLite(repositories.SQLiteInMemory, gormlogger.Discard)
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	store := repositories.NewGormStore(db)
	tokens, err := security.NewTokenManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = config.ErrorHandler(log)

	requireAuth := middleware.RequireAuth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	e.GET("/health", HealthCheck(store))
	api := e.Group("/api/v1")
	NewAuthHandler(store, tokens, verifier, log).RegisterAuthRoutes(api.Group("/auth"), requireAuth)
	NewPostHandler(store, 20).RegisterPostRoutes(api.Group("/posts"), requireAuth, optionalAuth)
	NewUserHandler(store, 3).RegisterUserRoutes(api.Group("/users"), requireAuth, optionalAuth)
	NewNotificationHandler(store).RegisterNotificationRoutes(api.Group("/notifications", requireAuth))

	return &testEnv{t: t, e: e, store: store, tokens: tokens}
}

// do sends a JSON request (body may be nil) with an optional bearer token.
func (env *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	env.t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(env.t, err)
		req = httptest.NewRequest(method, path, strings.NewReader(string(raw)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(username, password string) *httptest.ResponseRecorder {
	env.t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// signup registers username and returns its id and a bearer token.
func (env *testEnv) signup(username string) (string, string) {
	env.t.Helper()
	rec := env.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     strings.ToUpper(username[:1]) + username[1:],
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
	}, "")
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	decode(env.t, rec, &created)

	rec = env.login(username, "pw-"+username)
	require.Equal(env.t, http.StatusOK, rec.Code, rec.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	decode(env.t, rec, &tok)
	return created.ID, tok.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}
