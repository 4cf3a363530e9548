package handlers

import (
	"net/http"

	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	store           repositories.Store
	suggestionCount int
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(store repositories.Store, suggestionCount int) *UserHandler {
	return &UserHandler{store: store, suggestionCount: suggestionCount}
}

// RegisterUserRoutes registers profile, profile tab and follow routes.
// /suggestions is static and wins over /:username.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/suggestions", h.GetSuggestions, optionalAuth)
	g.GET("/:username", h.GetProfile)
	g.GET("/:id/posts", h.GetUserPosts, optionalAuth)
	g.GET("/:id/likes", h.GetUserLikes, optionalAuth)
	g.GET("/:id/is_following", h.IsFollowing, requireAuth)
	g.POST("/:id/follow", h.ToggleFollow, requireAuth)
}

// GetSuggestions returns a random sample of other users.
func (h *UserHandler) GetSuggestions(c echo.Context) error {
	var users []models.SuggestedUser
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		users, err = r.Users.GetSuggestions(middleware.UserID(c), h.suggestionCount)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetProfile returns a public profile with its counts.
func (h *UserHandler) GetProfile(c echo.Context) error {
	var profile *models.PublicProfile
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		profile, err = r.Users.GetPublicProfile(c.Param("username"))
		return notFoundAs(err, "User not found")
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUserPosts is the "posts" profile tab.
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	return h.postTab(c, func(r *repositories.Repositories, userID, viewerID string) ([]models.PostSummary, error) {
		return r.Posts.GetPostsByAuthor(userID, viewerID)
	})
}

// GetUserLikes is the "likes" profile tab.
func (h *UserHandler) GetUserLikes(c echo.Context) error {
	return h.postTab(c, func(r *repositories.Repositories, userID, viewerID string) ([]models.PostSummary, error) {
		return r.Posts.GetPostsLikedByUser(userID, viewerID)
	})
}

func (h *UserHandler) postTab(c echo.Context, load func(r *repositories.Repositories, userID, viewerID string) ([]models.PostSummary, error)) error {
	var posts []models.PostSummary
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		posts, err = load(r, c.Param("id"), middleware.UserID(c))
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
