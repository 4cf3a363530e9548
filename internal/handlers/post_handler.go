package handlers

import (
	"net/http"

	"github.com/anonto42/socially/backend/internal/metrics"
	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts, likes and comments
type PostHandler struct {
	store    repositories.Store
	feedSize int
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(store repositories.Store, feedSize int) *PostHandler {
	return &PostHandler{store: store, feedSize: feedSize}
}

// RegisterPostRoutes registers post-related routes. The collection answers
// with and without the trailing slash.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	for _, root := range []string{"", "/"} {
		g.GET(root, h.GetFeed, optionalAuth)
		g.POST(root, h.CreatePost, requireAuth)
	}
	g.POST("/:id/like", h.ToggleLike, requireAuth)
	g.POST("/:id/comments", h.AddComment, requireAuth)
	g.DELETE("/:id", h.DeletePost, requireAuth)
}

// CreatePost handles creating a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var id string
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		id, err = r.Posts.CreatePost(middleware.UserID(c), req.Content, req.Image)
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordEvent(metrics.EventPost)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": id})
}

// DeletePost removes a post owned by the caller. Missing and foreign posts
// are indistinguishable to the caller.
func (h *PostHandler) DeletePost(c echo.Context) error {
	var deleted bool
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		deleted, err = r.Posts.DeletePost(c.Param("id"), middleware.UserID(c))
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this post")
	}

	metrics.RecordEvent(metrics.EventPostDeleted)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
