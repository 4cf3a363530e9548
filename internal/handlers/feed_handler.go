package handlers

import (
	"net/http"

	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// GetFeed returns the newest posts. Signed-in callers see their own likes.
func (h *PostHandler) GetFeed(c echo.Context) error {
	var posts []models.PostSummary
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		posts, err = r.Posts.GetFeed(middleware.UserID(c), h.feedSize)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
