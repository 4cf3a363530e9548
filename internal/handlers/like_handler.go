package handlers

import (
	"net/http"

	"github.com/anonto42/socially/backend/internal/metrics"
	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ToggleLike likes or unlikes :id. A new like notifies the post's author.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID := middleware.UserID(c)
	postID := c.Param("id")

	var (
		liked    bool
		authorID string
	)
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		post, err := r.Posts.GetPost(postID)
		if err != nil {
			return notFoundAs(err, "Post not found")
		}
		authorID = post.AuthorID

		liked, err = r.Posts.ToggleLike(userID, postID)
		if err != nil || !liked {
			return err
		}
		return r.Notifications.Create(models.NewNotification{
			Type:        models.NotificationLike,
			RecipientID: post.AuthorID,
			ActorID:     userID,
			PostID:      &postID,
		})
	})
	if err != nil {
		return err
	}

	if liked {
		metrics.RecordEvent(metrics.EventLike)
		if authorID != userID {
			metrics.RecordEvent(metrics.EventNotification)
		}
	} else {
		metrics.RecordEvent(metrics.EventUnlike)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "liked": liked})
}
