package handlers

import (
	"net/http"

	"github.com/anonto42/socially/backend/internal/metrics"
	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AddComment comments on :id and notifies the post's author.
func (h *PostHandler) AddComment(c echo.Context) error {
	userID := middleware.UserID(c)
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var commentID, authorID string
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		post, err := r.Posts.GetPost(postID)
		if err != nil {
			return notFoundAs(err, "Post not found")
		}
		authorID = post.AuthorID

		commentID, err = r.Posts.CreateComment(userID, postID, req.Content)
		if err != nil {
			return err
		}
		return r.Notifications.Create(models.NewNotification{
			Type:        models.NotificationComment,
			RecipientID: post.AuthorID,
			ActorID:     userID,
			PostID:      &postID,
			CommentID:   &commentID,
		})
	})
	if err != nil {
		return err
	}

	metrics.RecordEvent(metrics.EventComment)
	if authorID != userID {
		metrics.RecordEvent(metrics.EventNotification)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "comment_id": commentID})
}
