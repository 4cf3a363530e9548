package handlers

import (
	"net/http"

	"github.com/anonto42/socially/backend/internal/metrics"
	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// IsFollowing reports whether the caller follows :id.
func (h *UserHandler) IsFollowing(c echo.Context) error {
	var following bool
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		following, err = r.Users.IsFollowing(middleware.UserID(c), c.Param("id"))
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"is_following": following})
}

// ToggleFollow follows or unfollows :id. A new follow notifies the target.
func (h *UserHandler) ToggleFollow(c echo.Context) error {
	userID := middleware.UserID(c)
	targetID := c.Param("id")

	var following bool
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		exists, err := r.Users.Exists(targetID)
		if err != nil {
			return err
		}
		if !exists {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}

		following, err = r.Users.ToggleFollow(userID, targetID)
		if err != nil || !following {
			return err
		}
		return r.Notifications.Create(models.NewNotification{
			Type:        models.NotificationFollow,
			RecipientID: targetID,
			ActorID:     userID,
		})
	})
	if err != nil {
		return err
	}

	if following {
		metrics.RecordEvent(metrics.EventFollow)
		if targetID != userID {
			metrics.RecordEvent(metrics.EventNotification)
		}
	} else {
		metrics.RecordEvent(metrics.EventUnfollow)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": following})
}
