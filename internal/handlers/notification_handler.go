package handlers

import (
	"net/http"

	"github.com/anonto42/socially/backend/internal/middleware"
	"github.com/anonto42/socially/backend/internal/models"
	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	store repositories.Store
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(store repositories.Store) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// RegisterNotificationRoutes registers notification-related routes. All of
// them require authentication; the group is expected to enforce it.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/", h.List)
	g.GET("/unread-count", h.UnreadCount)
	g.POST("/mark-read", h.MarkRead)
	g.POST("/mark-all-read", h.MarkAllRead)
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	var list []models.NotificationView
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		list, err = r.Notifications.List(middleware.UserID(c))
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	var count int64
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		var err error
		count, err = r.Notifications.UnreadCount(middleware.UserID(c))
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkRead flags the given notifications as read. Ids the caller does not
// own are ignored.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	var req models.MarkReadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		return r.Notifications.MarkRead(middleware.UserID(c), req.IDs)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	err := h.store.WithTx(c.Request().Context(), func(r *repositories.Repositories) error {
		return r.Notifications.MarkAllRead(middleware.UserID(c))
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
