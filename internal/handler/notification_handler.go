package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymhub/internal/middleware"
	"github.com/mansoorceksport/gymhub/internal/service"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// NotificationHandler serves the caller's own inbox
type NotificationHandler struct {
	notifications *service.NotificationService
	log           logger.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		log:           log.With("handler", "notifications"),
	}
}

// ListUnread handles GET /v1/notifications
func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	list, err := h.notifications.ListUnread(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// MarkRead handles PUT /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	if err := h.notifications.MarkRead(c.UserContext(), p, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllRead handles PUT /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	updated, err := h.notifications.MarkAllRead(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read", "updated": updated})
}
