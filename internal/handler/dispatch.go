package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/service"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// dispatchEvents hands pending events to the dispatcher after the mutation
// succeeded. Undelivered events become warnings; the mutation stands.
func dispatchEvents(c *fiber.Ctx, notifications *service.NotificationService, log logger.Logger, events []domain.NotificationEvent) []string {
	if len(events) == 0 {
		return nil
	}
	return warnings(log, notifications.Dispatch(c.UserContext(), events))
}

// withWarnings adds a "warnings" list to body when there is anything to report
func withWarnings(body fiber.Map, warns []string) fiber.Map {
	if len(warns) > 0 {
		body["warnings"] = warns
	}
	return body
}
