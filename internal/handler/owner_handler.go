package handler

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/middleware"
	"github.com/mansoorceksport/gymhub/internal/service"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// OwnerHandler serves gym and roster management for owners
type OwnerHandler struct {
	membership    *service.MembershipService
	notifications *service.NotificationService
	maxUploadSize int64
	log           logger.Logger
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(
	membership *service.MembershipService,
	notifications *service.NotificationService,
	maxUploadSizeMB int64,
	log logger.Logger,
) *OwnerHandler {
	return &OwnerHandler{
		membership:    membership,
		notifications: notifications,
		maxUploadSize: maxUploadSizeMB * 1024 * 1024,
		log:           log.With("handler", "owner"),
	}
}

type createGymRequest struct {
	Name     string   `json:"name" validate:"required"`
	Location string   `json:"location"`
	Images   []string `json:"images" validate:"omitempty,dive,url"`
}

type updateGymRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1"`
	Location *string  `json:"location"`
	Images   []string `json:"images" validate:"omitempty,dive,url"`
}

type rosterAddRequest struct {
	Email string `json:"email" validate:"required,email"`
	GymID string `json:"gym_id"`
}

// CreateGym handles POST /v1/owner/gyms
func (h *OwnerHandler) CreateGym(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req createGymRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	gym, err := h.membership.CreateGym(c.UserContext(), p, service.CreateGymInput{
		Name:     req.Name,
		Location: req.Location,
		Images:   req.Images,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(gym)
}

// ListGyms handles GET /v1/owner/gyms
func (h *OwnerHandler) ListGyms(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	gyms, err := h.membership.ListGyms(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(gyms)
}

// UpdateGym handles PUT /v1/owner/gyms/:id
func (h *OwnerHandler) UpdateGym(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req updateGymRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	gym, err := h.membership.UpdateGym(c.UserContext(), p, c.Params("id"), domain.GymPatch{
		Name:     req.Name,
		Location: req.Location,
		Images:   req.Images,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(gym)
}

// UploadGymImage handles POST /v1/owner/gyms/:id/images (multipart field "image")
func (h *OwnerHandler) UploadGymImage(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, h.log, domain.NewValidationError("image", "is required"))
	}
	if file.Size > h.maxUploadSize {
		return respondError(c, h.log, domain.NewValidationError("image", "file is too large"))
	}

	f, err := file.Open()
	if err != nil {
		return respondError(c, h.log, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, h.log, err)
	}

	gym, err := h.membership.AddGymImage(c.UserContext(), p, c.Params("id"), data, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(gym)
}

// DeleteGym handles DELETE /v1/owner/gyms/:id
func (h *OwnerHandler) DeleteGym(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	events, err := h.membership.DeleteGym(c.UserContext(), p, c.Params("id"))
	if err != nil && !isPartialFailure(err) {
		return respondError(c, h.log, err)
	}

	warns := warnings(h.log, err)
	warns = append(warns, dispatchEvents(c, h.notifications, h.log, events)...)
	return c.JSON(withWarnings(fiber.Map{"message": "Gym deleted"}, warns))
}

// AddTrainer handles POST /v1/owner/trainers
func (h *OwnerHandler) AddTrainer(c *fiber.Ctx) error {
	return h.addToGym(c, "trainer", "Trainer added to gym", h.membership.AddTrainer)
}

// AddMember handles POST /v1/owner/members
func (h *OwnerHandler) AddMember(c *fiber.Ctx) error {
	return h.addToGym(c, "member", "Member added to gym", h.membership.AddMember)
}

type addFunc func(ctx context.Context, p domain.Principal, email, gymID string) (*domain.UserSummary, []domain.NotificationEvent, error)

func (h *OwnerHandler) addToGym(c *fiber.Ctx, key, message string, add addFunc) error {
	p, _ := middleware.GetPrincipal(c)

	var req rosterAddRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, events, err := add(c.UserContext(), p, req.Email, req.GymID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	warns := dispatchEvents(c, h.notifications, h.log, events)
	return c.JSON(withWarnings(fiber.Map{"message": message, key: user}, warns))
}

// RemoveTrainer handles DELETE /v1/owner/trainers/:id
func (h *OwnerHandler) RemoveTrainer(c *fiber.Ctx) error {
	return h.removeFromGym(c, "Trainer removed from gym", h.membership.RemoveTrainer)
}

// RemoveMember handles DELETE /v1/owner/members/:id
func (h *OwnerHandler) RemoveMember(c *fiber.Ctx) error {
	return h.removeFromGym(c, "Member removed from gym", h.membership.RemoveMember)
}

type removeFunc func(ctx context.Context, p domain.Principal, userID, gymID string) ([]domain.NotificationEvent, error)

func (h *OwnerHandler) removeFromGym(c *fiber.Ctx, message string, remove removeFunc) error {
	p, _ := middleware.GetPrincipal(c)

	events, err := remove(c.UserContext(), p, c.Params("id"), c.Query("gym_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	warns := dispatchEvents(c, h.notifications, h.log, events)
	return c.JSON(withWarnings(fiber.Map{"message": message}, warns))
}

// ListTrainers handles GET /v1/owner/trainers?gym_id=
func (h *OwnerHandler) ListTrainers(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	trainers, err := h.membership.ListTrainers(c.UserContext(), p, c.Query("gym_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(trainers)
}

// ListMembers handles GET /v1/owner/members?gym_id=
func (h *OwnerHandler) ListMembers(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	members, err := h.membership.ListMembers(c.UserContext(), p, c.Query("gym_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(members)
}
