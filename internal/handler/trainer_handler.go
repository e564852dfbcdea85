package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/middleware"
	"github.com/mansoorceksport/gymhub/internal/service"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// TrainerHandler serves the trainer roster and plan assignment endpoints
type TrainerHandler struct {
	membership    *service.MembershipService
	programs      *service.ProgramService
	notifications *service.NotificationService
	log           logger.Logger
}

// NewTrainerHandler creates a new TrainerHandler
func NewTrainerHandler(
	membership *service.MembershipService,
	programs *service.ProgramService,
	notifications *service.NotificationService,
	log logger.Logger,
) *TrainerHandler {
	return &TrainerHandler{
		membership:    membership,
		programs:      programs,
		notifications: notifications,
		log:           log.With("handler", "trainer"),
	}
}

type workoutPlanRequest struct {
	UserID    string            `json:"userId"`
	Exercises []domain.Exercise `json:"exercises" validate:"dive"`
}

type dietPlanRequest struct {
	UserID string        `json:"userId"`
	Meals  []domain.Meal `json:"meals" validate:"dive"`
}

// ListMembers handles GET /v1/trainer/members
func (h *TrainerHandler) ListMembers(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	members, err := h.membership.ListGymMembers(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(members)
}

// GetPrograms handles GET /v1/trainer/members/:id/programs
func (h *TrainerHandler) GetPrograms(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	programs, err := h.programs.GetPrograms(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(programs)
}

// UpsertWorkoutPlan handles POST /v1/trainer/workout-plans
func (h *TrainerHandler) UpsertWorkoutPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req workoutPlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	if req.UserID == "" {
		return respondError(c, h.log, domain.NewValidationError("userId", "is required"))
	}

	plan, change, err := h.programs.UpsertWorkoutPlan(c.UserContext(), p, req.UserID, req.Exercises)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.planWritten(c, "workout_plan", plan, change)
}

// UpdateWorkoutPlan handles PUT /v1/trainer/workout-plans/:userId
func (h *TrainerHandler) UpdateWorkoutPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req workoutPlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	plan, change, err := h.programs.UpdateWorkoutPlan(c.UserContext(), p, c.Params("userId"), req.Exercises)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.planWritten(c, "workout_plan", plan, change)
}

// GetWorkoutPlan handles GET /v1/trainer/workout-plans/:userId
func (h *TrainerHandler) GetWorkoutPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	plan, err := h.programs.GetWorkoutPlan(c.UserContext(), p, c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(plan)
}

// DeleteWorkoutPlan handles DELETE /v1/trainer/workout-plans/:userId
func (h *TrainerHandler) DeleteWorkoutPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	change, err := h.programs.DeleteWorkoutPlan(c.UserContext(), p, c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	warns := dispatchEvents(c, h.notifications, h.log, []domain.NotificationEvent{change.Event})
	return c.JSON(withWarnings(fiber.Map{"message": "Workout plan deleted"}, warns))
}

// UpsertDietPlan handles POST /v1/trainer/diet-plans
func (h *TrainerHandler) UpsertDietPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req dietPlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	if req.UserID == "" {
		return respondError(c, h.log, domain.NewValidationError("userId", "is required"))
	}

	plan, change, err := h.programs.UpsertDietPlan(c.UserContext(), p, req.UserID, req.Meals)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.planWritten(c, "diet_plan", plan, change)
}

// UpdateDietPlan handles PUT /v1/trainer/diet-plans/:userId
func (h *TrainerHandler) UpdateDietPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req dietPlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	plan, change, err := h.programs.UpdateDietPlan(c.UserContext(), p, c.Params("userId"), req.Meals)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.planWritten(c, "diet_plan", plan, change)
}

// GetDietPlan handles GET /v1/trainer/diet-plans/:userId
func (h *TrainerHandler) GetDietPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	plan, err := h.programs.GetDietPlan(c.UserContext(), p, c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(plan)
}

// DeleteDietPlan handles DELETE /v1/trainer/diet-plans/:userId
func (h *TrainerHandler) DeleteDietPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	change, err := h.programs.DeleteDietPlan(c.UserContext(), p, c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	warns := dispatchEvents(c, h.notifications, h.log, []domain.NotificationEvent{change.Event})
	return c.JSON(withWarnings(fiber.Map{"message": "Diet plan deleted"}, warns))
}

// planWritten dispatches the single plan event and renders the plan
func (h *TrainerHandler) planWritten(c *fiber.Ctx, key string, plan interface{}, change *service.PlanChange) error {
	warns := dispatchEvents(c, h.notifications, h.log, []domain.NotificationEvent{change.Event})

	status := fiber.StatusOK
	if change.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(withWarnings(fiber.Map{
		"message": change.Event.Message,
		"created": change.Created,
		key:       plan,
	}, warns))
}
