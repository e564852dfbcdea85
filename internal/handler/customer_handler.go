package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/middleware"
	"github.com/mansoorceksport/gymhub/internal/service"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// CustomerHandler serves a customer's own plans and logs
type CustomerHandler struct {
	programs *service.ProgramService
	progress *service.ProgressService
	log      logger.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(programs *service.ProgramService, progress *service.ProgressService, log logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		programs: programs,
		progress: progress,
		log:      log.With("handler", "customer"),
	}
}

type macroLogRequest struct {
	Date     *time.Time `json:"date"`
	Food     string     `json:"food" validate:"required"`
	Protein  float64    `json:"protein" validate:"gte=0"`
	Carbs    float64    `json:"carbs" validate:"gte=0"`
	Fats     float64    `json:"fats" validate:"gte=0"`
	Calories float64    `json:"calories" validate:"gte=0"`
}

func (r macroLogRequest) toDomain() *domain.MacroLog {
	log := &domain.MacroLog{
		Food:     r.Food,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fats:     r.Fats,
		Calories: r.Calories,
	}
	if r.Date != nil {
		log.Date = *r.Date
	}
	return log
}

type bodyProgressRequest struct {
	Date         *time.Time          `json:"date"`
	Weight       float64             `json:"weight" validate:"gt=0"`
	BodyFat      float64             `json:"bodyFat" validate:"gte=0,lte=100"`
	MuscleMass   float64             `json:"muscleMass" validate:"gte=0"`
	Images       []string            `json:"images" validate:"omitempty,dive,url"`
	Measurements domain.Measurements `json:"measurements"`
}

func (r bodyProgressRequest) toDomain() *domain.BodyProgress {
	entry := &domain.BodyProgress{
		Weight:       r.Weight,
		BodyFat:      r.BodyFat,
		MuscleMass:   r.MuscleMass,
		Images:       r.Images,
		Measurements: r.Measurements,
	}
	if r.Date != nil {
		entry.Date = *r.Date
	}
	return entry
}

// GetWorkoutPlan handles GET /v1/customer/workout-plan
func (h *CustomerHandler) GetWorkoutPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	plan, err := h.programs.GetOwnWorkoutPlan(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(plan)
}

// GetDietPlan handles GET /v1/customer/diet-plan
func (h *CustomerHandler) GetDietPlan(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	plan, err := h.programs.GetOwnDietPlan(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(plan)
}

// CreateMacroLog handles POST /v1/customer/macro-logs
func (h *CustomerHandler) CreateMacroLog(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req macroLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	entry, err := h.progress.CreateMacroLog(c.UserContext(), p, req.toDomain())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListMacroLogs handles GET /v1/customer/macro-logs
func (h *CustomerHandler) ListMacroLogs(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	logs, err := h.progress.ListMacroLogs(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(logs)
}

// UpdateMacroLog handles PUT /v1/customer/macro-logs/:id
func (h *CustomerHandler) UpdateMacroLog(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req macroLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	entry, err := h.progress.UpdateMacroLog(c.UserContext(), p, c.Params("id"), req.toDomain())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(entry)
}

// DeleteMacroLog handles DELETE /v1/customer/macro-logs/:id
func (h *CustomerHandler) DeleteMacroLog(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	if err := h.progress.DeleteMacroLog(c.UserContext(), p, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Macro log deleted"})
}

// CreateBodyProgress handles POST /v1/customer/body-progress
func (h *CustomerHandler) CreateBodyProgress(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req bodyProgressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	entry, err := h.progress.CreateBodyProgress(c.UserContext(), p, req.toDomain())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListBodyProgress handles GET /v1/customer/body-progress
func (h *CustomerHandler) ListBodyProgress(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	entries, err := h.progress.ListBodyProgress(c.UserContext(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(entries)
}

// UpdateBodyProgress handles PUT /v1/customer/body-progress/:id
func (h *CustomerHandler) UpdateBodyProgress(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	var req bodyProgressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	entry, err := h.progress.UpdateBodyProgress(c.UserContext(), p, c.Params("id"), req.toDomain())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(entry)
}

// DeleteBodyProgress handles DELETE /v1/customer/body-progress/:id
func (h *CustomerHandler) DeleteBodyProgress(c *fiber.Ctx) error {
	p, _ := middleware.GetPrincipal(c)

	if err := h.progress.DeleteBodyProgress(c.UserContext(), p, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Body progress deleted"})
}
