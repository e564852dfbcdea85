package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mansoorceksport/gymhub/internal/domain"
)

// ProgressService keeps the macro logs and body progress check-ins a customer
// records about themselves. Every record is visible to its author only.
type ProgressService struct {
	authz  *Authorizer
	macros domain.MacroLogRepository
	body   domain.BodyProgressRepository
}

func NewProgressService(authz *Authorizer, macros domain.MacroLogRepository, body domain.BodyProgressRepository) *ProgressService {
	return &ProgressService{authz: authz, macros: macros, body: body}
}

func (s *ProgressService) CreateMacroLog(ctx context.Context, p domain.Principal, entry *domain.MacroLog) (*domain.MacroLog, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionWriteOwnLog); err != nil {
		return nil, err
	}
	if strings.TrimSpace(entry.Food) == "" {
		return nil, domain.NewValidationError("food", "is required")
	}

	entry.UserID = p.ID
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	if err := s.macros.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ProgressService) ListMacroLogs(ctx context.Context, p domain.Principal) ([]*domain.MacroLog, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionReadOwnLog); err != nil {
		return nil, err
	}
	return s.macros.ListByUser(ctx, p.ID)
}

// UpdateMacroLog overwrites the editable fields of one of the caller's logs
func (s *ProgressService) UpdateMacroLog(ctx context.Context, p domain.Principal, id string, changes *domain.MacroLog) (*domain.MacroLog, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionWriteOwnLog); err != nil {
		return nil, err
	}
	if strings.TrimSpace(changes.Food) == "" {
		return nil, domain.NewValidationError("food", "is required")
	}

	existing, err := s.loadMacroLog(ctx, p, id)
	if err != nil {
		return nil, err
	}

	existing.Food = changes.Food
	existing.Protein = changes.Protein
	existing.Carbs = changes.Carbs
	existing.Fats = changes.Fats
	existing.Calories = changes.Calories
	if !changes.Date.IsZero() {
		existing.Date = changes.Date
	}
	if err := s.macros.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ProgressService) DeleteMacroLog(ctx context.Context, p domain.Principal, id string) error {
	if err := s.authz.AuthorizeRole(p, domain.ActionWriteOwnLog); err != nil {
		return err
	}
	if _, err := s.loadMacroLog(ctx, p, id); err != nil {
		return err
	}
	return s.macros.DeleteForUser(ctx, id, p.ID)
}

// loadMacroLog fetches a log by id and runs the self-ownership gate on it.
// Missing and foreign logs are both ErrMacroLogNotFound.
func (s *ProgressService) loadMacroLog(ctx context.Context, p domain.Principal, id string) (*domain.MacroLog, error) {
	existing, err := s.macros.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	var ownerID string
	if existing != nil {
		ownerID = existing.UserID
	}
	if err := s.authz.AuthorizeRecord(p, domain.ActionWriteOwnLog, ownerID, domain.ErrMacroLogNotFound); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ProgressService) CreateBodyProgress(ctx context.Context, p domain.Principal, entry *domain.BodyProgress) (*domain.BodyProgress, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionWriteOwnLog); err != nil {
		return nil, err
	}
	if entry.Weight <= 0 {
		return nil, domain.NewValidationError("weight", "must be greater than zero")
	}

	entry.UserID = p.ID
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	if entry.Images == nil {
		entry.Images = []string{}
	}
	if err := s.body.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ProgressService) ListBodyProgress(ctx context.Context, p domain.Principal) ([]*domain.BodyProgress, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionReadOwnLog); err != nil {
		return nil, err
	}
	return s.body.ListByUser(ctx, p.ID)
}

func (s *ProgressService) UpdateBodyProgress(ctx context.Context, p domain.Principal, id string, changes *domain.BodyProgress) (*domain.BodyProgress, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionWriteOwnLog); err != nil {
		return nil, err
	}
	if changes.Weight <= 0 {
		return nil, domain.NewValidationError("weight", "must be greater than zero")
	}

	existing, err := s.loadBodyProgress(ctx, p, id)
	if err != nil {
		return nil, err
	}

	existing.Weight = changes.Weight
	existing.BodyFat = changes.BodyFat
	existing.MuscleMass = changes.MuscleMass
	existing.Measurements = changes.Measurements
	if changes.Images != nil {
		existing.Images = changes.Images
	}
	if !changes.Date.IsZero() {
		existing.Date = changes.Date
	}
	if err := s.body.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ProgressService) DeleteBodyProgress(ctx context.Context, p domain.Principal, id string) error {
	if err := s.authz.AuthorizeRole(p, domain.ActionWriteOwnLog); err != nil {
		return err
	}
	if _, err := s.loadBodyProgress(ctx, p, id); err != nil {
		return err
	}
	return s.body.DeleteForUser(ctx, id, p.ID)
}

func (s *ProgressService) loadBodyProgress(ctx context.Context, p domain.Principal, id string) (*domain.BodyProgress, error) {
	existing, err := s.body.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	var ownerID string
	if existing != nil {
		ownerID = existing.UserID
	}
	if err := s.authz.AuthorizeRecord(p, domain.ActionWriteOwnLog, ownerID, domain.ErrBodyProgressNotFound); err != nil {
		return nil, err
	}
	return existing, nil
}
