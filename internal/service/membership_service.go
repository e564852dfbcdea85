package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// Cascade step names reported in domain.CascadeError
const (
	StepDeleteGym      = "delete gym"
	StepClearGymLinks  = "clear gym links"
	StepDeleteGymFiles = "delete gym images"
)

// CreateGymInput is the payload for creating a gym
type CreateGymInput struct {
	Name     string
	Location string
	Images   []string
}

// MembershipService manages gyms and the trainer/member rosters attached to them.
// Mutations return the notification events they produce; nothing is dispatched here.
type MembershipService struct {
	authz  *Authorizer
	gyms   domain.GymRepository
	users  domain.UserRepository
	images domain.ImageStore
	log    logger.Logger
}

// NewMembershipService creates a membership service. images may be nil when
// object storage is disabled.
func NewMembershipService(
	authz *Authorizer,
	gyms domain.GymRepository,
	users domain.UserRepository,
	images domain.ImageStore,
	log logger.Logger,
) *MembershipService {
	return &MembershipService{
		authz:  authz,
		gyms:   gyms,
		users:  users,
		images: images,
		log:    log.With("component", "membership"),
	}
}

func (s *MembershipService) CreateGym(ctx context.Context, p domain.Principal, input CreateGymInput) (*domain.Gym, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionCreateGym); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.NewValidationError("name", "is required")
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}
	gym := &domain.Gym{
		OwnerID:  p.ID,
		Name:     strings.TrimSpace(input.Name),
		Location: input.Location,
		Images:   images,
	}
	if err := s.gyms.Create(ctx, gym); err != nil {
		return nil, err
	}

	s.log.Info("gym created", "gym_id", gym.ID, "owner_id", p.ID)
	return gym, nil
}

func (s *MembershipService) ListGyms(ctx context.Context, p domain.Principal) ([]*domain.Gym, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionListGyms); err != nil {
		return nil, err
	}
	return s.gyms.GetByOwner(ctx, p.ID)
}

// UpdateGym applies patch; fields left nil keep their stored value
func (s *MembershipService) UpdateGym(ctx context.Context, p domain.Principal, gymID string, patch domain.GymPatch) (*domain.Gym, error) {
	gym, err := s.authz.AuthorizeGym(ctx, p, domain.ActionUpdateGym, gymID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		gym.Name = name
	}
	if patch.Location != nil {
		gym.Location = *patch.Location
	}
	if patch.Images != nil {
		gym.Images = patch.Images
	}

	if err := s.gyms.Update(ctx, gym); err != nil {
		return nil, err
	}
	return gym, nil
}

// AddGymImage uploads an image to object storage and appends its URL to the gym
func (s *MembershipService) AddGymImage(ctx context.Context, p domain.Principal, gymID string, data []byte, filename, contentType string) (*domain.Gym, error) {
	gym, err := s.authz.AuthorizeGym(ctx, p, domain.ActionUpdateGym, gymID)
	if err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, domain.NewValidationError("image", "image storage is not configured")
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("image", "is required")
	}

	key := fmt.Sprintf("gyms/%s/%s%s", gym.ID, generateULID(), strings.ToLower(path.Ext(filename)))
	url, err := s.images.Upload(ctx, data, key, contentType)
	if err != nil {
		return nil, err
	}

	gym.Images = append(gym.Images, url)
	if err := s.gyms.Update(ctx, gym); err != nil {
		if delErr := s.images.Delete(ctx, url); delErr != nil {
			s.log.InternalError("failed to remove orphaned gym image", delErr, "url", url)
		}
		return nil, err
	}
	return gym, nil
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context) error
}

// runCascade executes steps in order and stops at the first failure.
// Applied steps are not undone.
func runCascade(ctx context.Context, steps []cascadeStep) error {
	applied := make([]string, 0, len(steps))
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return &domain.CascadeError{Step: step.name, Applied: applied, Err: err}
		}
		applied = append(applied, step.name)
	}
	return nil
}

// DeleteGym removes the gym and then clears every user link to it.
// Each unlinked user gets a "gym closed" event. When a later step fails the
// returned *domain.CascadeError lists the steps that stayed applied, and events
// for users already unlinked are still returned.
func (s *MembershipService) DeleteGym(ctx context.Context, p domain.Principal, gymID string) ([]domain.NotificationEvent, error) {
	gym, err := s.authz.AuthorizeGym(ctx, p, domain.ActionDeleteGym, gymID)
	if err != nil {
		return nil, err
	}

	var unlinked []string
	steps := []cascadeStep{
		{name: StepDeleteGym, run: func(ctx context.Context) error {
			return s.gyms.Delete(ctx, gym.ID)
		}},
		{name: StepClearGymLinks, run: func(ctx context.Context) error {
			ids, err := s.users.ClearGym(ctx, gym.ID)
			unlinked = ids
			return err
		}},
	}
	if s.images != nil && len(gym.Images) > 0 {
		steps = append(steps, cascadeStep{name: StepDeleteGymFiles, run: func(ctx context.Context) error {
			var errs []error
			for _, url := range gym.Images {
				if err := s.images.Delete(ctx, url); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		}})
	}

	cascadeErr := runCascade(ctx, steps)

	events := make([]domain.NotificationEvent, 0, len(unlinked))
	for _, id := range unlinked {
		events = append(events, domain.NewInfoEvent(id, fmt.Sprintf("%s has been closed by its owner.", gym.Name)))
	}

	if cascadeErr != nil {
		s.log.InternalError("gym delete cascade failed", cascadeErr, "gym_id", gym.ID)
		return events, cascadeErr
	}

	s.log.Info("gym deleted", "gym_id", gym.ID, "unlinked_users", len(unlinked))
	return events, nil
}

// AddTrainer links the trainer with the given email to the owner's gym
func (s *MembershipService) AddTrainer(ctx context.Context, p domain.Principal, email, gymID string) (*domain.UserSummary, []domain.NotificationEvent, error) {
	return s.addToGym(ctx, p, domain.ActionAddTrainer, domain.RoleTrainer, email, gymID)
}

// AddMember links the customer with the given email to the owner's gym
func (s *MembershipService) AddMember(ctx context.Context, p domain.Principal, email, gymID string) (*domain.UserSummary, []domain.NotificationEvent, error) {
	return s.addToGym(ctx, p, domain.ActionAddMember, domain.RoleCustomer, email, gymID)
}

func (s *MembershipService) addToGym(ctx context.Context, p domain.Principal, action domain.Action, role, email, gymID string) (*domain.UserSummary, []domain.NotificationEvent, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil, domain.NewValidationError("email", "is required")
	}

	if err := s.authz.AuthorizeRole(p, action); err != nil {
		return nil, nil, err
	}

	// an unknown user is reported before the gym is resolved
	user, err := s.users.GetByEmailAndRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, roleNotFound(role)
		}
		return nil, nil, err
	}

	gym, err := s.authz.ResolveOwnerGym(ctx, p, action, gymID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.SetGym(ctx, user.ID, gym.ID); err != nil {
		return nil, nil, err
	}

	summary := user.Summary()
	event := domain.NewInfoEvent(user.ID, fmt.Sprintf("You have been added to %s as a %s.", gym.Name, roleLabel(role)))
	s.log.Info("user added to gym", "gym_id", gym.ID, "user_id", user.ID, "role", role)
	return &summary, []domain.NotificationEvent{event}, nil
}

// RemoveTrainer unlinks a trainer from the owner's gym
func (s *MembershipService) RemoveTrainer(ctx context.Context, p domain.Principal, trainerID, gymID string) ([]domain.NotificationEvent, error) {
	return s.removeFromGym(ctx, p, domain.ActionRemoveTrainer, domain.RoleTrainer, trainerID, gymID)
}

// RemoveMember unlinks a customer from the owner's gym
func (s *MembershipService) RemoveMember(ctx context.Context, p domain.Principal, memberID, gymID string) ([]domain.NotificationEvent, error) {
	return s.removeFromGym(ctx, p, domain.ActionRemoveMember, domain.RoleCustomer, memberID, gymID)
}

func (s *MembershipService) removeFromGym(ctx context.Context, p domain.Principal, action domain.Action, role, userID, gymID string) ([]domain.NotificationEvent, error) {
	gym, err := s.authz.ResolveOwnerGym(ctx, p, action, gymID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, roleNotFound(role)
		}
		return nil, err
	}
	if !user.HasRole(role) {
		return nil, roleNotFound(role)
	}
	if user.GymID != gym.ID {
		if role == domain.RoleTrainer {
			return nil, domain.ErrTrainerNotInGym
		}
		return nil, domain.ErrMemberNotInGym
	}

	if err := s.users.SetGym(ctx, user.ID, ""); err != nil {
		return nil, err
	}

	s.log.Info("user removed from gym", "gym_id", gym.ID, "user_id", user.ID, "role", role)
	return []domain.NotificationEvent{
		domain.NewInfoEvent(user.ID, fmt.Sprintf("You have been removed from %s.", gym.Name)),
	}, nil
}

func (s *MembershipService) ListTrainers(ctx context.Context, p domain.Principal, gymID string) ([]domain.UserSummary, error) {
	return s.listRoster(ctx, p, domain.ActionListTrainers, domain.RoleTrainer, gymID)
}

func (s *MembershipService) ListMembers(ctx context.Context, p domain.Principal, gymID string) ([]domain.UserSummary, error) {
	return s.listRoster(ctx, p, domain.ActionListMembers, domain.RoleCustomer, gymID)
}

func (s *MembershipService) listRoster(ctx context.Context, p domain.Principal, action domain.Action, role, gymID string) ([]domain.UserSummary, error) {
	gym, err := s.authz.ResolveOwnerGym(ctx, p, action, gymID)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, gym.ID, role)
}

// ListGymMembers returns the customers of the calling trainer's gym
func (s *MembershipService) ListGymMembers(ctx context.Context, p domain.Principal) ([]domain.UserSummary, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionListRoster); err != nil {
		return nil, err
	}

	trainer, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if trainer.GymID == "" {
		return nil, domain.ErrTrainerWithoutGym
	}
	return s.summaries(ctx, trainer.GymID, domain.RoleCustomer)
}

func (s *MembershipService) summaries(ctx context.Context, gymID, role string) ([]domain.UserSummary, error) {
	users, err := s.users.GetByGymAndRole(ctx, gymID, role)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

func roleNotFound(role string) error {
	if role == domain.RoleTrainer {
		return domain.ErrTrainerNotFound
	}
	return domain.ErrMemberNotFound
}

func roleLabel(role string) string {
	if role == domain.RoleCustomer {
		return "member"
	}
	return role
}
