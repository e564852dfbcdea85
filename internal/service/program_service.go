package service

import (
	"context"
	"errors"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Plan notification messages
const (
	msgWorkoutPlanCreated = "Your workout plan has been created."
	msgWorkoutPlanUpdated = "Your workout plan has been updated."
	msgWorkoutPlanDeleted = "Your workout plan has been deleted."
	msgDietPlanCreated    = "Your diet plan has been created."
	msgDietPlanUpdated    = "Your diet plan has been updated."
	msgDietPlanDeleted    = "Your diet plan has been deleted."
)

// PlanChange describes what a plan write did. Every successful write carries
// exactly one event for the customer.
type PlanChange struct {
	Created bool
	Event   domain.NotificationEvent
}

// ProgramService lets trainers assign workout and diet plans to customers of their gym
type ProgramService struct {
	authz    *Authorizer
	workouts domain.WorkoutPlanRepository
	diets    domain.DietPlanRepository
	log      logger.Logger
}

func NewProgramService(
	authz *Authorizer,
	workouts domain.WorkoutPlanRepository,
	diets domain.DietPlanRepository,
	log logger.Logger,
) *ProgramService {
	return &ProgramService{
		authz:    authz,
		workouts: workouts,
		diets:    diets,
		log:      log.With("component", "programs"),
	}
}

// UpsertWorkoutPlan replaces the customer's exercise set, creating the plan
// when the customer has none. Entries equal to a stored entry keep its id.
func (s *ProgramService) UpsertWorkoutPlan(ctx context.Context, p domain.Principal, customerID string, exercises []domain.Exercise) (*domain.WorkoutPlan, *PlanChange, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionWriteWorkoutPlan, customerID); err != nil {
		return nil, nil, err
	}

	existing, err := s.workouts.GetByUserID(ctx, customerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		plan, err := s.workouts.ReplaceExercises(ctx, customerID, withExerciseIDs(exercises, existing.Exercises))
		if err == nil {
			return plan, s.change(false, customerID, msgWorkoutPlanUpdated), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
	}

	exercises = withExerciseIDs(exercises, nil)
	plan := &domain.WorkoutPlan{UserID: customerID, Exercises: exercises}
	if err := s.workouts.Create(ctx, plan); err != nil {
		// lost a create race; the unique index kept the other writer's plan
		if errors.Is(err, domain.ErrConflict) {
			plan, err = s.workouts.ReplaceExercises(ctx, customerID, exercises)
			if err != nil {
				return nil, nil, err
			}
			return plan, s.change(false, customerID, msgWorkoutPlanUpdated), nil
		}
		return nil, nil, err
	}

	s.log.Info("workout plan created", "user_id", customerID, "trainer_id", p.ID)
	return plan, s.change(true, customerID, msgWorkoutPlanCreated), nil
}

// UpdateWorkoutPlan only replaces an existing plan
func (s *ProgramService) UpdateWorkoutPlan(ctx context.Context, p domain.Principal, customerID string, exercises []domain.Exercise) (*domain.WorkoutPlan, *PlanChange, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionWriteWorkoutPlan, customerID); err != nil {
		return nil, nil, err
	}

	existing, err := s.workouts.GetByUserID(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	plan, err := s.workouts.ReplaceExercises(ctx, customerID, withExerciseIDs(exercises, existing.Exercises))
	if err != nil {
		return nil, nil, err
	}
	return plan, s.change(false, customerID, msgWorkoutPlanUpdated), nil
}

func (s *ProgramService) GetWorkoutPlan(ctx context.Context, p domain.Principal, customerID string) (*domain.WorkoutPlan, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionReadWorkoutPlan, customerID); err != nil {
		return nil, err
	}
	return s.workouts.GetByUserID(ctx, customerID)
}

func (s *ProgramService) DeleteWorkoutPlan(ctx context.Context, p domain.Principal, customerID string) (*PlanChange, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionDeleteWorkoutPlan, customerID); err != nil {
		return nil, err
	}
	if err := s.workouts.DeleteByUserID(ctx, customerID); err != nil {
		return nil, err
	}

	s.log.Info("workout plan deleted", "user_id", customerID, "trainer_id", p.ID)
	return s.change(false, customerID, msgWorkoutPlanDeleted), nil
}

// UpsertDietPlan replaces the customer's meal set, creating the plan when the
// customer has none. Entries equal to a stored entry keep its id.
func (s *ProgramService) UpsertDietPlan(ctx context.Context, p domain.Principal, customerID string, meals []domain.Meal) (*domain.DietPlan, *PlanChange, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionWriteDietPlan, customerID); err != nil {
		return nil, nil, err
	}

	existing, err := s.diets.GetByUserID(ctx, customerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		plan, err := s.diets.ReplaceMeals(ctx, customerID, withMealIDs(meals, existing.Meals))
		if err == nil {
			return plan, s.change(false, customerID, msgDietPlanUpdated), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
	}

	meals = withMealIDs(meals, nil)
	plan := &domain.DietPlan{UserID: customerID, Meals: meals}
	if err := s.diets.Create(ctx, plan); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			plan, err = s.diets.ReplaceMeals(ctx, customerID, meals)
			if err != nil {
				return nil, nil, err
			}
			return plan, s.change(false, customerID, msgDietPlanUpdated), nil
		}
		return nil, nil, err
	}

	s.log.Info("diet plan created", "user_id", customerID, "trainer_id", p.ID)
	return plan, s.change(true, customerID, msgDietPlanCreated), nil
}

// UpdateDietPlan only replaces an existing plan
func (s *ProgramService) UpdateDietPlan(ctx context.Context, p domain.Principal, customerID string, meals []domain.Meal) (*domain.DietPlan, *PlanChange, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionWriteDietPlan, customerID); err != nil {
		return nil, nil, err
	}

	existing, err := s.diets.GetByUserID(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	plan, err := s.diets.ReplaceMeals(ctx, customerID, withMealIDs(meals, existing.Meals))
	if err != nil {
		return nil, nil, err
	}
	return plan, s.change(false, customerID, msgDietPlanUpdated), nil
}

func (s *ProgramService) GetDietPlan(ctx context.Context, p domain.Principal, customerID string) (*domain.DietPlan, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionReadDietPlan, customerID); err != nil {
		return nil, err
	}
	return s.diets.GetByUserID(ctx, customerID)
}

func (s *ProgramService) DeleteDietPlan(ctx context.Context, p domain.Principal, customerID string) (*PlanChange, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionDeleteDietPlan, customerID); err != nil {
		return nil, err
	}
	if err := s.diets.DeleteByUserID(ctx, customerID); err != nil {
		return nil, err
	}

	s.log.Info("diet plan deleted", "user_id", customerID, "trainer_id", p.ID)
	return s.change(false, customerID, msgDietPlanDeleted), nil
}

// GetPrograms loads both plans of a customer concurrently. A missing plan is nil.
func (s *ProgramService) GetPrograms(ctx context.Context, p domain.Principal, customerID string) (*domain.Programs, error) {
	if _, err := s.authz.AuthorizeCustomer(ctx, p, domain.ActionReadWorkoutPlan, customerID); err != nil {
		return nil, err
	}

	var programs domain.Programs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		plan, err := s.workouts.GetByUserID(gctx, customerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		programs.WorkoutPlan = plan
		return nil
	})
	g.Go(func() error {
		plan, err := s.diets.GetByUserID(gctx, customerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		programs.DietPlan = plan
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &programs, nil
}

// GetOwnWorkoutPlan returns the calling customer's workout plan
func (s *ProgramService) GetOwnWorkoutPlan(ctx context.Context, p domain.Principal) (*domain.WorkoutPlan, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionReadOwnPlans); err != nil {
		return nil, err
	}
	return s.workouts.GetByUserID(ctx, p.ID)
}

// GetOwnDietPlan returns the calling customer's diet plan
func (s *ProgramService) GetOwnDietPlan(ctx context.Context, p domain.Principal) (*domain.DietPlan, error) {
	if err := s.authz.AuthorizeRole(p, domain.ActionReadOwnPlans); err != nil {
		return nil, err
	}
	return s.diets.GetByUserID(ctx, p.ID)
}

func (s *ProgramService) change(created bool, customerID, message string) *PlanChange {
	return &PlanChange{Created: created, Event: domain.NewInfoEvent(customerID, message)}
}

// withExerciseIDs fills missing entry ids. An entry equal in content to one of
// previous reuses that entry's id; each stored id is reused at most once.
func withExerciseIDs(exercises, previous []domain.Exercise) []domain.Exercise {
	pool := make(map[domain.Exercise][]string, len(previous))
	for _, e := range previous {
		id := e.ID
		e.ID = ""
		pool[e] = append(pool[e], id)
	}

	out := make([]domain.Exercise, len(exercises))
	for i, e := range exercises {
		if e.ID == "" {
			ids := pool[e]
			if len(ids) > 0 {
				pool[e] = ids[1:]
				e.ID = ids[0]
			} else {
				e.ID = generateULID()
			}
		}
		out[i] = e
	}
	return out
}

func withMealIDs(meals, previous []domain.Meal) []domain.Meal {
	pool := make(map[domain.Meal][]string, len(previous))
	for _, m := range previous {
		id := m.ID
		m.ID = ""
		pool[m] = append(pool[m], id)
	}

	out := make([]domain.Meal, len(meals))
	for i, m := range meals {
		if m.ID == "" {
			ids := pool[m]
			if len(ids) > 0 {
				pool[m] = ids[1:]
				m.ID = ids[0]
			} else {
				m.ID = generateULID()
			}
		}
		out[i] = m
	}
	return out
}
