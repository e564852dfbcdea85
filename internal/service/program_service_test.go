package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func programFixture(t *testing.T) (*testEnv, domain.Principal) {
	t.Helper()
	env := newTestEnv()
	env.store.addUser("t1", "Tess", domain.RoleTrainer, "g1")
	env.store.addUser("c1", "Cody", domain.RoleCustomer, "g1")
	env.store.addUser("c2", "Cara", domain.RoleCustomer, "g2")
	return env, domain.Principal{ID: "t1", Role: domain.RoleTrainer}
}

func squat() domain.Exercise {
	return domain.Exercise{Name: "Squat", Sets: 5, Reps: "5", Rest: "180s", Day: "monday"}
}

func TestUpsertWorkoutPlan_CreateThenReplace(t *testing.T) {
	env, trainer := programFixture(t)
	ctx := context.Background()

	plan, change, err := env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", []domain.Exercise{squat()})
	require.NoError(t, err)
	assert.True(t, change.Created)
	assert.Equal(t, "c1", change.Event.RecipientID)
	assert.Contains(t, change.Event.Message, "created")
	require.Len(t, plan.Exercises, 1)
	assert.NotEmpty(t, plan.Exercises[0].ID)

	bench := domain.Exercise{Name: "Bench", Sets: 3, Reps: "8-10", Rest: "90s", Day: "tuesday"}
	plan, change, err = env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", []domain.Exercise{bench})
	require.NoError(t, err)
	assert.False(t, change.Created)
	assert.Contains(t, change.Event.Message, "updated")

	// replaced wholesale, not merged
	require.Len(t, plan.Exercises, 1)
	assert.Equal(t, "Bench", plan.Exercises[0].Name)

	stored, err := env.programs.GetWorkoutPlan(ctx, trainer, "c1")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, stored.ID)
}

func TestUpsertWorkoutPlan_EmptySetIsAccepted(t *testing.T) {
	env, trainer := programFixture(t)

	plan, change, err := env.programs.UpsertWorkoutPlan(context.Background(), trainer, "c1", nil)
	require.NoError(t, err)
	assert.True(t, change.Created)
	assert.Empty(t, plan.Exercises)
}

func TestUpsertWorkoutPlan_GymMembershipGate(t *testing.T) {
	env, trainer := programFixture(t)
	env.store.addUser("t2", "Lone", domain.RoleTrainer, "")
	ctx := context.Background()

	cases := map[string]struct {
		p          domain.Principal
		customerID string
	}{
		"customer in another gym": {trainer, "c2"},
		"missing customer":        {trainer, "ghost"},
		"target is a trainer":     {trainer, "t1"},
		"trainer without gym":     {domain.Principal{ID: "t2", Role: domain.RoleTrainer}, "c1"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := env.programs.UpsertWorkoutPlan(ctx, tc.p, tc.customerID, []domain.Exercise{squat()})
			assert.Equal(t, domain.ErrAccessDenied, err)
		})
	}
	assert.Empty(t, env.store.workouts)

	_, _, err := env.programs.UpsertWorkoutPlan(ctx, domain.Principal{ID: "c1", Role: domain.RoleCustomer}, "c1", nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateWorkoutPlan_RequiresExistingPlan(t *testing.T) {
	env, trainer := programFixture(t)

	_, _, err := env.programs.UpdateWorkoutPlan(context.Background(), trainer, "c1", []domain.Exercise{squat()})
	assert.ErrorIs(t, err, domain.ErrWorkoutPlanNotFound)
}

func TestDeleteWorkoutPlan(t *testing.T) {
	env, trainer := programFixture(t)
	ctx := context.Background()

	_, err := env.programs.DeleteWorkoutPlan(ctx, trainer, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", []domain.Exercise{squat()})
	require.NoError(t, err)

	change, err := env.programs.DeleteWorkoutPlan(ctx, trainer, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Your workout plan has been deleted.", change.Event.Message)

	_, err = env.programs.GetWorkoutPlan(ctx, trainer, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertDietPlan(t *testing.T) {
	env, trainer := programFixture(t)
	ctx := context.Background()
	breakfast := domain.Meal{Name: "Oats", Calories: 420, Macros: domain.Macros{Protein: 20, Carbs: 60, Fats: 9}, Time: "07:00"}

	plan, change, err := env.programs.UpsertDietPlan(ctx, trainer, "c1", []domain.Meal{breakfast})
	require.NoError(t, err)
	assert.True(t, change.Created)
	assert.Equal(t, "Your diet plan has been created.", change.Event.Message)
	assert.NotEmpty(t, plan.Meals[0].ID)

	_, change, err = env.programs.UpsertDietPlan(ctx, trainer, "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Your diet plan has been updated.", change.Event.Message)

	_, _, err = env.programs.UpsertDietPlan(ctx, trainer, "c2", nil)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	own, err := env.programs.GetOwnDietPlan(ctx, domain.Principal{ID: "c1", Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Empty(t, own.Meals)
}

func TestGetPrograms(t *testing.T) {
	env, trainer := programFixture(t)
	ctx := context.Background()

	programs, err := env.programs.GetPrograms(ctx, trainer, "c1")
	require.NoError(t, err)
	assert.Nil(t, programs.WorkoutPlan)
	assert.Nil(t, programs.DietPlan)

	_, _, err = env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", []domain.Exercise{squat()})
	require.NoError(t, err)

	programs, err = env.programs.GetPrograms(ctx, trainer, "c1")
	require.NoError(t, err)
	require.NotNil(t, programs.WorkoutPlan)
	assert.Nil(t, programs.DietPlan)

	env.store.FailWorkoutRead = errors.New("cursor killed")
	_, err = env.programs.GetPrograms(ctx, trainer, "c1")
	assert.EqualError(t, err, "cursor killed")
}

func TestGetOwnWorkoutPlan_OnlyCustomers(t *testing.T) {
	env, trainer := programFixture(t)

	_, err := env.programs.GetOwnWorkoutPlan(context.Background(), trainer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.programs.GetOwnWorkoutPlan(context.Background(), domain.Principal{ID: "c1", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrWorkoutPlanNotFound)
}

func oats() domain.Meal {
	return domain.Meal{Name: "Oats", Calories: 420, Macros: domain.Macros{Protein: 20, Carbs: 60, Fats: 9}, Time: "07:00"}
}

func withoutIDs(exercises []domain.Exercise) []domain.Exercise {
	out := make([]domain.Exercise, len(exercises))
	for i, e := range exercises {
		e.ID = ""
		out[i] = e
	}
	return out
}

func TestUpsertWorkoutPlan_SameSetTwice(t *testing.T) {
	env, trainer := programFixture(t)
	ctx := context.Background()
	input := []domain.Exercise{
		squat(),
		{Name: "Bench", Sets: 3, Reps: "8-10", Rest: "90s", Day: "tuesday"},
		squat(),
	}

	first, change, err := env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", input)
	require.NoError(t, err)
	require.NoError(t, env.notifications.Dispatch(ctx, []domain.NotificationEvent{change.Event}))

	second, change, err := env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", input)
	require.NoError(t, err)
	require.NoError(t, env.notifications.Dispatch(ctx, []domain.NotificationEvent{change.Event}))

	stored, err := env.programs.GetWorkoutPlan(ctx, trainer, "c1")
	require.NoError(t, err)
	assert.Equal(t, input, withoutIDs(stored.Exercises))

	// identical entries keep their ids, duplicates stay distinct
	assert.Equal(t, first.Exercises, second.Exercises)
	assert.NotEqual(t, second.Exercises[0].ID, second.Exercises[2].ID)

	inbox := env.store.unread("c1")
	require.Len(t, inbox, 2)
	messages := []string{inbox[0].Message, inbox[1].Message}
	assert.ElementsMatch(t, []string{
		"Your workout plan has been created.",
		"Your workout plan has been updated.",
	}, messages)
}

func TestUpsertWorkoutPlan_ChangedEntriesGetNewIDs(t *testing.T) {
	env, trainer := programFixture(t)
	ctx := context.Background()

	first, _, err := env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", []domain.Exercise{squat()})
	require.NoError(t, err)

	heavier := squat()
	heavier.Reps = "3"
	second, _, err := env.programs.UpsertWorkoutPlan(ctx, trainer, "c1", []domain.Exercise{squat(), heavier})
	require.NoError(t, err)

	assert.Equal(t, first.Exercises[0].ID, second.Exercises[0].ID)
	assert.NotEmpty(t, second.Exercises[1].ID)
	assert.NotEqual(t, first.Exercises[0].ID, second.Exercises[1].ID)
}

func TestDietPlan_GetUpdateDelete(t *testing.T) {
	env, trainer := programFixture(t)
	ctx := context.Background()

	_, err := env.programs.GetDietPlan(ctx, trainer, "c1")
	assert.ErrorIs(t, err, domain.ErrDietPlanNotFound)

	_, _, err = env.programs.UpdateDietPlan(ctx, trainer, "c1", []domain.Meal{oats()})
	assert.ErrorIs(t, err, domain.ErrDietPlanNotFound)
	assert.Empty(t, env.store.diets, "update must not create")

	_, err = env.programs.DeleteDietPlan(ctx, trainer, "c1")
	assert.ErrorIs(t, err, domain.ErrDietPlanNotFound)

	created, _, err := env.programs.UpsertDietPlan(ctx, trainer, "c1", []domain.Meal{oats()})
	require.NoError(t, err)

	lunch := domain.Meal{Name: "Chicken rice", Calories: 650, Macros: domain.Macros{Protein: 45, Carbs: 80, Fats: 12}, Time: "12:30"}
	updated, change, err := env.programs.UpdateDietPlan(ctx, trainer, "c1", []domain.Meal{oats(), lunch})
	require.NoError(t, err)
	assert.False(t, change.Created)
	assert.Equal(t, "Your diet plan has been updated.", change.Event.Message)
	require.Len(t, updated.Meals, 2)
	assert.Equal(t, created.Meals[0].ID, updated.Meals[0].ID)

	got, err := env.programs.GetDietPlan(ctx, trainer, "c1")
	require.NoError(t, err)
	assert.Equal(t, updated.Meals, got.Meals)

	_, err = env.programs.GetDietPlan(ctx, trainer, "c2")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	_, err = env.programs.DeleteDietPlan(ctx, trainer, "c2")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	change, err = env.programs.DeleteDietPlan(ctx, trainer, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", change.Event.RecipientID)
	assert.Equal(t, "Your diet plan has been deleted.", change.Event.Message)

	_, err = env.programs.GetDietPlan(ctx, trainer, "c1")
	assert.ErrorIs(t, err, domain.ErrDietPlanNotFound)
	_, err = env.programs.DeleteDietPlan(ctx, trainer, "c1")
	assert.ErrorIs(t, err, domain.ErrDietPlanNotFound)
}
