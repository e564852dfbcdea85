package service

import (
	"context"
	"testing"
	"time"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacroLogs_SelfScoped(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cody := domain.Principal{ID: "c1", Role: domain.RoleCustomer}
	cara := domain.Principal{ID: "c2", Role: domain.RoleCustomer}

	_, err := env.progress.CreateMacroLog(ctx, cody, &domain.MacroLog{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	older, err := env.progress.CreateMacroLog(ctx, cody, &domain.MacroLog{Food: "Rice", Calories: 200, Date: time.Now().Add(-24 * time.Hour)})
	require.NoError(t, err)
	newer, err := env.progress.CreateMacroLog(ctx, cody, &domain.MacroLog{Food: "Eggs", Protein: 12, UserID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "c1", newer.UserID, "user id always comes from the principal")

	list, err := env.progress.ListMacroLogs(ctx, cody)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	_, err = env.progress.UpdateMacroLog(ctx, cara, older.ID, &domain.MacroLog{Food: "Stolen"})
	assert.ErrorIs(t, err, domain.ErrMacroLogNotFound)
	assert.ErrorIs(t, env.progress.DeleteMacroLog(ctx, cara, older.ID), domain.ErrNotFound)

	updated, err := env.progress.UpdateMacroLog(ctx, cody, older.ID, &domain.MacroLog{Food: "Brown rice", Calories: 210})
	require.NoError(t, err)
	assert.Equal(t, "Brown rice", updated.Food)
	assert.Equal(t, older.Date, updated.Date)

	require.NoError(t, env.progress.DeleteMacroLog(ctx, cody, older.ID))

	_, err = env.progress.ListMacroLogs(ctx, domain.Principal{ID: "t1", Role: domain.RoleTrainer})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBodyProgress_SelfScoped(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cody := domain.Principal{ID: "c1", Role: domain.RoleCustomer}

	_, err := env.progress.CreateBodyProgress(ctx, cody, &domain.BodyProgress{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	entry, err := env.progress.CreateBodyProgress(ctx, cody, &domain.BodyProgress{Weight: 81.5, BodyFat: 18})
	require.NoError(t, err)
	assert.NotNil(t, entry.Images)

	updated, err := env.progress.UpdateBodyProgress(ctx, cody, entry.ID, &domain.BodyProgress{
		Weight:       80.9,
		Measurements: domain.Measurements{Waist: 84},
	})
	require.NoError(t, err)
	assert.Equal(t, 80.9, updated.Weight)
	assert.Equal(t, 84.0, updated.Measurements.Waist)

	_, err = env.progress.UpdateBodyProgress(ctx, domain.Principal{ID: "c2", Role: domain.RoleCustomer}, entry.ID, &domain.BodyProgress{Weight: 1})
	assert.ErrorIs(t, err, domain.ErrBodyProgressNotFound)

	list, err := env.progress.ListBodyProgress(ctx, cody)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.progress.DeleteBodyProgress(ctx, cody, entry.ID))
	assert.ErrorIs(t, env.progress.DeleteBodyProgress(ctx, cody, entry.ID), domain.ErrNotFound)
}

func TestProgress_ForeignRecordsAreNotFoundAndUntouched(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cody := domain.Principal{ID: "c1", Role: domain.RoleCustomer}
	cara := domain.Principal{ID: "c2", Role: domain.RoleCustomer}

	macro, err := env.progress.CreateMacroLog(ctx, cody, &domain.MacroLog{Food: "Oats", Calories: 300})
	require.NoError(t, err)
	body, err := env.progress.CreateBodyProgress(ctx, cody, &domain.BodyProgress{Weight: 80})
	require.NoError(t, err)

	// loaded by id alone; the ownership gate rejects it
	_, err = env.progress.UpdateMacroLog(ctx, cara, macro.ID, &domain.MacroLog{Food: "Taken"})
	assert.ErrorIs(t, err, domain.ErrMacroLogNotFound)
	assert.ErrorIs(t, env.progress.DeleteMacroLog(ctx, cara, macro.ID), domain.ErrMacroLogNotFound)
	_, err = env.progress.UpdateBodyProgress(ctx, cara, body.ID, &domain.BodyProgress{Weight: 1})
	assert.ErrorIs(t, err, domain.ErrBodyProgressNotFound)
	assert.ErrorIs(t, env.progress.DeleteBodyProgress(ctx, cara, body.ID), domain.ErrBodyProgressNotFound)

	_, err = env.progress.UpdateMacroLog(ctx, cody, "missing", &domain.MacroLog{Food: "Oats"})
	assert.ErrorIs(t, err, domain.ErrMacroLogNotFound)
	assert.ErrorIs(t, env.progress.DeleteBodyProgress(ctx, cody, "missing"), domain.ErrBodyProgressNotFound)

	logs, err := env.progress.ListMacroLogs(ctx, cody)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Oats", logs[0].Food)

	entries, err := env.progress.ListBodyProgress(ctx, cody)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 80.0, entries[0].Weight)
}
