package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/planportal/internal/db"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRepo_GetMissing(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), domain.PlanKey{Year: 2026, CoordinatorID: "c1"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPlanRepo_SaveCreatesDraftAndRoundTripsContent(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	key := domain.PlanKey{Year: 2026, CoordinatorID: "c1"}

	content := testutil.NewTestContent(
		testutil.WithGoal("Literacy", "Reading club", "Library hour"),
		testutil.WithStaff("Ben", "Teacher"),
	)
	saved, err := repo.Save(ctx, key, domain.PlanPatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, saved.Status)

	fetched, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, fetched.Status)
	assert.Equal(t, "Ana Coordinator", fetched.Content.Profile.Name)
	require.Len(t, fetched.Content.Goals, 1)
	assert.Equal(t, "Literacy", fetched.Content.Goals[0].Title)
	require.Len(t, fetched.Content.Goals[0].Tasks, 2)
	assert.Equal(t, "Library hour", fetched.Content.Goals[0].Tasks[1].Title)
	assert.Equal(t, domain.TaskNotStarted, fetched.Content.Goals[0].Tasks[1].Status)
	require.Len(t, fetched.Content.TeachingStaff, 1)
	assert.False(t, fetched.CreatedAt.IsZero())
}

func TestPlanRepo_SaveMergesPatch(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	key := domain.PlanKey{Year: 2026, CoordinatorID: "c1"}

	content := testutil.NewTestContent()
	_, err := repo.Save(ctx, key, domain.PlanPatch{Content: &content})
	require.NoError(t, err)

	status := domain.PlanChangesRequested
	feedback := "Add measurable targets"
	_, err = repo.Save(ctx, key, domain.PlanPatch{Status: &status, Feedback: &feedback})
	require.NoError(t, err)

	fetched, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanChangesRequested, fetched.Status)
	assert.Equal(t, "Add measurable targets", fetched.Feedback)
	// Content untouched by a status-only patch.
	require.Len(t, fetched.Content.Goals, 1)
	assert.Equal(t, "Raise numeracy", fetched.Content.Goals[0].Title)
	assert.False(t, fetched.UpdatedAt.Before(fetched.CreatedAt))
}

func TestPlanRepo_SaveStatusOnlyOnMissingPlanCreatesIt(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	key := domain.PlanKey{Year: 2027, CoordinatorID: "c9"}

	status := domain.PlanPending
	submissions := 1
	saved, err := repo.Save(ctx, key, domain.PlanPatch{Status: &status, Submissions: &submissions})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPending, saved.Status)

	fetched, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Submissions)
	assert.Empty(t, fetched.Content.Goals)
}

func TestPlanRepo_ListByYearAndStatus(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	pending := domain.PlanPending
	approved := domain.PlanApproved
	_, err := repo.Save(ctx, domain.PlanKey{Year: 2026, CoordinatorID: "c2"}, domain.PlanPatch{Status: &pending})
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.PlanKey{Year: 2026, CoordinatorID: "c1"}, domain.PlanPatch{Status: &approved})
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.PlanKey{Year: 2025, CoordinatorID: "c1"}, domain.PlanPatch{Status: &pending})
	require.NoError(t, err)

	byYear, err := repo.ListByYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, byYear, 2)
	assert.Equal(t, "c1", byYear[0].CoordinatorID)
	assert.Equal(t, "c2", byYear[1].CoordinatorID)

	byStatus, err := repo.ListByStatus(ctx, domain.PlanPending)
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	none, err := repo.ListByStatus(ctx, domain.PlanChangesRequested)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPlanRepo_TransactionalSaveRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()
	key := domain.PlanKey{Year: 2026, CoordinatorID: "c1"}

	boom := errors.New("boom")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		content := testutil.NewTestContent()
		if _, err := NewSQLitePlanRepo(tx).Save(ctx, key, domain.PlanPatch{Content: &content}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewSQLitePlanRepo(database).Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}
