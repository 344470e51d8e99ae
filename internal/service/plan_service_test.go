package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
	"github.com/alexanderramin/planportal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) planService(allowApprovedEdits bool) PlanService {
	return NewPlanService(e.plans, e.users, PlanOptions{AllowApprovedEdits: allowApprovedEdits, Retry: fastRetry()})
}

func saveDraft(ctx context.Context, svc PlanService, content domain.PlanContent) (*domain.Plan, error) {
	return svc.SaveDraft(ctx, app.SaveDraftRequest{Year: 2026, CoordinatorID: "c1", Content: content})
}

func TestPlanService_SaveDraftCreatesDraft(t *testing.T) {
	env := newTestEnv(t)
	svc := env.planService(true)
	ctx := context.Background()

	p, err := saveDraft(ctx, svc, testutil.NewTestContent())
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, p.Status)

	stored, err := svc.Get(ctx, key2026)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanDraft, stored.Status)
	assert.Equal(t, "Raise numeracy", stored.Content.Goals[0].Title)
	assert.Empty(t, env.feed(t, "p1"), "saving a draft notifies no one")
}

func TestPlanService_SaveDraftLockRules(t *testing.T) {
	for _, tc := range []struct {
		name        string
		setup       func(t *testing.T, wf WorkflowService)
		allowEdits  bool
		wantLocked  bool
		keepsStatus domain.PlanStatus
	}{
		{
			name:        "pending is locked",
			setup:       func(t *testing.T, wf WorkflowService) { submitC1(t, wf) },
			allowEdits:  true,
			wantLocked:  true,
			keepsStatus: domain.PlanPending,
		},
		{
			name: "changes requested is editable",
			setup: func(t *testing.T, wf WorkflowService) {
				submitC1(t, wf)
				_, err := wf.RequestChanges(context.Background(), app.ReviewRequest{Year: 2026, CoordinatorID: "c1", ActorID: "p1", Feedback: "more"})
				require.NoError(t, err)
			},
			keepsStatus: domain.PlanChangesRequested,
		},
		{
			name: "approved reopens when allowed",
			setup: func(t *testing.T, wf WorkflowService) {
				submitC1(t, wf)
				_, err := wf.Approve(context.Background(), app.ReviewRequest{Year: 2026, CoordinatorID: "c1", ActorID: "p1"})
				require.NoError(t, err)
			},
			allowEdits:  true,
			keepsStatus: domain.PlanApproved,
		},
		{
			name: "approved locked when not allowed",
			setup: func(t *testing.T, wf WorkflowService) {
				submitC1(t, wf)
				_, err := wf.Approve(context.Background(), app.ReviewRequest{Year: 2026, CoordinatorID: "c1", ActorID: "p1"})
				require.NoError(t, err)
			},
			wantLocked:  true,
			keepsStatus: domain.PlanApproved,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			tc.setup(t, env.workflow(env.workflowOptions()))
			before := env.mustPlan(t, key2026)

			_, err := saveDraft(context.Background(), env.planService(tc.allowEdits),
				testutil.NewTestContent(testutil.WithGoal("Edited goal", "Edited task")))

			after := env.mustPlan(t, key2026)
			assert.Equal(t, tc.keepsStatus, after.Status)
			assert.Equal(t, before.Feedback, after.Feedback, "content saves never touch feedback")
			if tc.wantLocked {
				assert.ErrorIs(t, err, domain.ErrPlanLocked)
				assert.Empty(t, after.Content.Goals)
				return
			}
			require.NoError(t, err)
			require.Len(t, after.Content.Goals, 1)
			assert.Equal(t, "Edited goal", after.Content.Goals[0].Title)
		})
	}
}

func TestPlanService_SaveDraftOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.planService(true)
	ctx := context.Background()

	_, err := svc.SaveDraft(ctx, app.SaveDraftRequest{Year: 2026, CoordinatorID: "c1", ActorID: "c2", Content: testutil.NewTestContent()})
	assert.ErrorIs(t, err, app.ErrForbidden)

	_, err = svc.SaveDraft(ctx, app.SaveDraftRequest{Year: 2026, CoordinatorID: "c1", ActorID: "p1", Content: testutil.NewTestContent()})
	assert.ErrorIs(t, err, app.ErrForbidden)

	_, err = env.plans.Get(ctx, key2026)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanService_SaveDraftValidatesContent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.planService(true)

	content := domain.PlanContent{Goals: []domain.Goal{{Title: "Goal", Tasks: []domain.Task{{Title: " "}}}}}
	_, err := saveDraft(context.Background(), svc, content)

	var verr *app.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content", verr.Field)
}

func TestPlanService_SetTaskStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := env.planService(true)
	ctx := context.Background()

	_, err := saveDraft(ctx, svc, testutil.NewTestContent())
	require.NoError(t, err)

	p, err := svc.SetTaskStatus(ctx, app.TaskStatusRequest{Year: 2026, CoordinatorID: "c1", GoalIndex: 0, TaskIndex: 1, Status: domain.TaskCompleted})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, p.Content.Goals[0].Tasks[1].Status)

	progress, err := svc.Progress(ctx, key2026)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, 1, progress[0].Completed)
	assert.Equal(t, 1, progress[0].NotStarted)
	assert.Equal(t, 2, progress[0].Total())
}

func TestPlanService_SetTaskStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	svc := env.planService(true)
	ctx := context.Background()

	_, err := svc.SetTaskStatus(ctx, app.TaskStatusRequest{Year: 2026, CoordinatorID: "c1", Status: domain.TaskPartial})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = saveDraft(ctx, svc, testutil.NewTestContent())
	require.NoError(t, err)

	var verr *app.ValidationError
	_, err = svc.SetTaskStatus(ctx, app.TaskStatusRequest{Year: 2026, CoordinatorID: "c1", GoalIndex: 3, Status: domain.TaskPartial})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "task", verr.Field)

	_, err = svc.SetTaskStatus(ctx, app.TaskStatusRequest{Year: 2026, CoordinatorID: "c1", Status: "done"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	submitC1(t, env.workflow(env.workflowOptions()))
	_, err = svc.SetTaskStatus(ctx, app.TaskStatusRequest{Year: 2026, CoordinatorID: "c1", Status: domain.TaskPartial})
	assert.ErrorIs(t, err, domain.ErrPlanLocked)
}

func TestPlanService_ReviewQueueAndListings(t *testing.T) {
	env := newTestEnv(t)
	svc := env.planService(true)
	wf := env.workflow(env.workflowOptions())
	ctx := context.Background()

	_, err := saveDraft(ctx, svc, testutil.NewTestContent())
	require.NoError(t, err)
	_, err = wf.Submit(ctx, app.SubmitRequest{Year: 2026, CoordinatorID: "c2"})
	require.NoError(t, err)

	queue, err := svc.ReviewQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "c2", queue[0].Plan.CoordinatorID)

	year, err := svc.ListByYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, year, 2)
	assert.Equal(t, "c1", year[0].Plan.CoordinatorID)
	require.Len(t, year[0].Progress, 1)
	assert.Equal(t, 2, year[0].Progress[0].NotStarted)

	drafts, err := svc.ListByStatus(ctx, domain.PlanDraft)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = svc.ListByStatus(ctx, "archived")
	var verr *app.ValidationError
	assert.ErrorAs(t, err, &verr)
}
