package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/planportal/internal/db"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
	"github.com/alexanderramin/planportal/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires real SQLite repositories with two coordinators and a
// principal already registered.
type testEnv struct {
	db            *sql.DB
	uow           db.UnitOfWork
	plans         repository.PlanRepo
	notifications repository.NotificationRepo
	users         repository.UserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		db:            database,
		uow:           testutil.NewTestUoW(database),
		plans:         repository.NewSQLitePlanRepo(database),
		notifications: repository.NewSQLiteNotificationRepo(database),
		users:         repository.NewSQLiteUserRepo(database),
	}

	ctx := context.Background()
	require.NoError(t, env.users.Upsert(ctx, testutil.NewTestUser("c1", domain.RoleCoordinator, testutil.WithUserName("Ana Coordinator"))))
	require.NoError(t, env.users.Upsert(ctx, testutil.NewTestUser("c2", domain.RoleCoordinator, testutil.WithUserName("Ben Coordinator"))))
	require.NoError(t, env.users.Upsert(ctx, testutil.NewTestUser("p1", domain.RolePrincipal, testutil.WithUserName("Paz Principal"))))
	return env
}

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond, Timeout: time.Second}
}

func (e *testEnv) workflowOptions() WorkflowOptions {
	opts := DefaultWorkflowOptions()
	opts.Retry = fastRetry()
	return opts
}

func (e *testEnv) workflow(opts WorkflowOptions) WorkflowService {
	return NewWorkflowService(e.plans, e.notifications, e.users, e.uow, opts)
}

func (e *testEnv) inbox() InboxService {
	return NewInboxService(e.notifications, e.users, InboxOptions{})
}

// feed lists what a user sees, with the principal subscribed to admin.
func (e *testEnv) feed(t *testing.T, userID string) []*domain.Notification {
	t.Helper()
	q := repository.NotificationQuery{UserID: userID}
	if userID == "p1" {
		q.Tokens = []string{domain.DefaultPrincipalToken}
	}
	ns, err := e.notifications.ListFor(context.Background(), q)
	require.NoError(t, err)
	return ns
}

func (e *testEnv) mustPlan(t *testing.T, key domain.PlanKey) *domain.Plan {
	t.Helper()
	p, err := e.plans.Get(context.Background(), key)
	require.NoError(t, err)
	return p
}

func ofType(ns []*domain.Notification, typ domain.NotificationType) []*domain.Notification {
	var out []*domain.Notification
	for _, n := range ns {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

var key2026 = domain.PlanKey{Year: 2026, CoordinatorID: "c1"}
