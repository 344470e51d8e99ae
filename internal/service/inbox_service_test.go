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

// seedInbox creates three live notifications for c1 and returns their ids,
// oldest first.
func seedInbox(t *testing.T, env *testEnv) []string {
	t.Helper()
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		id, err := env.notifications.Create(ctx, testutil.NewTestNotificationInput("c1",
			testutil.WithTitle(title),
			testutil.WithNotificationType(domain.NotifPlanApproved),
			testutil.WithLink("/plan/2026/c1"),
		))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func titles(ns []*domain.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Title)
	}
	return out
}

func TestInbox_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()
	ids := seedInbox(t, env)

	require.NoError(t, inbox.MarkRead(ctx, "c1", ids[0]))
	_, err := inbox.TogglePin(ctx, "c1", ids[1])
	require.NoError(t, err)
	require.NoError(t, inbox.Archive(ctx, "c1", ids[2]))

	for _, tc := range []struct {
		filter domain.InboxFilter
		want   []string
	}{
		{filter: "", want: []string{"two", "one"}},
		{filter: domain.FilterAll, want: []string{"two", "one"}},
		{filter: domain.FilterUnread, want: []string{"two"}},
		{filter: domain.FilterPinned, want: []string{"two"}},
		{filter: domain.FilterArchived, want: []string{"three"}},
	} {
		ns, err := inbox.List(ctx, app.InboxQuery{ActorID: "c1", Filter: tc.filter})
		require.NoError(t, err)
		assert.Equal(t, tc.want, titles(ns), "filter %q", tc.filter)
	}

	_, err = inbox.List(ctx, app.InboxQuery{ActorID: "c1", Filter: "starred"})
	var verr *app.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestInbox_Counts(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()
	ids := seedInbox(t, env)

	require.NoError(t, inbox.MarkRead(ctx, "c1", ids[0]))
	_, err := inbox.TogglePin(ctx, "c1", ids[0])
	require.NoError(t, err)
	require.NoError(t, inbox.Archive(ctx, "c1", ids[2]))

	counts, err := inbox.Counts(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, app.InboxCounts{Total: 2, Unread: 1, Pinned: 1, Archived: 1}, *counts)
}

func TestInbox_FlagsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()
	id := seedInbox(t, env)[0]

	require.NoError(t, inbox.MarkRead(ctx, "c1", id))
	require.NoError(t, inbox.MarkUnread(ctx, "c1", id))

	pinned, err := inbox.TogglePin(ctx, "c1", id)
	require.NoError(t, err)
	assert.True(t, pinned)
	pinned, err = inbox.TogglePin(ctx, "c1", id)
	require.NoError(t, err)
	assert.False(t, pinned)

	require.NoError(t, inbox.Archive(ctx, "c1", id))
	require.NoError(t, inbox.Unarchive(ctx, "c1", id))

	n, err := env.notifications.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.False(t, n.Pinned)
	assert.False(t, n.Archived)
	assert.Equal(t, "one", n.Title, "flag updates leave content alone")
}

func TestInbox_MarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()
	ids := seedInbox(t, env)
	require.NoError(t, inbox.MarkRead(ctx, "c1", ids[0]))
	require.NoError(t, inbox.Archive(ctx, "c1", ids[2]))

	marked, err := inbox.MarkAllRead(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, marked, "archived and already-read rows are skipped")

	unread, err := inbox.List(ctx, app.InboxQuery{ActorID: "c1", Filter: domain.FilterUnread})
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestInbox_MutationsRequireVisibility(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()
	id := seedInbox(t, env)[0]

	assert.ErrorIs(t, inbox.MarkRead(ctx, "c2", id), repository.ErrNotFound)
	assert.ErrorIs(t, inbox.Archive(ctx, "p1", id), repository.ErrNotFound)
	assert.ErrorIs(t, inbox.Delete(ctx, "c2", id), repository.ErrNotFound)
	_, err := inbox.TogglePin(ctx, "c2", id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = inbox.Open(ctx, "c2", id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, inbox.MarkRead(ctx, "c1", "missing"), repository.ErrNotFound)

	n, err := env.notifications.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.False(t, n.Archived)
}

func TestInbox_BroadcastSharedByPrincipals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.users.Upsert(ctx, testutil.NewTestUser("p2", domain.RolePrincipal)))
	inbox := env.inbox()

	id, err := env.notifications.Create(ctx, testutil.NewTestNotificationInput(domain.DefaultPrincipalToken))
	require.NoError(t, err)

	for _, principal := range []string{"p1", "p2"} {
		ns, err := inbox.List(ctx, app.InboxQuery{ActorID: principal})
		require.NoError(t, err)
		require.Len(t, ns, 1, principal)
		assert.Equal(t, id, ns[0].ID)
	}

	require.NoError(t, inbox.MarkRead(ctx, "p2", id))
	unread, err := inbox.List(ctx, app.InboxQuery{ActorID: "p1", Filter: domain.FilterUnread})
	require.NoError(t, err)
	assert.Empty(t, unread, "broadcast rows carry one shared read flag")
}

func TestInbox_CustomSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inbox := NewInboxService(env.notifications, env.users, InboxOptions{
		Subscriptions: domain.Subscriptions{
			domain.RolePrincipal:   {"admin"},
			domain.RoleCoordinator: {"coordinators"},
		},
	})

	_, err := env.notifications.Create(ctx, testutil.NewTestNotificationInput("coordinators"))
	require.NoError(t, err)

	for _, c := range []string{"c1", "c2"} {
		ns, err := inbox.List(ctx, app.InboxQuery{ActorID: c})
		require.NoError(t, err)
		assert.Len(t, ns, 1, c)
	}
	ns, err := inbox.List(ctx, app.InboxQuery{ActorID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestInbox_Delete(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()
	ids := seedInbox(t, env)

	require.NoError(t, inbox.Delete(ctx, "c1", ids[1]))
	ns, err := inbox.List(ctx, app.InboxQuery{ActorID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "one"}, titles(ns))
}

func TestInbox_OpenMarksReadAndResolvesPlan(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()
	submitC1(t, env.workflow(env.workflowOptions()))

	ns, err := inbox.List(ctx, app.InboxQuery{ActorID: "p1"})
	require.NoError(t, err)
	require.Len(t, ns, 1)

	opened, err := inbox.Open(ctx, "p1", ns[0].ID)
	require.NoError(t, err)
	assert.True(t, opened.Notification.Read)
	require.NotNil(t, opened.PlanKey)
	assert.Equal(t, key2026, *opened.PlanKey)

	stored, err := env.notifications.GetByID(ctx, ns[0].ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)
}

func TestInbox_OpenWithoutPlanLink(t *testing.T) {
	env := newTestEnv(t)
	inbox := env.inbox()
	ctx := context.Background()

	id, err := env.notifications.Create(ctx, testutil.NewTestNotificationInput("c1", testutil.WithLink("/news/42")))
	require.NoError(t, err)

	opened, err := inbox.Open(ctx, "c1", id)
	require.NoError(t, err)
	assert.Nil(t, opened.PlanKey)
	assert.True(t, opened.Notification.Read)
}

func TestInbox_UnknownActor(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.inbox().List(context.Background(), app.InboxQuery{ActorID: "ghost"})
	assert.ErrorIs(t, err, app.ErrForbidden)
}
