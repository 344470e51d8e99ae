package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inboxDriver submits and approves one plan so c1 has two notifications,
// then starts the inbox view for c1.
func inboxDriver(t *testing.T) (*App, *teatest.Driver) {
	t.Helper()
	a := testApp(t)
	ctx := context.Background()
	_, err := a.Workflow.Submit(ctx, app.SubmitRequest{Year: 2026, CoordinatorID: "c1"})
	require.NoError(t, err)
	_, err = a.Workflow.Approve(ctx, app.ReviewRequest{Year: 2026, CoordinatorID: "c1", ActorID: "p1"})
	require.NoError(t, err)

	d := teatest.New(t, newInboxModel(ctx, a.Inbox, "c1", 0), teatest.WithSize(100, 30))
	d.DrainInit()
	return a, d
}

func inboxState(t *testing.T, d *teatest.Driver) *inboxModel {
	t.Helper()
	m, ok := d.Model.(*inboxModel)
	require.True(t, ok)
	return m
}

func TestInboxView_ListsNewestFirst(t *testing.T) {
	_, d := inboxDriver(t)

	m := inboxState(t, d)
	require.Len(t, m.items, 2)
	assert.Equal(t, domain.NotifPlanApproved, m.items[0].Type)
	assert.Equal(t, 2, m.counts.Unread)
	d.RequireViewContains("Plan approved")
	d.RequireViewContains("Unread (2)")
}

func TestInboxView_OpenMarksReadAndShowsPlanHint(t *testing.T) {
	_, d := inboxDriver(t)

	d.PressEnter()
	m := inboxState(t, d)
	require.NotNil(t, m.opened)
	require.NotNil(t, m.opened.PlanKey)
	assert.Equal(t, domain.PlanKey{Year: 2026, CoordinatorID: "c1"}, *m.opened.PlanKey)
	d.RequireViewContains("plan show --year 2026 --coordinator c1")
	assert.Equal(t, 1, m.counts.Unread)

	d.PressEsc()
	assert.Nil(t, inboxState(t, d).opened)
}

func TestInboxView_TriageKeys(t *testing.T) {
	a, d := inboxDriver(t)
	ctx := context.Background()

	d.PressKey('p')
	m := inboxState(t, d)
	assert.True(t, m.items[0].Pinned)
	assert.Equal(t, "Pinned", m.status)

	d.PressDown()
	d.PressKey('u')
	assert.True(t, inboxState(t, d).items[1].Read)

	d.PressKey('a')
	m = inboxState(t, d)
	require.Len(t, m.items, 1)
	assert.Equal(t, 1, m.counts.Archived)
	assert.Equal(t, 0, m.cursor)

	d.PressKey('R')
	assert.Equal(t, "Marked 1 read", inboxState(t, d).status)

	d.PressKey('d')
	assert.Empty(t, inboxState(t, d).items)
	d.RequireViewContains("Nothing here.")

	archived, err := a.Inbox.List(ctx, app.InboxQuery{ActorID: "c1", Filter: domain.FilterArchived})
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestInboxView_Tabs(t *testing.T) {
	_, d := inboxDriver(t)

	d.PressKey('p')
	d.PressTab()
	assert.Equal(t, domain.FilterUnread, inboxState(t, d).filter())
	assert.Len(t, inboxState(t, d).items, 2)

	d.PressTab()
	m := inboxState(t, d)
	assert.Equal(t, domain.FilterPinned, m.filter())
	require.Len(t, m.items, 1)
	d.RequireViewContains("[Pinned (1)]")

	d.PressTab()
	d.PressTab()
	assert.Equal(t, domain.FilterAll, inboxState(t, d).filter())

	d.Send(shiftTab())
	assert.Equal(t, domain.FilterArchived, inboxState(t, d).filter())
	d.RequireViewContains("Nothing here.")
}

func TestInboxView_Quit(t *testing.T) {
	_, d := inboxDriver(t)
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestInboxView_ErrorShown(t *testing.T) {
	a := testApp(t)
	d := teatest.New(t, newInboxModel(context.Background(), a.Inbox, "ghost", 0))
	d.DrainInit()

	assert.ErrorIs(t, inboxState(t, d).err, app.ErrForbidden)
	d.RequireViewContains("Error:")
}

func shiftTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyShiftTab}
}
