package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/cli/formatter"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var inboxTabs = []domain.InboxFilter{
	domain.FilterAll, domain.FilterUnread, domain.FilterPinned, domain.FilterArchived,
}

type inboxKeyMap struct {
	Up, Down         key.Binding
	NextTab, PrevTab key.Binding
	Open, Back       key.Binding
	ToggleRead       key.Binding
	Pin              key.Binding
	Archive          key.Binding
	Delete           key.Binding
	ReadAll          key.Binding
	Reload           key.Binding
	Quit             key.Binding
}

func defaultInboxKeys() inboxKeyMap {
	return inboxKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTab:    key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		ToggleRead: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "read/unread")),
		Pin:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin")),
		Archive:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ReadAll:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "read all")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// inboxLoadedMsg carries one tab's rows plus fresh badge counts.
type inboxLoadedMsg struct {
	filter domain.InboxFilter
	items  []*domain.Notification
	counts *app.InboxCounts
	err    error
}

// inboxActionMsg reports the outcome of a flag change or delete.
type inboxActionMsg struct {
	status string
	err    error
}

type inboxOpenedMsg struct {
	opened *app.OpenedNotification
	err    error
}

type inboxTickMsg struct{}

// inboxModel is the interactive inbox: tabbed list, detail pane and
// single-key triage actions.
type inboxModel struct {
	ctx     context.Context
	inbox   service.InboxService
	actor   string
	refresh time.Duration
	keys    inboxKeyMap

	tab     int
	items   []*domain.Notification
	counts  *app.InboxCounts
	cursor  int
	loading bool
	opened  *app.OpenedNotification
	status  string
	err     error
	width   int
}

func newInboxModel(ctx context.Context, inbox service.InboxService, actor string, refresh time.Duration) *inboxModel {
	return &inboxModel{
		ctx:     ctx,
		inbox:   inbox,
		actor:   actor,
		refresh: refresh,
		keys:    defaultInboxKeys(),
		loading: true,
	}
}

func (m *inboxModel) filter() domain.InboxFilter {
	return inboxTabs[m.tab]
}

func (m *inboxModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

func (m *inboxModel) tick() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return inboxTickMsg{} })
}

func (m *inboxModel) load() tea.Cmd {
	ctx, inbox, actor, filter := m.ctx, m.inbox, m.actor, m.filter()
	return func() tea.Msg {
		items, err := inbox.List(ctx, app.InboxQuery{ActorID: actor, Filter: filter})
		if err != nil {
			return inboxLoadedMsg{filter: filter, err: err}
		}
		counts, err := inbox.Counts(ctx, actor)
		return inboxLoadedMsg{filter: filter, items: items, counts: counts, err: err}
	}
}

// act runs fn off the update loop; its status line is shown on success.
func (m *inboxModel) act(fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		status, err := fn(ctx)
		return inboxActionMsg{status: status, err: err}
	}
}

func done(status string, err error) (string, error) {
	return status, err
}

func (m *inboxModel) selected() *domain.Notification {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor]
}

func (m *inboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case inboxLoadedMsg:
		if msg.filter != m.filter() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.items = msg.items
		m.counts = msg.counts
		m.cursor = min(m.cursor, max(len(m.items)-1, 0))
		return m, nil

	case inboxActionMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		return m, m.load()

	case inboxOpenedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.opened = msg.opened
		}
		return m, m.load()

	case inboxTickMsg:
		return m, tea.Batch(m.load(), m.tick())

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *inboxModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.opened != nil {
		if key.Matches(msg, m.keys.Back, m.keys.Open) {
			m.opened = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1)
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	case key.Matches(msg, m.keys.ReadAll):
		inbox, actor := m.inbox, m.actor
		return m, m.act(func(ctx context.Context) (string, error) {
			n, err := inbox.MarkAllRead(ctx, actor)
			return fmt.Sprintf("Marked %d read", n), err
		})
	}

	n := m.selected()
	if n == nil {
		return m, nil
	}
	id, inbox, actor := n.ID, m.inbox, m.actor

	switch {
	case key.Matches(msg, m.keys.Open):
		ctx := m.ctx
		return m, func() tea.Msg {
			opened, err := inbox.Open(ctx, actor, id)
			return inboxOpenedMsg{opened: opened, err: err}
		}
	case key.Matches(msg, m.keys.ToggleRead):
		if n.Read {
			return m, m.act(func(ctx context.Context) (string, error) {
				return done("Marked unread", inbox.MarkUnread(ctx, actor, id))
			})
		}
		return m, m.act(func(ctx context.Context) (string, error) {
			return done("Marked read", inbox.MarkRead(ctx, actor, id))
		})
	case key.Matches(msg, m.keys.Pin):
		return m, m.act(func(ctx context.Context) (string, error) {
			pinned, err := inbox.TogglePin(ctx, actor, id)
			if pinned {
				return "Pinned", err
			}
			return "Unpinned", err
		})
	case key.Matches(msg, m.keys.Archive):
		if n.Archived {
			return m, m.act(func(ctx context.Context) (string, error) {
				return done("Restored", inbox.Unarchive(ctx, actor, id))
			})
		}
		return m, m.act(func(ctx context.Context) (string, error) {
			return done("Archived", inbox.Archive(ctx, actor, id))
		})
	case key.Matches(msg, m.keys.Delete):
		return m, m.act(func(ctx context.Context) (string, error) {
			return done("Deleted", inbox.Delete(ctx, actor, id))
		})
	}
	return m, nil
}

func (m *inboxModel) switchTab(step int) (tea.Model, tea.Cmd) {
	m.tab = (m.tab + step + len(inboxTabs)) % len(inboxTabs)
	m.cursor = 0
	m.loading = true
	m.status = ""
	return m, m.load()
}

func (m *inboxModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.Header("Inbox · "+m.actor) + "\n")
	b.WriteString(formatter.InboxTabs(m.filter(), m.counts) + "\n\n")

	switch {
	case m.opened != nil:
		b.WriteString(formatter.FormatNotification(m.opened.Notification) + "\n")
		if k := m.opened.PlanKey; k != nil {
			fmt.Fprintf(&b, "%s planportal plan show --year %d --coordinator %s\n", formatter.Dim("Plan:"), k.Year, k.CoordinatorID)
		}
	case m.loading:
		b.WriteString(formatter.Dim("Loading...") + "\n")
	case len(m.items) == 0:
		b.WriteString(formatter.Dim("Nothing here.") + "\n")
	default:
		for i, n := range m.items {
			cursor := "  "
			if i == m.cursor {
				cursor = formatter.StyleHeader.Render("> ")
			}
			title := n.Title
			if !n.Read {
				title = formatter.Bold(title)
			}
			fmt.Fprintf(&b, "%s%s %s %s %s\n", cursor, formatter.NotificationMarker(n),
				formatter.NotificationBadge(n.Type), title,
				formatter.Dim(n.SenderName+" · "+formatter.HumanTimestamp(n.CreatedAt)))
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(formatter.StyleGreen.Render(m.status) + "\n")
	}
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *inboxModel) helpLine() string {
	bindings := []key.Binding{m.keys.Open, m.keys.ToggleRead, m.keys.Pin, m.keys.Archive, m.keys.Delete, m.keys.ReadAll, m.keys.NextTab, m.keys.Quit}
	if m.opened != nil {
		bindings = []key.Binding{m.keys.Back, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return formatter.Dim(strings.Join(parts, " · "))
}
