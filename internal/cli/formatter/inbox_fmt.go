package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
)

// InboxTabs renders the filter tabs with counts; the active tab is
// highlighted.
func InboxTabs(active domain.InboxFilter, c *app.InboxCounts) string {
	if c == nil {
		c = &app.InboxCounts{}
	}
	tabs := []struct {
		filter domain.InboxFilter
		label  string
		count  int
	}{
		{domain.FilterAll, "All", c.Total},
		{domain.FilterUnread, "Unread", c.Unread},
		{domain.FilterPinned, "Pinned", c.Pinned},
		{domain.FilterArchived, "Archived", c.Archived},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := fmt.Sprintf("%s (%d)", t.label, t.count)
		if t.filter == active {
			parts = append(parts, StyleHeader.Render("["+label+"]"))
		} else {
			parts = append(parts, Dim(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

// NotificationMarker returns the unread dot and pin glyph for a row.
func NotificationMarker(n *domain.Notification) string {
	read := " "
	if !n.Read {
		read = StyleBlue.Render("●")
	}
	pin := " "
	if n.Pinned {
		pin = StyleYellow.Render("★")
	}
	return read + pin
}

// FormatInbox renders a notification list as a table.
func FormatInbox(ns []*domain.Notification) string {
	if len(ns) == 0 {
		return Dim("Inbox is empty.") + "\n"
	}
	rows := make([][]string, 0, len(ns))
	for _, n := range ns {
		title := n.Title
		if !n.Read {
			title = Bold(title)
		}
		rows = append(rows, []string{
			NotificationMarker(n),
			TruncID(n.ID),
			NotificationBadge(n.Type),
			title,
			n.SenderName,
			HumanTimestamp(n.CreatedAt),
		})
	}
	return RenderTable([]string{"", "ID", "TYPE", "TITLE", "FROM", "WHEN"}, rows)
}

// FormatNotification renders one notification in full.
func FormatNotification(n *domain.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", NotificationBadge(n.Type), Bold(n.Title))
	fmt.Fprintf(&b, "%s %s (%s) · %s\n", Dim("From:"), n.SenderName, n.SenderRole, HumanTimestamp(n.CreatedAt))
	b.WriteString("\n" + n.Message + "\n")
	if n.Status != "" {
		fmt.Fprintf(&b, "\n%s %s\n", Dim("Status:"), PlanStatusPill(n.Status))
	}
	if n.Feedback != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Feedback:"), n.Feedback)
	}
	if n.Link != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Link:"), n.Link)
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}
