package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PlanStatusPill returns a colored indicator such as "● Pending".
func PlanStatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanDraft:
		return StyleBlue.Render("○ Draft")
	case domain.PlanPending:
		return StyleYellow.Render("● Pending")
	case domain.PlanApproved:
		return StyleGreen.Render("✔ Approved")
	case domain.PlanChangesRequested:
		return StyleRed.Render("✎ Changes requested")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusIcon returns the checkbox glyph for a task.
func TaskStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.TaskCompleted:
		return StyleGreen.Render("[x]")
	case domain.TaskPartial:
		return StyleYellow.Render("[~]")
	default:
		return StyleDim.Render("[ ]")
	}
}

// NotificationBadge labels a notification type for list rows.
func NotificationBadge(t domain.NotificationType) string {
	switch t {
	case domain.NotifPlanSubmitted:
		return StylePurple.Render("SUBMITTED")
	case domain.NotifSubmissionReceipt:
		return StyleBlue.Render("RECEIPT")
	case domain.NotifPlanApproved:
		return StyleGreen.Render("APPROVED")
	case domain.NotifChangesRequested:
		return StyleRed.Render("CHANGES")
	default:
		return StyleDim.Render(strings.ToUpper(string(t)))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warn renders a yellow warning line prefixed with "!".
func Warn(text string) string {
	return StyleYellow.Render("! " + text)
}
