package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/cli/formatter"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// huhTheme matches the formatter palette: orange focus, dimmed blur.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateFeedback(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("feedback is required")
	}
	return nil
}

// feedbackForm asks for change-request feedback on one plan.
func feedbackForm(key domain.PlanKey, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Feedback for plan %s", key)).
				Description("The coordinator sees this verbatim.").
				Placeholder("What needs to change?").
				CharLimit(2000).
				Value(value).
				Validate(validateFeedback),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

func promptFeedback(key domain.PlanKey) (string, error) {
	var feedback string
	if err := feedbackForm(key, &feedback).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errors.New("review cancelled")
		}
		return "", err
	}
	return strings.TrimSpace(feedback), nil
}
