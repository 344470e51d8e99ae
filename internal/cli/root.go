package cli

import (
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Users    service.UserService
	Plans    service.PlanService
	Workflow service.WorkflowService
	Inbox    service.InboxService

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// PromptFeedback asks the principal for change-request feedback.
	// Defaults to a huh text form.
	PromptFeedback func(key domain.PlanKey) (string, error)

	// Actor is the user the command acts as (--as).
	Actor string
}

// NewRootCmd creates the top-level "planportal" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.PromptFeedback == nil {
		app.PromptFeedback = promptFeedback
	}

	root := &cobra.Command{
		Use:           "planportal",
		Short:         "School work-plan review and notification inbox",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.Actor, "as", "", "User ID to act as")

	root.AddCommand(
		newUserCmd(app),
		newPlanCmd(app),
		newReviewCmd(app),
		newInboxCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
