package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/cli/formatter"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/spf13/cobra"
)

func newReviewCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Submit plans and record review decisions",
	}

	cmd.AddCommand(
		newReviewSubmitCmd(a),
		newReviewApproveCmd(a),
		newReviewRequestChangesCmd(a),
		newReviewQueueCmd(a),
	)

	return cmd
}

func newReviewSubmitCmd(a *App) *cobra.Command {
	var year int
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit your plan for principal review",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			req := app.SubmitRequest{Year: year, CoordinatorID: actor, ActorID: actor}
			if file != "" {
				content, err := loadContent(file)
				if err != nil {
					return err
				}
				req.Content = &content
			}
			res, err := a.Workflow.Submit(cmd.Context(), req)
			if err != nil {
				return describeError(err, domain.PlanKey{Year: year, CoordinatorID: actor})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTransition(res))
			return nil
		},
	}

	addYearFlag(cmd, &year)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Replace plan content from this document before submitting")
	return cmd
}

// reviewFlags are shared by approve and request-changes.
type reviewFlags struct {
	year        int
	coordinator string
	from        string
}

func (f *reviewFlags) register(cmd *cobra.Command) {
	addYearFlag(cmd, &f.year)
	cmd.Flags().StringVar(&f.coordinator, "coordinator", "", "Coordinator whose plan is reviewed")
	cmd.Flags().StringVar(&f.from, "from", "", "Inbox notification the review was opened from")
	_ = cmd.MarkFlagRequired("coordinator")
}

func (f *reviewFlags) request(ctx context.Context, a *App) (app.ReviewRequest, error) {
	actor, err := requireActor(a)
	if err != nil {
		return app.ReviewRequest{}, err
	}
	req := app.ReviewRequest{Year: f.year, CoordinatorID: f.coordinator, ActorID: actor}
	if f.from != "" {
		id, err := resolveNotificationID(ctx, a, actor, f.from)
		if err != nil {
			return app.ReviewRequest{}, err
		}
		req.SourceNotificationID = id
	}
	return req, nil
}

func newReviewApproveCmd(a *App) *cobra.Command {
	var flags reviewFlags

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a submitted plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd.Context(), a)
			if err != nil {
				return err
			}
			res, err := a.Workflow.Approve(cmd.Context(), req)
			if err != nil {
				return describeError(err, domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTransition(res))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newReviewRequestChangesCmd(a *App) *cobra.Command {
	var flags reviewFlags
	var feedback string

	cmd := &cobra.Command{
		Use:   "request-changes",
		Short: "Send a plan back to its coordinator with feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd.Context(), a)
			if err != nil {
				return err
			}
			if feedback == "" && a.interactive() {
				feedback, err = a.PromptFeedback(domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID})
				if err != nil {
					return err
				}
			}
			req.Feedback = feedback
			res, err := a.Workflow.RequestChanges(cmd.Context(), req)
			if err != nil {
				return describeError(err, domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTransition(res))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&feedback, "feedback", "", "What needs to change (prompted when omitted on a terminal)")
	return cmd
}

func newReviewQueueCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List plans awaiting review, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := a.Plans.ReviewQueue(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}
}
