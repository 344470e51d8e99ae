package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/cli/formatter"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newInboxCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Read and triage notifications",
	}

	cmd.AddCommand(
		newInboxListCmd(a),
		newInboxFlagCmd(a, "read", "Mark a notification read", func(ctx context.Context, actor, id string) (string, error) {
			return "Marked read", a.Inbox.MarkRead(ctx, actor, id)
		}),
		newInboxFlagCmd(a, "unread", "Mark a notification unread", func(ctx context.Context, actor, id string) (string, error) {
			return "Marked unread", a.Inbox.MarkUnread(ctx, actor, id)
		}),
		newInboxFlagCmd(a, "pin", "Toggle a notification's pin", func(ctx context.Context, actor, id string) (string, error) {
			pinned, err := a.Inbox.TogglePin(ctx, actor, id)
			if pinned {
				return "Pinned", err
			}
			return "Unpinned", err
		}),
		newInboxFlagCmd(a, "archive", "Archive a notification", func(ctx context.Context, actor, id string) (string, error) {
			return "Archived", a.Inbox.Archive(ctx, actor, id)
		}),
		newInboxFlagCmd(a, "unarchive", "Restore an archived notification", func(ctx context.Context, actor, id string) (string, error) {
			return "Restored", a.Inbox.Unarchive(ctx, actor, id)
		}),
		newInboxFlagCmd(a, "delete", "Delete a notification", func(ctx context.Context, actor, id string) (string, error) {
			return "Deleted", a.Inbox.Delete(ctx, actor, id)
		}),
		newInboxReadAllCmd(a),
		newInboxOpenCmd(a),
		newInboxWatchCmd(a),
	)

	return cmd
}

func newInboxListCmd(a *App) *cobra.Command {
	filter := newEnumFlag(string(domain.FilterAll),
		string(domain.FilterAll), string(domain.FilterUnread), string(domain.FilterPinned), string(domain.FilterArchived))

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications (all, unread, pinned, archived)",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			f := domain.InboxFilter(filter.String())
			ns, err := a.Inbox.List(cmd.Context(), app.InboxQuery{ActorID: actor, Filter: f})
			if err != nil {
				return err
			}
			counts, err := a.Inbox.Counts(cmd.Context(), actor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.InboxTabs(f, counts))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatInbox(ns))
			return nil
		},
	}

	enumVar(cmd, filter, "filter", "Inbox tab")
	return cmd
}

type inboxAction func(ctx context.Context, actor, id string) (string, error)

func newInboxFlagCmd(a *App, use, short string, action inboxAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			id, err := resolveNotificationID(cmd.Context(), a, actor, args[0])
			if err != nil {
				return err
			}
			msg, err := action(cmd.Context(), actor, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", msg, formatter.TruncID(id))
			return nil
		},
	}
}

func newInboxReadAllCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every unread notification read",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			n, err := a.Inbox.MarkAllRead(cmd.Context(), actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d notification(s) read\n", n)
			return nil
		},
	}
}

func newInboxOpenCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Show a notification and the plan it links to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			id, err := resolveNotificationID(cmd.Context(), a, actor, args[0])
			if err != nil {
				return err
			}
			opened, err := a.Inbox.Open(cmd.Context(), actor, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatNotification(opened.Notification))
			if opened.PlanKey == nil {
				return nil
			}
			p, err := a.Plans.Get(cmd.Context(), *opened.PlanKey)
			if errors.Is(err, repository.ErrNotFound) {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Plan %s no longer exists.", opened.PlanKey)))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatPlan(p))
			return nil
		},
	}
}

func newInboxWatchCmd(a *App) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Browse the inbox interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			if !a.interactive() {
				return fmt.Errorf("inbox watch needs an interactive terminal; use 'inbox list' instead")
			}
			m := newInboxModel(cmd.Context(), a.Inbox, actor, refresh)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&refresh, "refresh", 5*time.Second, "Reload interval (0 disables)")
	return cmd
}
