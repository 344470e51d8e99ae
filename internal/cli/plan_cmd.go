package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/cli/formatter"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/importer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlanCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "View and edit work plans",
	}

	cmd.AddCommand(
		newPlanShowCmd(a),
		newPlanSaveCmd(a),
		newPlanExportCmd(a),
		newPlanTaskCmd(a),
		newPlanProgressCmd(a),
		newPlanListCmd(a),
	)

	return cmd
}

func newPlanShowCmd(a *App) *cobra.Command {
	var year int
	var coordinator string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := planKey(a, year, coordinator)
			if err != nil {
				return err
			}
			p, err := a.Plans.Get(cmd.Context(), key)
			if err != nil {
				return describeError(err, key)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(p))
			return nil
		},
	}

	addYearFlag(cmd, &year)
	cmd.Flags().StringVar(&coordinator, "coordinator", "", "Coordinator ID (defaults to --as)")
	return cmd
}

// loadContent reads, validates and converts a plan document file.
func loadContent(path string) (domain.PlanContent, error) {
	doc, err := importer.LoadPlanDocument(path)
	if err != nil {
		return domain.PlanContent{}, err
	}
	if errs := importer.ValidatePlanDocument(doc); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = "  - " + e.Error()
		}
		return domain.PlanContent{}, fmt.Errorf("%s has %d problem(s):\n%s", path, len(errs), strings.Join(msgs, "\n"))
	}
	return importer.Convert(doc)
}

func newPlanSaveCmd(a *App) *cobra.Command {
	var year int
	var file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save plan content from a JSON or YAML document",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			content, err := loadContent(file)
			if err != nil {
				return err
			}
			p, err := a.Plans.SaveDraft(cmd.Context(), app.SaveDraftRequest{
				Year:          year,
				CoordinatorID: actor,
				ActorID:       actor,
				Content:       content,
			})
			if err != nil {
				return describeError(err, domain.PlanKey{Year: year, CoordinatorID: actor})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved plan %s %s\n", formatter.Bold(p.Key().String()), formatter.PlanStatusPill(p.Status))
			return nil
		},
	}

	addYearFlag(cmd, &year)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Plan document (.json, .yaml, .yml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPlanExportCmd(a *App) *cobra.Command {
	var year int
	var coordinator, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a plan's content as a YAML document",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := planKey(a, year, coordinator)
			if err != nil {
				return err
			}
			p, err := a.Plans.Get(cmd.Context(), key)
			if err != nil {
				return describeError(err, key)
			}
			data, err := yaml.Marshal(importer.Export(p.Content))
			if err != nil {
				return fmt.Errorf("encoding plan: %w", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	addYearFlag(cmd, &year)
	cmd.Flags().StringVar(&coordinator, "coordinator", "", "Coordinator ID (defaults to --as)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newPlanTaskCmd(a *App) *cobra.Command {
	var year, goal, task int
	status := newEnumFlag("", string(domain.TaskNotStarted), string(domain.TaskPartial), string(domain.TaskCompleted))

	cmd := &cobra.Command{
		Use:     "task",
		Short:   "Set a task's progress (not-started, partial, completed)",
		Example: "  planportal plan task --as c1 --goal 1 --task 2 --status partial",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := requireActor(a)
			if err != nil {
				return err
			}
			if goal < 1 || task < 1 {
				return fmt.Errorf("--goal and --task are 1-based")
			}
			p, err := a.Plans.SetTaskStatus(cmd.Context(), app.TaskStatusRequest{
				Year:          year,
				CoordinatorID: actor,
				ActorID:       actor,
				GoalIndex:     goal - 1,
				TaskIndex:     task - 1,
				Status:        domain.TaskStatus(status.String()),
			})
			if err != nil {
				return describeError(err, domain.PlanKey{Year: year, CoordinatorID: actor})
			}
			t := p.Content.Goals[goal-1].Tasks[task-1]
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.TaskStatusIcon(t.Status), t.Title)
			return nil
		},
	}

	addYearFlag(cmd, &year)
	cmd.Flags().IntVar(&goal, "goal", 0, "Goal number (1-based)")
	cmd.Flags().IntVar(&task, "task", 0, "Task number within the goal (1-based)")
	enumVar(cmd, status, "status", "Task progress")
	_ = cmd.MarkFlagRequired("goal")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newPlanProgressCmd(a *App) *cobra.Command {
	var year int
	var coordinator string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show per-goal task progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := planKey(a, year, coordinator)
			if err != nil {
				return err
			}
			progress, err := a.Plans.Progress(cmd.Context(), key)
			if err != nil {
				return describeError(err, key)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgress(progress))
			return nil
		},
	}

	addYearFlag(cmd, &year)
	cmd.Flags().StringVar(&coordinator, "coordinator", "", "Coordinator ID (defaults to --as)")
	return cmd
}

func newPlanListCmd(a *App) *cobra.Command {
	var year int
	status := newEnumFlag("", string(domain.PlanDraft), string(domain.PlanPending), string(domain.PlanApproved), string(domain.PlanChangesRequested))

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans for a year or in a status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				plans []app.PlanSummary
				err   error
			)
			if s := status.String(); s != "" {
				plans, err = a.Plans.ListByStatus(cmd.Context(), domain.PlanStatus(s))
			} else {
				plans, err = a.Plans.ListByYear(cmd.Context(), year)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}

	addYearFlag(cmd, &year)
	enumVar(cmd, status, "status", "Filter by status instead of year")
	return cmd
}
