package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
)

// FormatPlan renders the full plan document with per-goal task progress.
func FormatPlan(p *domain.Plan) string {
	var b strings.Builder

	summary := fmt.Sprintf("%s  %s\n%s %s",
		Bold(fmt.Sprintf("%d work plan", p.Year)),
		PlanStatusPill(p.Status),
		Dim("Coordinator:"), p.CoordinatorID,
	)
	if p.Content.Profile.Name != "" {
		summary += Dim(" (" + p.Content.Profile.Name + ")")
	}
	summary += "\n" + Dim("Overall:") + " " + RenderProgress(PlanCompletion(p.Progress()), 20)
	if p.Status == domain.PlanChangesRequested && p.Feedback != "" {
		summary += "\n\n" + StyleRed.Render("Feedback: ") + p.Feedback
	}
	b.WriteString(RenderBox("Plan "+p.Key().String(), summary))
	b.WriteString("\n")

	if prof := p.Content.Profile; prof.Name != "" || prof.Subject != "" || prof.Contact != "" {
		b.WriteString("\n" + Header("Profile") + "\n")
		writeField(&b, "Name", prof.Name)
		writeField(&b, "Subject", prof.Subject)
		writeField(&b, "Contact", prof.Contact)
	}

	if len(p.Content.TeachingStaff) > 0 {
		b.WriteString("\n" + Header("Teaching staff") + "\n")
		rows := make([][]string, 0, len(p.Content.TeachingStaff))
		for _, s := range p.Content.TeachingStaff {
			rows = append(rows, []string{s.Name, s.Role, s.Subject})
		}
		b.WriteString(RenderTable([]string{"NAME", "ROLE", "SUBJECT"}, rows))
	}

	if len(p.Content.SchoolProfileRows) > 0 {
		b.WriteString("\n" + Header("School profile") + "\n")
		for _, r := range p.Content.SchoolProfileRows {
			writeField(&b, r.Label, r.Value)
		}
	}

	b.WriteString("\n" + Header("Goals") + "\n")
	if len(p.Content.Goals) == 0 {
		b.WriteString(Dim("  No goals yet.") + "\n")
	}
	progress := p.Progress()
	for gi, g := range p.Content.Goals {
		fmt.Fprintf(&b, "%s %s  %s\n", StyleHeader.Render(fmt.Sprintf("%d.", gi+1)), Bold(g.Title), TaskStrip(progress[gi]))
		for ti, t := range g.Tasks {
			fmt.Fprintf(&b, "   %s %s %s", Dim(fmt.Sprintf("%d.%d", gi+1, ti+1)), TaskStatusIcon(t.Status), t.Title)
			if t.Note != "" {
				b.WriteString(Dim("  · " + t.Note))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s %s\n", Dim(label+":"), value)
}

// FormatPlanList renders review-queue or yearly listings.
func FormatPlanList(plans []app.PlanSummary) string {
	if len(plans) == 0 {
		return Dim("No plans found.") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, s := range plans {
		p := s.Plan
		name := p.Content.Profile.Name
		if name == "" {
			name = Dim("--")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Year),
			p.CoordinatorID,
			name,
			PlanStatusPill(p.Status),
			RenderProgress(PlanCompletion(s.Progress), 10),
			HumanDate(p.UpdatedAt),
		})
	}
	return RenderTable([]string{"YEAR", "COORDINATOR", "NAME", "STATUS", "PROGRESS", "UPDATED"}, rows)
}

// FormatProgress renders per-goal progress bars.
func FormatProgress(progress []domain.GoalProgress) string {
	if len(progress) == 0 {
		return Dim("No goals yet.") + "\n"
	}
	rows := make([][]string, 0, len(progress))
	for i, g := range progress {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Truncate(g.Title, 40),
			RenderProgress(GoalCompletion(g), 12),
			fmt.Sprintf("%d/%d/%d", g.Completed, g.Partial, g.NotStarted),
		})
	}
	return RenderTable([]string{"#", "GOAL", "PROGRESS", "DONE/PART/TODO"}, rows)
}

var transitionVerbs = map[domain.Transition]string{
	domain.TransitionSubmit:         "Submitted",
	domain.TransitionApprove:        "Approved",
	domain.TransitionRequestChanges: "Requested changes on",
}

// FormatTransition renders the confirmation line for a workflow action,
// followed by a warning per notification that could not be written.
func FormatTransition(r *app.TransitionResult) string {
	var b strings.Builder
	verb := transitionVerbs[r.Transition]
	if verb == "" {
		verb = string(r.Transition)
	}
	fmt.Fprintf(&b, "%s %s plan %s %s\n", StyleGreen.Render("✔"), verb, Bold(r.Plan.Key().String()), PlanStatusPill(r.Plan.Status))
	if n := len(r.NotificationIDs); n > 0 {
		b.WriteString(Dim(fmt.Sprintf("  %d notification(s) sent", n)) + "\n")
	}
	for _, w := range r.Warnings {
		b.WriteString(Warn(warningText(w)) + "\n")
	}
	return b.String()
}

func warningText(w *app.PartialWorkflowFailure) string {
	if w.Op == "" || w.Op == "creating" {
		who := w.Recipient
		if who == "" {
			who = "the recipient"
		}
		return fmt.Sprintf("%s may not have been notified (%s): %v", who, w.NotificationType, w.Err)
	}
	return w.Error()
}
