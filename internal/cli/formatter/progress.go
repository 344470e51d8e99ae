package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/domain"
)

const (
	filledBlock = "█"
	halfBlock   = "▒"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 45%. Green above 66%,
// yellow from 33%, red below.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// GoalCompletion weighs partial tasks as half done.
func GoalCompletion(g domain.GoalProgress) float64 {
	total := g.Total()
	if total == 0 {
		return 0
	}
	return (float64(g.Completed) + 0.5*float64(g.Partial)) / float64(total)
}

// PlanCompletion aggregates GoalCompletion over all tasks of a plan.
func PlanCompletion(progress []domain.GoalProgress) float64 {
	var done float64
	var total int
	for _, g := range progress {
		done += float64(g.Completed) + 0.5*float64(g.Partial)
		total += g.Total()
	}
	if total == 0 {
		return 0
	}
	return done / float64(total)
}

// TaskStrip renders one block per task: filled, half or empty.
func TaskStrip(g domain.GoalProgress) string {
	return StyleGreen.Render(strings.Repeat(filledBlock, g.Completed)) +
		StyleYellow.Render(strings.Repeat(halfBlock, g.Partial)) +
		StyleDim.Render(strings.Repeat(emptyBlock, g.NotStarted))
}
