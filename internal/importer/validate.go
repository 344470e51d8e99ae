package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/domain"
)

// ValidatePlanDocument checks the document before conversion.
// Returns a slice of all validation errors found.
func ValidatePlanDocument(doc *PlanDocument) []error {
	var errs []error

	for i, s := range doc.TeachingStaff {
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("teaching_staff[%d].name is required", i))
		}
	}
	for i, r := range doc.SchoolProfileRows {
		if strings.TrimSpace(r.Label) == "" {
			errs = append(errs, fmt.Errorf("school_profile_rows[%d].label is required", i))
		}
	}
	for gi, g := range doc.Goals {
		errs = append(errs, validateGoal(gi, g)...)
	}

	return errs
}

func validateGoal(gi int, g GoalImport) []error {
	var errs []error
	prefix := fmt.Sprintf("goals[%d]", gi)

	if strings.TrimSpace(g.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	for ti, t := range g.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.tasks[%d].title is required", prefix, ti))
		}
		if _, ok := parseTaskStatus(t.Status); !ok {
			errs = append(errs, fmt.Errorf("%s.tasks[%d].status: invalid value %q (expected not-started, partial or completed)", prefix, ti, t.Status))
		}
	}
	return errs
}

// parseTaskStatus accepts the canonical names case-insensitively, with
// underscores or spaces in place of the hyphen. Empty means not-started.
func parseTaskStatus(s string) (domain.TaskStatus, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	if norm == "" {
		return domain.TaskNotStarted, true
	}
	st := domain.TaskStatus(norm)
	return st, domain.ValidTaskStatuses[st]
}
