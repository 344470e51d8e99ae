package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/domain"
)

// Convert transforms a validated PlanDocument into plan content.
// Call ValidatePlanDocument first; Convert rejects anything it cannot map.
func Convert(doc *PlanDocument) (domain.PlanContent, error) {
	content := domain.PlanContent{
		Profile: domain.Profile{
			Name:    strings.TrimSpace(doc.Profile.Name),
			Subject: strings.TrimSpace(doc.Profile.Subject),
			Contact: strings.TrimSpace(doc.Profile.Contact),
		},
	}

	for _, s := range doc.TeachingStaff {
		content.TeachingStaff = append(content.TeachingStaff, domain.StaffMember{
			Name:    strings.TrimSpace(s.Name),
			Role:    strings.TrimSpace(s.Role),
			Subject: strings.TrimSpace(s.Subject),
		})
	}
	for _, r := range doc.SchoolProfileRows {
		content.SchoolProfileRows = append(content.SchoolProfileRows, domain.SchoolProfileRow{
			Label: strings.TrimSpace(r.Label),
			Value: strings.TrimSpace(r.Value),
		})
	}

	for gi, g := range doc.Goals {
		goal := domain.Goal{Title: strings.TrimSpace(g.Title), Tasks: make([]domain.Task, 0, len(g.Tasks))}
		for ti, t := range g.Tasks {
			status, ok := parseTaskStatus(t.Status)
			if !ok {
				return domain.PlanContent{}, fmt.Errorf("goals[%d].tasks[%d]: invalid status %q", gi, ti, t.Status)
			}
			goal.Tasks = append(goal.Tasks, domain.Task{
				Title:  strings.TrimSpace(t.Title),
				Status: status,
				Note:   strings.TrimSpace(t.Note),
			})
		}
		content.Goals = append(content.Goals, goal)
	}

	if err := content.Validate(); err != nil {
		return domain.PlanContent{}, err
	}
	return content, nil
}

// Export renders plan content back into document form, e.g. to seed a file
// a coordinator can edit and save again.
func Export(c domain.PlanContent) *PlanDocument {
	doc := &PlanDocument{
		Profile: ProfileImport{Name: c.Profile.Name, Subject: c.Profile.Subject, Contact: c.Profile.Contact},
	}
	for _, s := range c.TeachingStaff {
		doc.TeachingStaff = append(doc.TeachingStaff, StaffImport{Name: s.Name, Role: s.Role, Subject: s.Subject})
	}
	for _, r := range c.SchoolProfileRows {
		doc.SchoolProfileRows = append(doc.SchoolProfileRows, ProfileRowImport{Label: r.Label, Value: r.Value})
	}
	for _, g := range c.Goals {
		gi := GoalImport{Title: g.Title}
		for _, t := range g.Tasks {
			gi.Tasks = append(gi.Tasks, TaskImport{Title: t.Title, Status: string(t.Status), Note: t.Note})
		}
		doc.Goals = append(doc.Goals, gi)
	}
	return doc
}
