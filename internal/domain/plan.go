package domain

import (
	"fmt"
	"strings"
	"time"
)

// PlanKey identifies a coordinator's plan for one school year.
type PlanKey struct {
	Year          int
	CoordinatorID string
}

func (k PlanKey) String() string {
	return fmt.Sprintf("%d/%s", k.Year, k.CoordinatorID)
}

type Profile struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Contact string `json:"contact"`
}

type StaffMember struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Subject string `json:"subject"`
}

type SchoolProfileRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Task struct {
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
	Note   string     `json:"note,omitempty"`
}

type Goal struct {
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// PlanContent is the coordinator-owned body of a plan. It is stored as a
// single document; goals keep their task order.
type PlanContent struct {
	Profile           Profile            `json:"profile"`
	TeachingStaff     []StaffMember      `json:"teaching_staff"`
	SchoolProfileRows []SchoolProfileRow `json:"school_profile_rows"`
	Goals             []Goal             `json:"goals"`
}

// Normalize fills defaults that older documents may lack.
func (c *PlanContent) Normalize() {
	for gi := range c.Goals {
		for ti := range c.Goals[gi].Tasks {
			if c.Goals[gi].Tasks[ti].Status == "" {
				c.Goals[gi].Tasks[ti].Status = TaskNotStarted
			}
		}
	}
}

// Validate reports the first structural problem in the content.
func (c *PlanContent) Validate() error {
	for gi, g := range c.Goals {
		if strings.TrimSpace(g.Title) == "" {
			return fmt.Errorf("goal %d: title is required", gi+1)
		}
		for ti, t := range g.Tasks {
			if strings.TrimSpace(t.Title) == "" {
				return fmt.Errorf("goal %d task %d: title is required", gi+1, ti+1)
			}
			if t.Status != "" && !ValidTaskStatuses[t.Status] {
				return fmt.Errorf("goal %d task %d: invalid status %q", gi+1, ti+1, t.Status)
			}
		}
	}
	return nil
}

type Plan struct {
	Year          int
	CoordinatorID string
	Content       PlanContent
	Status        PlanStatus
	Feedback      string
	// Submissions counts submit transitions; it scopes notification dedupe
	// keys to one review cycle.
	Submissions int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlan returns an empty draft for key.
func NewPlan(key PlanKey, now time.Time) *Plan {
	return &Plan{
		Year:          key.Year,
		CoordinatorID: key.CoordinatorID,
		Status:        PlanDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (p *Plan) Key() PlanKey {
	return PlanKey{Year: p.Year, CoordinatorID: p.CoordinatorID}
}

// CheckEditable returns ErrPlanLocked when the coordinator may not change
// content. Pending plans are always locked; approved plans only when
// re-opening after approval is disabled.
func (p *Plan) CheckEditable(allowApprovedEdits bool) error {
	switch p.Status {
	case PlanPending:
		return fmt.Errorf("plan %s is pending review: %w", p.Key(), ErrPlanLocked)
	case PlanApproved:
		if !allowApprovedEdits {
			return fmt.Errorf("plan %s is approved: %w", p.Key(), ErrPlanLocked)
		}
	}
	return nil
}

// ReplaceContent swaps the content wholesale. Status and feedback are left alone.
func (p *Plan) ReplaceContent(c PlanContent, now time.Time) {
	c.Normalize()
	p.Content = c
	p.UpdatedAt = now
}

// Submit moves the plan to pending. Submitting a pending plan again is
// allowed and keeps it pending. Feedback from a prior review is cleared.
func (p *Plan) Submit(allowResubmitApproved bool, now time.Time) error {
	if p.Status == PlanApproved && !allowResubmitApproved {
		return fmt.Errorf("cannot resubmit approved plan %s: %w", p.Key(), ErrInvalidTransition)
	}
	p.Status = PlanPending
	p.Feedback = ""
	p.Submissions++
	p.UpdatedAt = now
	return nil
}

// Approve moves a submitted plan to approved and clears feedback.
func (p *Plan) Approve(now time.Time) error {
	if p.Status == PlanDraft {
		return fmt.Errorf("cannot approve plan %s: never submitted: %w", p.Key(), ErrInvalidTransition)
	}
	p.Status = PlanApproved
	p.Feedback = ""
	p.UpdatedAt = now
	return nil
}

// RequestChanges records reviewer feedback and hands the plan back to the
// coordinator.
func (p *Plan) RequestChanges(feedback string, now time.Time) error {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return fmt.Errorf("feedback is required to request changes")
	}
	if p.Status == PlanDraft {
		return fmt.Errorf("cannot request changes on plan %s: never submitted: %w", p.Key(), ErrInvalidTransition)
	}
	p.Status = PlanChangesRequested
	p.Feedback = feedback
	p.UpdatedAt = now
	return nil
}

// SetTaskStatus updates one task by zero-based goal and task index.
func (p *Plan) SetTaskStatus(goalIdx, taskIdx int, status TaskStatus, now time.Time) error {
	if !ValidTaskStatuses[status] {
		return fmt.Errorf("invalid task status %q", status)
	}
	if goalIdx < 0 || goalIdx >= len(p.Content.Goals) {
		return fmt.Errorf("goal %d does not exist", goalIdx+1)
	}
	tasks := p.Content.Goals[goalIdx].Tasks
	if taskIdx < 0 || taskIdx >= len(tasks) {
		return fmt.Errorf("goal %d has no task %d", goalIdx+1, taskIdx+1)
	}
	tasks[taskIdx].Status = status
	p.UpdatedAt = now
	return nil
}

// GoalProgress summarizes task states for one goal.
type GoalProgress struct {
	Title      string
	NotStarted int
	Partial    int
	Completed  int
}

func (g GoalProgress) Total() int {
	return g.NotStarted + g.Partial + g.Completed
}

// Progress returns per-goal task counts in goal order.
func (p *Plan) Progress() []GoalProgress {
	out := make([]GoalProgress, 0, len(p.Content.Goals))
	for _, g := range p.Content.Goals {
		gp := GoalProgress{Title: g.Title}
		for _, t := range g.Tasks {
			switch t.Status {
			case TaskCompleted:
				gp.Completed++
			case TaskPartial:
				gp.Partial++
			default:
				gp.NotStarted++
			}
		}
		out = append(out, gp)
	}
	return out
}

// PlanPatch is a partial plan write. Nil fields keep the stored value.
type PlanPatch struct {
	Content     *PlanContent
	Status      *PlanStatus
	Feedback    *string
	Submissions *int
}

// PatchFrom captures every mutable field of p as a patch.
func PatchFrom(p *Plan) PlanPatch {
	content := p.Content
	status := p.Status
	feedback := p.Feedback
	submissions := p.Submissions
	return PlanPatch{
		Content:     &content,
		Status:      &status,
		Feedback:    &feedback,
		Submissions: &submissions,
	}
}

// Apply merges the patch into p.
func (p *Plan) Apply(patch PlanPatch, now time.Time) {
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Feedback != nil {
		p.Feedback = *patch.Feedback
	}
	if patch.Submissions != nil {
		p.Submissions = *patch.Submissions
	}
	p.UpdatedAt = now
}
