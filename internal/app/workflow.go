package app

import "github.com/alexanderramin/planportal/internal/domain"

type SubmitRequest struct {
	Year          int    `validate:"gte=1900,lte=9999"`
	CoordinatorID string `validate:"required"`
	// ActorID defaults to CoordinatorID.
	ActorID string
	// Content, when set, replaces the plan content as part of the submit.
	Content *domain.PlanContent
}

type ReviewRequest struct {
	Year          int    `validate:"gte=1900,lte=9999"`
	CoordinatorID string `validate:"required"`
	ActorID       string `validate:"required"`
	// Feedback is required by RequestChanges and ignored by Approve.
	Feedback string
	// SourceNotificationID names the inbox entry the review was opened
	// from; its status is mirrored after the transition.
	SourceNotificationID string
}

// TransitionResult is returned once the plan write is confirmed.
type TransitionResult struct {
	Plan            *domain.Plan
	Transition      domain.Transition
	NotificationIDs []string
	Warnings        []*PartialWorkflowFailure
}

// Partial reports whether any notification step failed.
func (r *TransitionResult) Partial() bool {
	return len(r.Warnings) > 0
}
