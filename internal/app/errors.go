package app

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/planportal/internal/domain"
)

// ErrForbidden is returned when the acting user's role or ownership does
// not allow the requested operation.
var ErrForbidden = errors.New("forbidden")

// ValidationError rejects a request before any write is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// PartialWorkflowFailure reports a notification write that failed after the
// plan write for the same transition succeeded. The plan's new status stands.
type PartialWorkflowFailure struct {
	Transition       domain.Transition
	PlanKey          domain.PlanKey
	Op               string
	NotificationID   string
	Recipient        string
	NotificationType domain.NotificationType
	Err              error
}

func (e *PartialWorkflowFailure) Error() string {
	target := string(e.NotificationType) + " notification"
	if e.Recipient != "" {
		target += " for " + e.Recipient
	}
	if e.NotificationID != "" {
		target = "notification " + e.NotificationID
	}
	op := e.Op
	if op == "" {
		op = "creating"
	}
	return fmt.Sprintf("%s succeeded for plan %s but %s %s failed: %v", e.Transition, e.PlanKey, op, target, e.Err)
}

func (e *PartialWorkflowFailure) Unwrap() error {
	return e.Err
}
