package domain

import "errors"

var (
	// ErrInvalidTransition indicates a workflow action not permitted from the
	// plan's current status.
	ErrInvalidTransition = errors.New("invalid plan transition")

	// ErrPlanLocked indicates a content edit while the plan is under review
	// or already approved.
	ErrPlanLocked = errors.New("plan is locked for editing")
)
