package app

import "github.com/alexanderramin/planportal/internal/domain"

type SaveDraftRequest struct {
	Year          int    `validate:"gte=1900,lte=9999"`
	CoordinatorID string `validate:"required"`
	ActorID       string
	Content       domain.PlanContent
}

type TaskStatusRequest struct {
	Year          int    `validate:"gte=1900,lte=9999"`
	CoordinatorID string `validate:"required"`
	ActorID       string
	GoalIndex     int               `validate:"gte=0"`
	TaskIndex     int               `validate:"gte=0"`
	Status        domain.TaskStatus `validate:"required,oneof=not-started partial completed"`
}

// PlanSummary is one row of a review queue or yearly listing.
type PlanSummary struct {
	Plan     *domain.Plan
	Progress []domain.GoalProgress
}
