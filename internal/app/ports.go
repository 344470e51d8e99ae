package app

import (
	"context"

	"github.com/alexanderramin/planportal/internal/domain"
)

type SubmitPlanUseCase interface {
	Submit(ctx context.Context, req SubmitRequest) (*TransitionResult, error)
}

type ReviewPlanUseCase interface {
	Approve(ctx context.Context, req ReviewRequest) (*TransitionResult, error)
	RequestChanges(ctx context.Context, req ReviewRequest) (*TransitionResult, error)
}

type EditPlanUseCase interface {
	SaveDraft(ctx context.Context, req SaveDraftRequest) (*domain.Plan, error)
	SetTaskStatus(ctx context.Context, req TaskStatusRequest) (*domain.Plan, error)
}

type BrowseInboxUseCase interface {
	List(ctx context.Context, q InboxQuery) ([]*domain.Notification, error)
	Counts(ctx context.Context, actorID string) (*InboxCounts, error)
	Open(ctx context.Context, actorID, id string) (*OpenedNotification, error)
}
