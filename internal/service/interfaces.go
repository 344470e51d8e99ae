package service

import (
	"context"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
)

// WorkflowService drives plan status transitions and emits the matching
// notifications. The plan write always precedes the notification writes.
type WorkflowService interface {
	Submit(ctx context.Context, req app.SubmitRequest) (*app.TransitionResult, error)
	Approve(ctx context.Context, req app.ReviewRequest) (*app.TransitionResult, error)
	RequestChanges(ctx context.Context, req app.ReviewRequest) (*app.TransitionResult, error)
}

type PlanService interface {
	Get(ctx context.Context, key domain.PlanKey) (*domain.Plan, error)
	SaveDraft(ctx context.Context, req app.SaveDraftRequest) (*domain.Plan, error)
	SetTaskStatus(ctx context.Context, req app.TaskStatusRequest) (*domain.Plan, error)
	ListByYear(ctx context.Context, year int) ([]app.PlanSummary, error)
	ListByStatus(ctx context.Context, status domain.PlanStatus) ([]app.PlanSummary, error)
	// ReviewQueue lists plans awaiting a principal decision, oldest first.
	ReviewQueue(ctx context.Context) ([]app.PlanSummary, error)
	Progress(ctx context.Context, key domain.PlanKey) ([]domain.GoalProgress, error)
}

type InboxService interface {
	List(ctx context.Context, q app.InboxQuery) ([]*domain.Notification, error)
	Counts(ctx context.Context, actorID string) (*app.InboxCounts, error)
	MarkRead(ctx context.Context, actorID, id string) error
	MarkUnread(ctx context.Context, actorID, id string) error
	// TogglePin flips the pinned flag and returns the new value.
	TogglePin(ctx context.Context, actorID, id string) (bool, error)
	Archive(ctx context.Context, actorID, id string) error
	Unarchive(ctx context.Context, actorID, id string) error
	// MarkAllRead marks every unread live notification read and returns
	// how many changed.
	MarkAllRead(ctx context.Context, actorID string) (int, error)
	Delete(ctx context.Context, actorID, id string) error
	Open(ctx context.Context, actorID, id string) (*app.OpenedNotification, error)
}

type UserService interface {
	Add(ctx context.Context, id, name string, role domain.Role) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
