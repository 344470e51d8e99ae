package repository

import (
	"context"

	"github.com/alexanderramin/planportal/internal/domain"
)

// PlanRepo persists one plan document per (year, coordinator).
type PlanRepo interface {
	Get(ctx context.Context, key domain.PlanKey) (*domain.Plan, error)
	// Save merges patch into the stored document (or a fresh draft) and
	// writes the whole document back. Concurrent saves are last-writer-wins.
	Save(ctx context.Context, key domain.PlanKey, patch domain.PlanPatch) (*domain.Plan, error)
	ListByYear(ctx context.Context, year int) ([]*domain.Plan, error)
	ListByStatus(ctx context.Context, status domain.PlanStatus) ([]*domain.Plan, error)
}

// NotificationQuery selects the feed visible to one user.
type NotificationQuery struct {
	UserID string
	// Tokens are the broadcast recipients the user's role subscribes to.
	Tokens []string
	// Archived selects the archived feed instead of the live one.
	Archived bool
}

// NotificationRepo stores notification rows, one per recipient per event.
type NotificationRepo interface {
	// Create inserts a row and returns its id. With a dedupe key set, a
	// second create for the same key returns the first row's id.
	Create(ctx context.Context, in domain.NotificationInput) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	// ListFor returns the visible feed, newest first.
	ListFor(ctx context.Context, q NotificationQuery) ([]*domain.Notification, error)
	SetFlags(ctx context.Context, id string, flags domain.NotificationFlags) error
	UpdateStatus(ctx context.Context, id string, status domain.PlanStatus, feedback *string) error
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
}
