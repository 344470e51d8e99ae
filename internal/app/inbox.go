package app

import "github.com/alexanderramin/planportal/internal/domain"

type InboxQuery struct {
	ActorID string             `validate:"required"`
	Filter  domain.InboxFilter `validate:"omitempty,oneof=all unread pinned archived"`
}

// InboxCounts backs the view's tab badges.
type InboxCounts struct {
	Total    int
	Unread   int
	Pinned   int
	Archived int
}

// OpenedNotification is a notification that was opened from the inbox,
// along with the plan it links to when the link is a plan link.
type OpenedNotification struct {
	Notification *domain.Notification
	PlanKey      *domain.PlanKey
}
