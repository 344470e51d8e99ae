package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Notification is one feed row addressed to a single recipient, which is
// either a user ID or a broadcast token such as the principal channel.
// Type, sender, title, message and recipient never change after creation.
type Notification struct {
	ID          string
	Type        NotificationType
	SenderName  string
	SenderRole  Role
	Title       string
	Message     string
	RecipientID string
	Link        string
	// Status is a snapshot of the plan status at emission time; empty when
	// the event is not tied to a plan status.
	Status    PlanStatus
	Feedback  string
	Read      bool
	Pinned    bool
	Archived  bool
	DedupeKey string
	CreatedAt time.Time
}

// NotificationInput is what the workflow hands to the notification store.
type NotificationInput struct {
	Type        NotificationType `validate:"required"`
	SenderName  string           `validate:"required"`
	SenderRole  Role             `validate:"required"`
	Title       string           `validate:"required"`
	Message     string           `validate:"required"`
	RecipientID string           `validate:"required"`
	Link        string
	Status      PlanStatus
	Feedback    string
	DedupeKey   string
}

// NotificationFlags is a partial update of recipient-owned flags.
type NotificationFlags struct {
	Read     *bool
	Pinned   *bool
	Archived *bool
}

func (f NotificationFlags) Empty() bool {
	return f.Read == nil && f.Pinned == nil && f.Archived == nil
}

// VisibleTo reports whether userID, subscribed to tokens, may see n.
func (n *Notification) VisibleTo(userID string, tokens []string) bool {
	if n.RecipientID == userID {
		return true
	}
	for _, t := range tokens {
		if t != "" && n.RecipientID == t {
			return true
		}
	}
	return false
}

// FilterNotifications applies the unread and pinned views over an already
// archive-filtered set. FilterAll and FilterArchived return ns unchanged.
func FilterNotifications(ns []*Notification, f InboxFilter) []*Notification {
	switch f {
	case FilterUnread:
		out := make([]*Notification, 0, len(ns))
		for _, n := range ns {
			if !n.Read {
				out = append(out, n)
			}
		}
		return out
	case FilterPinned:
		out := make([]*Notification, 0, len(ns))
		for _, n := range ns {
			if n.Pinned {
				out = append(out, n)
			}
		}
		return out
	default:
		return ns
	}
}

// DedupeKey derives a deterministic key for one notification of one review
// cycle, so a retried create collapses onto the first row.
func DedupeKey(t NotificationType, recipientID string, key PlanKey, status PlanStatus, submissions int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%d", t, recipientID, key, status, submissions)))
	return hex.EncodeToString(sum[:])
}
