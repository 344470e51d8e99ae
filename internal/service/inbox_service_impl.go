package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
)

type InboxOptions struct {
	Subscriptions domain.Subscriptions
	LinkPrefix    string
}

type inboxService struct {
	notifications repository.NotificationRepo
	dir           directory
	linkPrefix    string
	observer      UseCaseObserver
}

func NewInboxService(notifications repository.NotificationRepo, users repository.UserRepo, opts InboxOptions, observers ...UseCaseObserver) InboxService {
	subs := opts.Subscriptions
	if subs == nil {
		subs = domain.DefaultSubscriptions()
	}
	prefix := opts.LinkPrefix
	if prefix == "" {
		prefix = domain.DefaultLinkPrefix
	}
	return &inboxService{
		notifications: notifications,
		dir:           directory{users: users, subs: subs},
		linkPrefix:    prefix,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *inboxService) List(ctx context.Context, q app.InboxQuery) ([]*domain.Notification, error) {
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	if q.Filter == "" {
		q.Filter = domain.FilterAll
	}
	actor, err := s.dir.actor(ctx, q.ActorID)
	if err != nil {
		return nil, err
	}
	ns, err := s.notifications.ListFor(ctx, repository.NotificationQuery{
		UserID:   actor.ID,
		Tokens:   s.dir.tokens(actor),
		Archived: q.Filter == domain.FilterArchived,
	})
	if err != nil {
		return nil, err
	}
	return domain.FilterNotifications(ns, q.Filter), nil
}

func (s *inboxService) Counts(ctx context.Context, actorID string) (*app.InboxCounts, error) {
	actor, err := s.dir.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	q := repository.NotificationQuery{UserID: actor.ID, Tokens: s.dir.tokens(actor)}
	live, err := s.notifications.ListFor(ctx, q)
	if err != nil {
		return nil, err
	}
	q.Archived = true
	archived, err := s.notifications.ListFor(ctx, q)
	if err != nil {
		return nil, err
	}

	counts := &app.InboxCounts{Total: len(live), Archived: len(archived)}
	for _, n := range live {
		if !n.Read {
			counts.Unread++
		}
		if n.Pinned {
			counts.Pinned++
		}
	}
	return counts, nil
}

func (s *inboxService) MarkRead(ctx context.Context, actorID, id string) error {
	return s.setFlags(ctx, "mark-read", actorID, id, domain.NotificationFlags{Read: boolPtr(true)})
}

func (s *inboxService) MarkUnread(ctx context.Context, actorID, id string) error {
	return s.setFlags(ctx, "mark-unread", actorID, id, domain.NotificationFlags{Read: boolPtr(false)})
}

func (s *inboxService) Archive(ctx context.Context, actorID, id string) error {
	return s.setFlags(ctx, "archive-notification", actorID, id, domain.NotificationFlags{Archived: boolPtr(true)})
}

func (s *inboxService) Unarchive(ctx context.Context, actorID, id string) error {
	return s.setFlags(ctx, "unarchive-notification", actorID, id, domain.NotificationFlags{Archived: boolPtr(false)})
}

func (s *inboxService) TogglePin(ctx context.Context, actorID, id string) (bool, error) {
	var pinned bool
	err := observe(ctx, s.observer, "toggle-pin", map[string]any{"actor": actorID, "notification": id}, func() error {
		n, err := s.visible(ctx, actorID, id)
		if err != nil {
			return err
		}
		pinned = !n.Pinned
		return s.notifications.SetFlags(ctx, id, domain.NotificationFlags{Pinned: &pinned})
	})
	return pinned, err
}

func (s *inboxService) MarkAllRead(ctx context.Context, actorID string) (int, error) {
	fields := map[string]any{"actor": actorID}
	var marked int
	err := observe(ctx, s.observer, "mark-all-read", fields, func() error {
		unread, err := s.List(ctx, app.InboxQuery{ActorID: actorID, Filter: domain.FilterUnread})
		if err != nil {
			return err
		}
		for _, n := range unread {
			if err := s.notifications.SetFlags(ctx, n.ID, domain.NotificationFlags{Read: boolPtr(true)}); err != nil {
				return fmt.Errorf("marking %s read: %w", n.ID, err)
			}
			marked++
		}
		fields["marked"] = marked
		return nil
	})
	return marked, err
}

func (s *inboxService) Delete(ctx context.Context, actorID, id string) error {
	return observe(ctx, s.observer, "delete-notification", map[string]any{"actor": actorID, "notification": id}, func() error {
		if _, err := s.visible(ctx, actorID, id); err != nil {
			return err
		}
		return s.notifications.Delete(ctx, id)
	})
}

func (s *inboxService) Open(ctx context.Context, actorID, id string) (*app.OpenedNotification, error) {
	var opened *app.OpenedNotification
	err := observe(ctx, s.observer, "open-notification", map[string]any{"actor": actorID, "notification": id}, func() error {
		n, err := s.visible(ctx, actorID, id)
		if err != nil {
			return err
		}
		if !n.Read {
			if err := s.notifications.SetFlags(ctx, id, domain.NotificationFlags{Read: boolPtr(true)}); err != nil {
				return err
			}
			n.Read = true
		}
		opened = &app.OpenedNotification{Notification: n}
		if key, err := domain.ParsePlanLink(s.linkPrefix, n.Link); err == nil {
			opened.PlanKey = &key
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

func (s *inboxService) setFlags(ctx context.Context, useCase, actorID, id string, flags domain.NotificationFlags) error {
	return observe(ctx, s.observer, useCase, map[string]any{"actor": actorID, "notification": id}, func() error {
		if _, err := s.visible(ctx, actorID, id); err != nil {
			return err
		}
		return s.notifications.SetFlags(ctx, id, flags)
	})
}

// visible loads a notification the actor may see. Rows addressed to
// someone else report NotFound.
func (s *inboxService) visible(ctx context.Context, actorID, id string) (*domain.Notification, error) {
	actor, err := s.dir.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.VisibleTo(actor.ID, s.dir.tokens(actor)) {
		return nil, fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
	}
	return n, nil
}

func boolPtr(b bool) *bool {
	return &b
}
