package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
)

// directory resolves acting users and the broadcast tokens their role
// subscribes to. It is role lookup only; callers are trusted to be who
// they say they are.
type directory struct {
	users repository.UserRepo
	subs  domain.Subscriptions
}

func (d directory) actor(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &app.ValidationError{Field: "actor", Message: "is required"}
	}
	if d.subs.IsToken(id) {
		return nil, fmt.Errorf("%q is a broadcast channel, not a user: %w", id, app.ErrForbidden)
	}
	u, err := d.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("unknown user %q: %w", id, app.ErrForbidden)
		}
		return nil, err
	}
	return u, nil
}

func (d directory) tokens(u *domain.User) []string {
	return d.subs.TokensFor(u.Role)
}

func requireRole(u *domain.User, role domain.Role, action string) error {
	if u.Role != role {
		return fmt.Errorf("%s requires role %s, %s is %s: %w", action, role, u.ID, u.Role, app.ErrForbidden)
	}
	return nil
}

// requireOwner allows only the coordinator who owns the plan.
func requireOwner(u *domain.User, key domain.PlanKey, action string) error {
	if err := requireRole(u, domain.RoleCoordinator, action); err != nil {
		return err
	}
	if u.ID != key.CoordinatorID {
		return fmt.Errorf("%s: plan %s belongs to another coordinator: %w", action, key, app.ErrForbidden)
	}
	return nil
}
