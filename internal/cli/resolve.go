package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
	"github.com/spf13/cobra"
)

// requireActor returns the --as user or an error naming the flag.
func requireActor(a *App) (string, error) {
	actor := strings.TrimSpace(a.Actor)
	if actor == "" {
		return "", fmt.Errorf("--as <user-id> is required")
	}
	return actor, nil
}

// addYearFlag registers --year defaulting to the current calendar year.
func addYearFlag(cmd *cobra.Command, year *int) {
	cmd.Flags().IntVar(year, "year", time.Now().Year(), "School year of the plan")
}

// planKey builds the key for the plan a command addresses. Coordinators
// default to their own plan.
func planKey(a *App, year int, coordinator string) (domain.PlanKey, error) {
	if coordinator == "" {
		coordinator = strings.TrimSpace(a.Actor)
	}
	if coordinator == "" {
		return domain.PlanKey{}, fmt.Errorf("--coordinator or --as is required")
	}
	return domain.PlanKey{Year: year, CoordinatorID: coordinator}, nil
}

// resolveNotificationID accepts a full notification ID or a unique prefix
// of one visible to the actor, archived rows included.
func resolveNotificationID(ctx context.Context, a *App, actor, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("notification ID is required")
	}

	var candidates []*domain.Notification
	for _, f := range []domain.InboxFilter{domain.FilterAll, domain.FilterArchived} {
		ns, err := a.Inbox.List(ctx, app.InboxQuery{ActorID: actor, Filter: f})
		if err != nil {
			return "", err
		}
		candidates = append(candidates, ns...)
	}

	var matches []string
	for _, n := range candidates {
		if n.ID == input {
			return n.ID, nil
		}
		if strings.HasPrefix(n.ID, input) {
			matches = append(matches, n.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("notification %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("notification ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// describeError turns service errors into messages a CLI user can act on.
func describeError(err error, key domain.PlanKey) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("no plan %s: %w", key, err)
	case errors.Is(err, app.ErrForbidden):
		return fmt.Errorf("not allowed: %w", err)
	default:
		return err
	}
}
