package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
)

type PlanOptions struct {
	// AllowApprovedEdits lets a coordinator reopen an approved plan.
	AllowApprovedEdits bool
	Retry              RetryPolicy
	// Subscriptions names the broadcast tokens that can never act as users.
	Subscriptions domain.Subscriptions
}

type planService struct {
	plans    repository.PlanRepo
	dir      directory
	opts     PlanOptions
	observer UseCaseObserver
}

func NewPlanService(plans repository.PlanRepo, users repository.UserRepo, opts PlanOptions, observers ...UseCaseObserver) PlanService {
	subs := opts.Subscriptions
	if subs == nil {
		subs = domain.DefaultSubscriptions()
	}
	return &planService{
		plans:    plans,
		dir:      directory{users: users, subs: subs},
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Get(ctx context.Context, key domain.PlanKey) (*domain.Plan, error) {
	return s.plans.Get(ctx, key)
}

func (s *planService) SaveDraft(ctx context.Context, req app.SaveDraftRequest) (*domain.Plan, error) {
	if req.ActorID == "" {
		req.ActorID = req.CoordinatorID
	}
	key := domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID}
	fields := map[string]any{"plan": key.String(), "actor": req.ActorID, "goals": len(req.Content.Goals)}

	var saved *domain.Plan
	err := observe(ctx, s.observer, "save-draft", fields, func() error {
		if err := validateStruct(req); err != nil {
			return err
		}
		content := req.Content
		if err := content.Validate(); err != nil {
			return &app.ValidationError{Field: "content", Message: err.Error()}
		}
		if err := s.authorize(ctx, req.ActorID, key, "edit"); err != nil {
			return err
		}

		var err error
		saved, err = withRetry(ctx, s.opts.Retry, func(ctx context.Context) (*domain.Plan, error) {
			p, err := s.plans.Get(ctx, key)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				p = domain.NewPlan(key, time.Now().UTC())
			case err != nil:
				return nil, err
			}
			if err := p.CheckEditable(s.opts.AllowApprovedEdits); err != nil {
				return nil, err
			}
			p.ReplaceContent(content, time.Now().UTC())
			return s.plans.Save(ctx, key, domain.PlanPatch{Content: &p.Content})
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *planService) SetTaskStatus(ctx context.Context, req app.TaskStatusRequest) (*domain.Plan, error) {
	if req.ActorID == "" {
		req.ActorID = req.CoordinatorID
	}
	key := domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID}
	fields := map[string]any{
		"plan":   key.String(),
		"actor":  req.ActorID,
		"goal":   req.GoalIndex,
		"task":   req.TaskIndex,
		"status": string(req.Status),
	}

	var saved *domain.Plan
	err := observe(ctx, s.observer, "set-task-status", fields, func() error {
		if err := validateStruct(req); err != nil {
			return err
		}
		if err := s.authorize(ctx, req.ActorID, key, "edit"); err != nil {
			return err
		}

		var err error
		saved, err = withRetry(ctx, s.opts.Retry, func(ctx context.Context) (*domain.Plan, error) {
			p, err := s.plans.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if err := p.CheckEditable(s.opts.AllowApprovedEdits); err != nil {
				return nil, err
			}
			if err := p.SetTaskStatus(req.GoalIndex, req.TaskIndex, req.Status, time.Now().UTC()); err != nil {
				return nil, &app.ValidationError{Field: "task", Message: err.Error()}
			}
			return s.plans.Save(ctx, key, domain.PlanPatch{Content: &p.Content})
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *planService) ListByYear(ctx context.Context, year int) ([]app.PlanSummary, error) {
	plans, err := s.plans.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("listing %d plans: %w", year, err)
	}
	return summarize(plans), nil
}

func (s *planService) ListByStatus(ctx context.Context, status domain.PlanStatus) ([]app.PlanSummary, error) {
	if !domain.ValidPlanStatuses[status] {
		return nil, &app.ValidationError{Field: "status", Message: fmt.Sprintf("unknown plan status %q", status)}
	}
	plans, err := s.plans.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing %s plans: %w", status, err)
	}
	return summarize(plans), nil
}

func (s *planService) ReviewQueue(ctx context.Context) ([]app.PlanSummary, error) {
	return s.ListByStatus(ctx, domain.PlanPending)
}

func (s *planService) Progress(ctx context.Context, key domain.PlanKey) ([]domain.GoalProgress, error) {
	p, err := s.plans.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return p.Progress(), nil
}

func (s *planService) authorize(ctx context.Context, actorID string, key domain.PlanKey, action string) error {
	actor, err := s.dir.actor(ctx, actorID)
	if err != nil {
		return err
	}
	return requireOwner(actor, key, action)
}

func summarize(plans []*domain.Plan) []app.PlanSummary {
	out := make([]app.PlanSummary, 0, len(plans))
	for _, p := range plans {
		out = append(out, app.PlanSummary{Plan: p, Progress: p.Progress()})
	}
	return out
}
