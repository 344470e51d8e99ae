package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/db"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
)

// Consistency selects how a transition's plan and notification writes
// relate.
type Consistency string

const (
	// ConsistencyBestEffort commits the plan first, then creates each
	// notification independently. Notification failures become warnings.
	ConsistencyBestEffort Consistency = "best_effort"
	// ConsistencyTransactional runs every write in one transaction; any
	// failure rolls the plan back and is returned as the error.
	ConsistencyTransactional Consistency = "transactional"
)

type WorkflowOptions struct {
	PrincipalToken string
	// Subscriptions decides which notifications an actor can see. The
	// principal role always reads PrincipalToken.
	Subscriptions         domain.Subscriptions
	LinkPrefix            string
	Consistency           Consistency
	AllowResubmitApproved bool
	// Dedupe stamps each notification with a deterministic key so retried
	// creates collapse onto one row. Only then are creates retried.
	Dedupe bool
	Retry  RetryPolicy
	Logger *slog.Logger
}

func DefaultWorkflowOptions() WorkflowOptions {
	return WorkflowOptions{
		PrincipalToken:        domain.DefaultPrincipalToken,
		LinkPrefix:            domain.DefaultLinkPrefix,
		Consistency:           ConsistencyBestEffort,
		AllowResubmitApproved: true,
		Retry:                 DefaultRetryPolicy(),
	}
}

type workflowService struct {
	plans         repository.PlanRepo
	notifications repository.NotificationRepo
	dir           directory
	uow           db.UnitOfWork
	opts          WorkflowOptions
	logger        *slog.Logger
	observer      UseCaseObserver
}

func NewWorkflowService(
	plans repository.PlanRepo,
	notifications repository.NotificationRepo,
	users repository.UserRepo,
	uow db.UnitOfWork,
	opts WorkflowOptions,
	observers ...UseCaseObserver,
) WorkflowService {
	if opts.PrincipalToken == "" {
		opts.PrincipalToken = domain.DefaultPrincipalToken
	}
	if opts.LinkPrefix == "" {
		opts.LinkPrefix = domain.DefaultLinkPrefix
	}
	if opts.Consistency == "" {
		opts.Consistency = ConsistencyBestEffort
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &workflowService{
		plans:         plans,
		notifications: notifications,
		dir:           directory{users: users, subs: opts.Subscriptions.With(domain.RolePrincipal, opts.PrincipalToken)},
		uow:           uow,
		opts:          opts,
		logger:        logger,
		observer:      useCaseObserverOrNoop(observers),
	}
}

// transition is one state change plus the notifications it emits.
type transition struct {
	kind domain.Transition
	key  domain.PlanKey
	// createIfMissing starts a fresh draft when no plan is stored yet.
	createIfMissing bool
	apply           func(p *domain.Plan, now time.Time) error
	notify          func(p *domain.Plan) []domain.NotificationInput
}

func (s *workflowService) Submit(ctx context.Context, req app.SubmitRequest) (*app.TransitionResult, error) {
	if req.ActorID == "" {
		req.ActorID = req.CoordinatorID
	}
	key := domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID}
	fields := s.fields(key, req.ActorID)

	var res *app.TransitionResult
	err := observe(ctx, s.observer, "submit-plan", fields, func() error {
		if err := validateStruct(req); err != nil {
			return err
		}
		var content *domain.PlanContent
		if req.Content != nil {
			c := *req.Content
			if err := c.Validate(); err != nil {
				return &app.ValidationError{Field: "content", Message: err.Error()}
			}
			content = &c
		}

		actor, err := s.dir.actor(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, key, "submit"); err != nil {
			return err
		}

		res, err = s.run(ctx, transition{
			kind:            domain.TransitionSubmit,
			key:             key,
			createIfMissing: true,
			apply: func(p *domain.Plan, now time.Time) error {
				if content != nil {
					p.ReplaceContent(*content, now)
				}
				return p.Submit(s.opts.AllowResubmitApproved, now)
			},
			notify: func(p *domain.Plan) []domain.NotificationInput {
				return []domain.NotificationInput{
					s.notice(p, actor, domain.NotifPlanSubmitted, s.opts.PrincipalToken,
						"Plan submitted for review",
						fmt.Sprintf("%s submitted the %d work plan for review.", displayName(actor), p.Year)),
					s.notice(p, actor, domain.NotifSubmissionReceipt, actor.ID,
						"Plan sent for review",
						fmt.Sprintf("Your %d work plan was sent to the principal for review.", p.Year)),
				}
			},
		})
		if err != nil {
			return err
		}
		s.recordOutcome(fields, res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *workflowService) Approve(ctx context.Context, req app.ReviewRequest) (*app.TransitionResult, error) {
	key := domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID}
	fields := s.fields(key, req.ActorID)

	var res *app.TransitionResult
	err := observe(ctx, s.observer, "approve-plan", fields, func() error {
		if err := validateStruct(req); err != nil {
			return err
		}
		actor, err := s.dir.actor(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, domain.RolePrincipal, "approve"); err != nil {
			return err
		}

		res, err = s.run(ctx, transition{
			kind: domain.TransitionApprove,
			key:  key,
			apply: func(p *domain.Plan, now time.Time) error {
				return p.Approve(now)
			},
			notify: func(p *domain.Plan) []domain.NotificationInput {
				return []domain.NotificationInput{
					s.notice(p, actor, domain.NotifPlanApproved, p.CoordinatorID,
						"Plan approved",
						fmt.Sprintf("%s approved your %d work plan.", displayName(actor), p.Year)),
				}
			},
		})
		if err != nil {
			return err
		}
		s.mirror(ctx, res, actor, req.SourceNotificationID)
		s.recordOutcome(fields, res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *workflowService) RequestChanges(ctx context.Context, req app.ReviewRequest) (*app.TransitionResult, error) {
	key := domain.PlanKey{Year: req.Year, CoordinatorID: req.CoordinatorID}
	fields := s.fields(key, req.ActorID)

	var res *app.TransitionResult
	err := observe(ctx, s.observer, "request-changes", fields, func() error {
		feedback := strings.TrimSpace(req.Feedback)
		if feedback == "" {
			return &app.ValidationError{Field: "feedback", Message: "is required to request changes"}
		}
		if err := validateStruct(req); err != nil {
			return err
		}
		actor, err := s.dir.actor(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if err := requireRole(actor, domain.RolePrincipal, "request changes"); err != nil {
			return err
		}

		res, err = s.run(ctx, transition{
			kind: domain.TransitionRequestChanges,
			key:  key,
			apply: func(p *domain.Plan, now time.Time) error {
				return p.RequestChanges(feedback, now)
			},
			notify: func(p *domain.Plan) []domain.NotificationInput {
				return []domain.NotificationInput{
					s.notice(p, actor, domain.NotifChangesRequested, p.CoordinatorID,
						"Changes requested",
						fmt.Sprintf("%s requested changes to your %d work plan: %s", displayName(actor), p.Year, p.Feedback)),
				}
			},
		})
		if err != nil {
			return err
		}
		s.mirror(ctx, res, actor, req.SourceNotificationID)
		s.recordOutcome(fields, res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *workflowService) run(ctx context.Context, t transition) (*app.TransitionResult, error) {
	if s.opts.Consistency == ConsistencyTransactional {
		return s.runTx(ctx, t)
	}
	return s.runBestEffort(ctx, t)
}

// runBestEffort writes the plan, then each notification on its own. Once the
// plan write is confirmed the transition has happened, whatever follows.
func (s *workflowService) runBestEffort(ctx context.Context, t transition) (*app.TransitionResult, error) {
	p, err := withRetry(ctx, s.opts.Retry, func(ctx context.Context) (*domain.Plan, error) {
		return advance(ctx, s.plans, t)
	})
	if err != nil {
		return nil, err
	}

	res := &app.TransitionResult{Plan: p, Transition: t.kind}
	for _, in := range t.notify(p) {
		id, err := s.createNotification(ctx, in)
		if err != nil {
			s.warn(ctx, res, &app.PartialWorkflowFailure{
				Transition:       t.kind,
				PlanKey:          t.key,
				Recipient:        in.RecipientID,
				NotificationType: in.Type,
				Err:              err,
			})
			continue
		}
		res.NotificationIDs = append(res.NotificationIDs, id)
	}
	return res, nil
}

// runTx performs the plan write and every notification write in a single
// transaction. The whole transaction is retried on transient failures.
func (s *workflowService) runTx(ctx context.Context, t transition) (*app.TransitionResult, error) {
	return withRetry(ctx, s.opts.Retry, func(ctx context.Context) (*app.TransitionResult, error) {
		res := &app.TransitionResult{Transition: t.kind}
		err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			p, err := advance(ctx, repository.NewSQLitePlanRepo(tx), t)
			if err != nil {
				return err
			}
			res.Plan = p

			notifications := repository.NewSQLiteNotificationRepo(tx)
			for _, in := range t.notify(p) {
				if err := validateStruct(in); err != nil {
					return err
				}
				id, err := notifications.Create(ctx, in)
				if err != nil {
					return fmt.Errorf("%s %s: creating %s notification for %s: %w", t.kind, t.key, in.Type, in.RecipientID, err)
				}
				res.NotificationIDs = append(res.NotificationIDs, id)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// advance loads the plan, applies the transition and writes the whole
// document back.
func advance(ctx context.Context, plans repository.PlanRepo, t transition) (*domain.Plan, error) {
	now := time.Now().UTC()
	p, err := plans.Get(ctx, t.key)
	switch {
	case errors.Is(err, repository.ErrNotFound) && t.createIfMissing:
		p = domain.NewPlan(t.key, now)
	case err != nil:
		return nil, err
	}
	if err := t.apply(p, now); err != nil {
		return nil, err
	}
	return plans.Save(ctx, t.key, domain.PatchFrom(p))
}

func (s *workflowService) createNotification(ctx context.Context, in domain.NotificationInput) (string, error) {
	if err := validateStruct(in); err != nil {
		return "", err
	}
	policy := RetryPolicy{Timeout: s.opts.Retry.Timeout}
	if s.opts.Dedupe {
		policy = s.opts.Retry
	}
	return withRetry(ctx, policy, func(ctx context.Context) (string, error) {
		return s.notifications.Create(ctx, in)
	})
}

// mirror copies the plan's new status into the plan_submitted notification
// the reviewer acted from. Any other source is left untouched and only
// produces a warning.
func (s *workflowService) mirror(ctx context.Context, res *app.TransitionResult, actor *domain.User, sourceID string) {
	if sourceID == "" {
		return
	}
	p := res.Plan
	fail := func(err error) {
		s.warn(ctx, res, &app.PartialWorkflowFailure{
			Transition:     res.Transition,
			PlanKey:        p.Key(),
			Op:             "mirroring status into",
			NotificationID: sourceID,
			Err:            err,
		})
	}

	n, err := s.notifications.GetByID(ctx, sourceID)
	if err != nil {
		fail(err)
		return
	}
	if !n.VisibleTo(actor.ID, s.dir.tokens(actor)) {
		fail(fmt.Errorf("notification is not in %s's inbox: %w", actor.ID, repository.ErrNotFound))
		return
	}
	if n.Type != domain.NotifPlanSubmitted {
		fail(fmt.Errorf("notification is a %s, not a submission", n.Type))
		return
	}
	if key, err := domain.ParsePlanLink(s.opts.LinkPrefix, n.Link); err != nil || key != p.Key() {
		fail(fmt.Errorf("notification does not link to plan %s", p.Key()))
		return
	}

	feedback := p.Feedback
	_, err = withRetry(ctx, s.opts.Retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.notifications.UpdateStatus(ctx, sourceID, p.Status, &feedback)
	})
	if err != nil {
		fail(err)
	}
}

func (s *workflowService) warn(ctx context.Context, res *app.TransitionResult, w *app.PartialWorkflowFailure) {
	res.Warnings = append(res.Warnings, w)
	s.logger.WarnContext(ctx, "workflow_notification_failed",
		"transition", string(w.Transition),
		"plan", w.PlanKey.String(),
		"recipient", w.Recipient,
		"type", string(w.NotificationType),
		"notification_id", w.NotificationID,
		"error", w.Err.Error(),
	)
}

func (s *workflowService) notice(p *domain.Plan, actor *domain.User, t domain.NotificationType, recipient, title, message string) domain.NotificationInput {
	in := domain.NotificationInput{
		Type:        t,
		SenderName:  displayName(actor),
		SenderRole:  actor.Role,
		Title:       title,
		Message:     message,
		RecipientID: recipient,
		Link:        domain.PlanLink(s.opts.LinkPrefix, p.Key()),
		Status:      p.Status,
		Feedback:    p.Feedback,
	}
	if s.opts.Dedupe {
		in.DedupeKey = domain.DedupeKey(t, recipient, p.Key(), p.Status, p.Submissions)
	}
	return in
}

func (s *workflowService) fields(key domain.PlanKey, actorID string) map[string]any {
	return map[string]any{
		"plan":        key.String(),
		"actor":       actorID,
		"consistency": string(s.opts.Consistency),
	}
}

func (s *workflowService) recordOutcome(fields map[string]any, res *app.TransitionResult) {
	fields["status"] = string(res.Plan.Status)
	fields["notifications"] = len(res.NotificationIDs)
	fields["warnings"] = len(res.Warnings)
}

func displayName(u *domain.User) string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.ID
}
