package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
)

var errUnavailable = fmt.Errorf("test: %w", repository.ErrStorageUnavailable)

// failingNotificationRepo fails selected Create calls. failOn lists 1-based
// call numbers; an empty list fails every call.
type failingNotificationRepo struct {
	repository.NotificationRepo
	failOn           []int
	err              error
	failUpdateStatus bool

	mu      sync.Mutex
	creates int
}

func (r *failingNotificationRepo) Create(ctx context.Context, in domain.NotificationInput) (string, error) {
	r.mu.Lock()
	r.creates++
	n := r.creates
	r.mu.Unlock()

	if r.shouldFail(n) {
		return "", r.err
	}
	return r.NotificationRepo.Create(ctx, in)
}

func (r *failingNotificationRepo) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus, feedback *string) error {
	if r.failUpdateStatus {
		return r.err
	}
	return r.NotificationRepo.UpdateStatus(ctx, id, status, feedback)
}

func (r *failingNotificationRepo) shouldFail(n int) bool {
	if len(r.failOn) == 0 {
		return true
	}
	for _, f := range r.failOn {
		if f == n {
			return true
		}
	}
	return false
}

// lostAckNotificationRepo stores the row but reports a transient failure
// on the first Create, like a write whose acknowledgement was lost.
type lostAckNotificationRepo struct {
	repository.NotificationRepo
	lost bool
}

func (r *lostAckNotificationRepo) Create(ctx context.Context, in domain.NotificationInput) (string, error) {
	id, err := r.NotificationRepo.Create(ctx, in)
	if err != nil {
		return "", err
	}
	if !r.lost {
		r.lost = true
		return "", errUnavailable
	}
	return id, nil
}

// flakyPlanRepo fails the first failures Save calls with err.
type flakyPlanRepo struct {
	repository.PlanRepo
	failures int
	err      error

	mu    sync.Mutex
	saves int
}

func (r *flakyPlanRepo) Save(ctx context.Context, key domain.PlanKey, patch domain.PlanPatch) (*domain.Plan, error) {
	r.mu.Lock()
	r.saves++
	n := r.saves
	r.mu.Unlock()

	if n <= r.failures {
		return nil, r.err
	}
	return r.PlanRepo.Save(ctx, key, patch)
}

// statusRecorder records the stored plan status at the moment each
// notification is created.
type statusRecorder struct {
	repository.NotificationRepo
	plans repository.PlanRepo

	observed []writeRecord
}

type writeRecord struct {
	notified domain.PlanStatus
	stored   domain.PlanStatus
}

func (r *statusRecorder) Create(ctx context.Context, in domain.NotificationInput) (string, error) {
	key, err := domain.ParsePlanLink("", in.Link)
	if err != nil {
		return "", err
	}
	p, err := r.plans.Get(ctx, key)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	rec := writeRecord{notified: in.Status}
	if p != nil {
		rec.stored = p.Status
	}
	r.observed = append(r.observed, rec)
	return r.NotificationRepo.Create(ctx, in)
}
