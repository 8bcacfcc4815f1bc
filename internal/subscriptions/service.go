package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPlanInactive rejects activation of a retired plan.
var ErrPlanInactive = errors.New("plan is not available")

type Service struct {
	repo        Repository
	trialPeriod time.Duration
	now         func() time.Time
}

func NewService(repo Repository, trialPeriod time.Duration) *Service {
	return &Service{repo: repo, trialPeriod: trialPeriod, now: time.Now}
}

// StartTrial begins the trial for a freshly registered tenant. Called from
// the registration flow.
func (s *Service) StartTrial(ctx context.Context, tenantID int64) error {
	now := s.now()
	return s.repo.Upsert(ctx, Subscription{
		TenantID:  tenantID,
		Status:    StatusTrialing,
		StartedAt: now,
		RenewsAt:  now.Add(s.trialPeriod),
	})
}

// Activate puts the tenant on a paid plan. The renewal date runs one billing
// cycle from now.
func (s *Service) Activate(ctx context.Context, tenantID, planID int64) (*Subscription, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	now := s.now()
	renewsAt := now.AddDate(0, 1, 0)
	if plan.BillingCycle == CycleYearly {
		renewsAt = now.AddDate(1, 0, 0)
	}
	sub := Subscription{
		TenantID:  tenantID,
		PlanID:    &plan.ID,
		Status:    StatusActive,
		StartedAt: now,
		RenewsAt:  renewsAt,
	}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("activate subscription: %w", err)
	}
	return s.repo.GetByTenant(ctx, tenantID)
}

// Current returns the tenant's subscription, stamping expired on read when
// the renewal date has passed and the sweep has not caught up yet.
func (s *Service) Current(ctx context.Context, tenantID int64) (*Subscription, error) {
	sub, err := s.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if sub.Lapsed(s.now()) {
		sub.Status = StatusExpired
	}
	return sub, nil
}

func (s *Service) Plans(ctx context.Context) ([]Plan, error) {
	return s.repo.ListPlans(ctx)
}

// ExpireLapsed is the scheduled sweep behind the subscription:expire_sweep
// task.
func (s *Service) ExpireLapsed(ctx context.Context) (int64, error) {
	return s.repo.ExpireLapsed(ctx, s.now())
}
