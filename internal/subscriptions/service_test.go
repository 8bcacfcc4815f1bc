package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizledger/bizledger/internal/shared"
)

type mockRepo struct {
	plans map[int64]Plan
	subs  map[int64]*Subscription
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		plans: map[int64]Plan{
			1: {ID: 1, Name: "Starter", Price: 499, BillingCycle: CycleMonthly, IsActive: true},
			2: {ID: 2, Name: "Business", Price: 4990, BillingCycle: CycleYearly, IsActive: true},
			3: {ID: 3, Name: "Legacy", Price: 99, BillingCycle: CycleMonthly, IsActive: false},
		},
		subs: make(map[int64]*Subscription),
	}
}

func (m *mockRepo) ListPlans(ctx context.Context) ([]Plan, error) {
	var result []Plan
	for _, p := range m.plans {
		if p.IsActive {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepo) GetPlan(ctx context.Context, id int64) (Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return Plan{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) GetByTenant(ctx context.Context, tenantID int64) (*Subscription, error) {
	sub, ok := m.subs[tenantID]
	if !ok {
		return nil, ErrNoSubscription
	}
	cp := *sub
	if cp.PlanID != nil {
		cp.PlanName = m.plans[*cp.PlanID].Name
	}
	return &cp, nil
}

func (m *mockRepo) Upsert(ctx context.Context, sub Subscription) error {
	m.subs[sub.TenantID] = &sub
	return nil
}

func (m *mockRepo) ExpireLapsed(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for _, sub := range m.subs {
		if sub.Status != StatusExpired && sub.RenewsAt.Before(before) {
			sub.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

func newTestService() (*Service, *mockRepo, time.Time) {
	repo := newMockRepo()
	svc := NewService(repo, 14*24*time.Hour)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo, now
}

func TestStartTrial(t *testing.T) {
	svc, repo, now := newTestService()

	require.NoError(t, svc.StartTrial(context.Background(), 7))

	sub := repo.subs[7]
	require.NotNil(t, sub)
	assert.Equal(t, StatusTrialing, sub.Status)
	assert.Nil(t, sub.PlanID)
	assert.Equal(t, now.Add(14*24*time.Hour), sub.RenewsAt)
}

func TestActivateMonthlyAndYearly(t *testing.T) {
	svc, _, now := newTestService()

	monthly, err := svc.Activate(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, monthly.Status)
	assert.Equal(t, "Starter", monthly.PlanName)
	assert.Equal(t, now.AddDate(0, 1, 0), monthly.RenewsAt)

	yearly, err := svc.Activate(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(1, 0, 0), yearly.RenewsAt)
}

func TestActivateRejectsRetiredPlan(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Activate(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrPlanInactive)

	_, err = svc.Activate(context.Background(), 7, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCurrentStampsExpiredOnRead(t *testing.T) {
	svc, repo, now := newTestService()
	require.NoError(t, svc.StartTrial(context.Background(), 7))

	svc.now = func() time.Time { return now.Add(15 * 24 * time.Hour) }

	sub, err := svc.Current(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, sub.Status)
	// The stored row is untouched until the sweep runs.
	assert.Equal(t, StatusTrialing, repo.subs[7].Status)
}

func TestExpireLapsed(t *testing.T) {
	svc, repo, now := newTestService()
	require.NoError(t, svc.StartTrial(context.Background(), 7))
	require.NoError(t, svc.StartTrial(context.Background(), 8))

	svc.now = func() time.Time { return now.Add(20 * 24 * time.Hour) }

	n, err := svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, StatusExpired, repo.subs[7].Status)

	// Idempotent: nothing left to expire.
	n, err = svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
