package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/shared"
)

// ErrNoSubscription indicates the tenant has no subscription row at all.
var ErrNoSubscription = errors.New("tenant has no subscription")

// Repository provides PostgreSQL backed persistence for plans and
// subscriptions.
type Repository interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id int64) (Plan, error)
	GetByTenant(ctx context.Context, tenantID int64) (*Subscription, error)
	// Upsert writes the tenant's single subscription row.
	Upsert(ctx context.Context, sub Subscription) error
	// ExpireLapsed stamps expired on every subscription whose renewal date
	// lies before the given moment.
	ExpireLapsed(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price, billing_cycle, features, is_active, created_at, updated_at
FROM plans WHERE is_active ORDER BY price`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.BillingCycle, &p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) GetPlan(ctx context.Context, id int64) (Plan, error) {
	var p Plan
	err := r.pool.QueryRow(ctx, `SELECT id, name, price, billing_cycle, features, is_active, created_at, updated_at
FROM plans WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.BillingCycle, &p.Features, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) GetByTenant(ctx context.Context, tenantID int64) (*Subscription, error) {
	var sub Subscription
	err := r.pool.QueryRow(ctx, `SELECT s.id, s.tenant_id, s.plan_id, COALESCE(p.name, ''), s.status, s.started_at, s.renews_at, s.created_at, s.updated_at
FROM subscriptions s LEFT JOIN plans p ON p.id = s.plan_id
WHERE s.tenant_id = $1`, tenantID).
		Scan(&sub.ID, &sub.TenantID, &sub.PlanID, &sub.PlanName, &sub.Status, &sub.StartedAt, &sub.RenewsAt, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) Upsert(ctx context.Context, sub Subscription) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO subscriptions (tenant_id, plan_id, status, started_at, renews_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
ON CONFLICT (tenant_id)
DO UPDATE SET plan_id = EXCLUDED.plan_id, status = EXCLUDED.status, started_at = EXCLUDED.started_at,
renews_at = EXCLUDED.renews_at, updated_at = NOW()`,
		sub.TenantID, sub.PlanID, sub.Status, sub.StartedAt, sub.RenewsAt)
	return err
}

func (r *repository) ExpireLapsed(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE subscriptions SET status = $1, updated_at = NOW()
WHERE status <> $1 AND renews_at < $2`, StatusExpired, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
