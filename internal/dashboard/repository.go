package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the aggregate reader. Queries run against the
// documents the billing packages maintain; the pool serializes nothing, so
// the fan-out really does run them concurrently.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) RevenueReceived(ctx context.Context, tenantID int64, rng Range) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM receipts
WHERE tenant_id = $1 AND status <> 'rejected' AND date >= $2 AND date < $3`,
		tenantID, rng.From, rng.End()).Scan(&sum)
	return sum, err
}

// Outstanding is a point-in-time figure, not a range aggregate: the sum of
// every open invoice balance right now.
func (r *repository) Outstanding(ctx context.Context, tenantID int64) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(balance_amount), 0) FROM invoices
WHERE tenant_id = $1 AND is_active AND balance_amount > 0`, tenantID).Scan(&sum)
	return sum, err
}

func (r *repository) Expenses(ctx context.Context, tenantID int64, rng Range) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments
WHERE tenant_id = $1 AND status = 'completed' AND date >= $2 AND date < $3`,
		tenantID, rng.From, rng.End()).Scan(&sum)
	return sum, err
}

func (r *repository) QuotationCount(ctx context.Context, tenantID int64, rng Range) (int64, error) {
	return r.countInRange(ctx, `SELECT COUNT(*) FROM quotations WHERE tenant_id = $1 AND date >= $2 AND date < $3`, tenantID, rng)
}

func (r *repository) InvoiceCount(ctx context.Context, tenantID int64, rng Range) (int64, error) {
	return r.countInRange(ctx, `SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND date >= $2 AND date < $3`, tenantID, rng)
}

func (r *repository) ReceiptCount(ctx context.Context, tenantID int64, rng Range) (int64, error) {
	return r.countInRange(ctx, `SELECT COUNT(*) FROM receipts WHERE tenant_id = $1 AND date >= $2 AND date < $3`, tenantID, rng)
}

func (r *repository) PaymentCount(ctx context.Context, tenantID int64, rng Range) (int64, error) {
	return r.countInRange(ctx, `SELECT COUNT(*) FROM payments WHERE tenant_id = $1 AND date >= $2 AND date < $3`, tenantID, rng)
}

func (r *repository) ClientCount(ctx context.Context, tenantID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE tenant_id = $1 AND status = 'active'`, tenantID).Scan(&n)
	return n, err
}

func (r *repository) countInRange(ctx context.Context, query string, tenantID int64, rng Range) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, query, tenantID, rng.From, rng.End()).Scan(&n)
	return n, err
}
