package taxes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// Repository provides PostgreSQL backed persistence for tax rates.
type Repository interface {
	List(ctx context.Context, tenantID int64) ([]TaxRate, error)
	Get(ctx context.Context, tenantID, id int64) (TaxRate, error)
	Create(ctx context.Context, t TaxRate) (int64, error)
	Update(ctx context.Context, t TaxRate) error
	ActiveKinds(ctx context.Context, tenantID int64) (map[Kind]bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const taxColumns = `id, tenant_id, name, kind, rate, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, tenantID int64) ([]TaxRate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taxColumns+` FROM tax_rates WHERE tenant_id = $1 ORDER BY kind, name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []TaxRate
	for rows.Next() {
		var t TaxRate
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.Kind, &t.Rate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, t)
	}
	return rates, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (TaxRate, error) {
	var t TaxRate
	err := r.pool.QueryRow(ctx, `SELECT `+taxColumns+` FROM tax_rates WHERE tenant_id = $1 AND id = $2`, tenantID, id).
		Scan(&t.ID, &t.TenantID, &t.Name, &t.Kind, &t.Rate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TaxRate{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, t TaxRate) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO tax_rates (tenant_id, name, kind, rate, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id`,
		t.TenantID, t.Name, t.Kind, t.Rate, t.IsActive).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, t TaxRate) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tax_rates SET name = $1, kind = $2, rate = $3, is_active = $4, updated_at = NOW()
WHERE tenant_id = $5 AND id = $6`,
		t.Name, t.Kind, t.Rate, t.IsActive, t.TenantID, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ActiveKinds reports which GST components currently have an active rate.
func (r *repository) ActiveKinds(ctx context.Context, tenantID int64) (map[Kind]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT kind FROM tax_rates WHERE tenant_id = $1 AND is_active`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kinds := make(map[Kind]bool)
	for rows.Next() {
		var k Kind
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		kinds[k] = true
	}
	return kinds, rows.Err()
}
