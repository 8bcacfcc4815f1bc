package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// Repository provides PostgreSQL backed persistence for vendors.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Vendor, int, error)
	Get(ctx context.Context, tenantID, id int64) (Vendor, error)
	Create(ctx context.Context, v Vendor) (int64, error)
	Update(ctx context.Context, v Vendor) error
	SetActive(ctx context.Context, tenantID, id int64, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const vendorColumns = `id, tenant_id, name, email, phone, address, gst, category, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Vendor, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{filters.TenantID}
	argPos := 2

	if filters.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argPos)
		args = append(args, *filters.IsActive)
		argPos++
	}
	if filters.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vendors "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM vendors %s ORDER BY name LIMIT $%d OFFSET $%d", vendorColumns, where, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.TenantID, &v.Name, &v.Email, &v.Phone, &v.Address,
			&v.GST, &v.Category, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, v)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Vendor, error) {
	var v Vendor
	err := r.pool.QueryRow(ctx, "SELECT "+vendorColumns+" FROM vendors WHERE tenant_id = $1 AND id = $2", tenantID, id).
		Scan(&v.ID, &v.TenantID, &v.Name, &v.Email, &v.Phone, &v.Address,
			&v.GST, &v.Category, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vendor{}, shared.ErrNotFound
	}
	return v, err
}

func (r *repository) Create(ctx context.Context, v Vendor) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO vendors (tenant_id, name, email, phone, address, gst, category, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id`,
		v.TenantID, v.Name, v.Email, v.Phone, v.Address, v.GST, v.Category, v.IsActive).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, v Vendor) error {
	tag, err := r.pool.Exec(ctx, `UPDATE vendors SET name = $1, email = $2, phone = $3, address = $4, gst = $5, category = $6, updated_at = NOW()
WHERE tenant_id = $7 AND id = $8`,
		v.Name, v.Email, v.Phone, v.Address, v.GST, v.Category, v.TenantID, v.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// mapUniqueViolation turns the (tenant_id, email) unique index violation into
// the duplicate sentinel so callers answer 409 instead of 500.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

func (r *repository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE vendors SET is_active = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`, active, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
