package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// Repository provides PostgreSQL backed persistence for catalog items.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters, itemType *ItemType) ([]Item, int, error)
	Get(ctx context.Context, tenantID, id int64) (Item, error)
	Create(ctx context.Context, item Item) (int64, error)
	Update(ctx context.Context, item Item) error
	SetActive(ctx context.Context, tenantID, id int64, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const itemColumns = `id, tenant_id, name, type, description, price, apply_tax, cgst, sgst, igst, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters, itemType *ItemType) ([]Item, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{filters.TenantID}
	argPos := 2

	if itemType != nil {
		where += fmt.Sprintf(" AND type = $%d", argPos)
		args = append(args, *itemType)
		argPos++
	}
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM items "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM items %s ORDER BY name LIMIT $%d OFFSET $%d", itemColumns, where, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.TenantID, &it.Name, &it.Type, &it.Description, &it.Price,
			&it.ApplyTax, &it.CGST, &it.SGST, &it.IGST, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, it)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx, "SELECT "+itemColumns+" FROM items WHERE tenant_id = $1 AND id = $2", tenantID, id).
		Scan(&it.ID, &it.TenantID, &it.Name, &it.Type, &it.Description, &it.Price,
			&it.ApplyTax, &it.CGST, &it.SGST, &it.IGST, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, shared.ErrNotFound
	}
	return it, err
}

func (r *repository) Create(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO items (tenant_id, name, type, description, price, apply_tax, cgst, sgst, igst, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()) RETURNING id`,
		item.TenantID, item.Name, item.Type, item.Description, item.Price,
		item.ApplyTax, item.CGST, item.SGST, item.IGST, item.IsActive).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, item Item) error {
	tag, err := r.pool.Exec(ctx, `UPDATE items SET name = $1, type = $2, description = $3, price = $4,
apply_tax = $5, cgst = $6, sgst = $7, igst = $8, updated_at = NOW()
WHERE tenant_id = $9 AND id = $10`,
		item.Name, item.Type, item.Description, item.Price,
		item.ApplyTax, item.CGST, item.SGST, item.IGST, item.TenantID, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE items SET is_active = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`, active, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
