package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// Repository provides PostgreSQL backed persistence for clients.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error)
	Get(ctx context.Context, tenantID, id int64) (Client, error)
	Create(ctx context.Context, c Client) (int64, error)
	Update(ctx context.Context, c Client) error
	SetStatus(ctx context.Context, tenantID, id int64, status Status) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const clientColumns = `id, tenant_id, type, name, company_name, email, phone, address, state, city, pincode, gst, pan, status, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.TenantID, &c.Type, &c.Name, &c.CompanyName, &c.Email, &c.Phone,
		&c.Address, &c.State, &c.City, &c.Pincode, &c.GST, &c.PAN, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{filters.TenantID}
	argPos := 2

	if filters.IsActive != nil {
		status := StatusInactive
		if *filters.IsActive {
			status = StatusActive
		}
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, status)
		argPos++
	}
	if filters.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR company_name ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM clients "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM clients %s ORDER BY name LIMIT $%d OFFSET $%d", clientColumns, where, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, "SELECT "+clientColumns+" FROM clients WHERE tenant_id = $1 AND id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, c Client) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO clients (tenant_id, type, name, company_name, email, phone, address, state, city, pincode, gst, pan, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW()) RETURNING id`,
		c.TenantID, c.Type, c.Name, c.CompanyName, c.Email, c.Phone,
		c.Address, c.State, c.City, c.Pincode, c.GST, c.PAN, c.Status).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, c Client) error {
	tag, err := r.pool.Exec(ctx, `UPDATE clients SET type = $1, name = $2, company_name = $3, email = $4, phone = $5,
address = $6, state = $7, city = $8, pincode = $9, gst = $10, pan = $11, updated_at = NOW()
WHERE tenant_id = $12 AND id = $13`,
		c.Type, c.Name, c.CompanyName, c.Email, c.Phone,
		c.Address, c.State, c.City, c.Pincode, c.GST, c.PAN, c.TenantID, c.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, tenantID, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE clients SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// mapUniqueViolation turns the (tenant_id, phone) / (tenant_id, email) unique
// index violations into the duplicate sentinel; the constraint, not the
// availability probe, is the source of truth for uniqueness.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
