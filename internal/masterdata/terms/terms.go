// Package terms is the terms-and-conditions registry. The default entry's
// text is snapshotted onto invoices at creation time.
package terms

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// Terms is a reusable terms-and-conditions block.
type Terms struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TermsRequest is the create/update payload.
type TermsRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"required,max=10000"`
	IsDefault bool   `json:"is_default"`
}

// Repository provides PostgreSQL backed persistence for terms.
type Repository interface {
	List(ctx context.Context, tenantID int64) ([]Terms, error)
	Get(ctx context.Context, tenantID, id int64) (Terms, error)
	GetDefault(ctx context.Context, tenantID int64) (Terms, error)
	Create(ctx context.Context, t Terms) (int64, error)
	Update(ctx context.Context, t Terms) error
	Delete(ctx context.Context, tenantID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const termsColumns = `id, tenant_id, title, body, is_default, created_at, updated_at`

func (r *repository) List(ctx context.Context, tenantID int64) ([]Terms, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+termsColumns+` FROM terms WHERE tenant_id = $1 ORDER BY is_default DESC, title`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Terms
	for rows.Next() {
		var t Terms
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Title, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Terms, error) {
	var t Terms
	err := r.pool.QueryRow(ctx, `SELECT `+termsColumns+` FROM terms WHERE tenant_id = $1 AND id = $2`, tenantID, id).
		Scan(&t.ID, &t.TenantID, &t.Title, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Terms{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) GetDefault(ctx context.Context, tenantID int64) (Terms, error) {
	var t Terms
	err := r.pool.QueryRow(ctx, `SELECT `+termsColumns+` FROM terms WHERE tenant_id = $1 AND is_default LIMIT 1`, tenantID).
		Scan(&t.ID, &t.TenantID, &t.Title, &t.Body, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Terms{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, t Terms) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO terms (tenant_id, title, body, is_default, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id`,
		t.TenantID, t.Title, t.Body, t.IsDefault).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, t Terms) error {
	tag, err := r.pool.Exec(ctx, `UPDATE terms SET title = $1, body = $2, is_default = $3, updated_at = NOW()
WHERE tenant_id = $4 AND id = $5`, t.Title, t.Body, t.IsDefault, t.TenantID, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM terms WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
