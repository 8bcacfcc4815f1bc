// Package roles holds ad-hoc job roles referenced by employee records. Roles
// are the one registry with true deletion; everything else soft-disables.
package roles

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// ErrInUse indicates employees still reference the role.
var ErrInUse = errors.New("role is referenced by employees")

// Role is a job title employees point at.
type Role struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleRequest is the create/update payload.
type RoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Repository provides PostgreSQL backed persistence for roles.
type Repository interface {
	List(ctx context.Context, tenantID int64) ([]Role, error)
	Get(ctx context.Context, tenantID, id int64) (Role, error)
	Create(ctx context.Context, role Role) (int64, error)
	Update(ctx context.Context, role Role) error
	Delete(ctx context.Context, tenantID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const roleColumns = `id, tenant_id, name, description, created_at, updated_at`

func (r *repository) List(ctx context.Context, tenantID int64) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.TenantID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE tenant_id = $1 AND id = $2`, tenantID, id).
		Scan(&role.ID, &role.TenantID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, shared.ErrNotFound
	}
	return role, err
}

func (r *repository) Create(ctx context.Context, role Role) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO roles (tenant_id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id`, role.TenantID, role.Name, role.Description).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, role Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE roles SET name = $1, description = $2, updated_at = NOW()
WHERE tenant_id = $3 AND id = $4`, role.Name, role.Description, role.TenantID, role.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the role for good. A foreign-key violation surfaces as
// ErrInUse so the handler can answer with a conflict instead of a 500.
func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
