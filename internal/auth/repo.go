package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/platform/db"
	"github.com/bizledger/bizledger/internal/shared"
)

var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrCompanyTaken indicates the company name is already registered.
	ErrCompanyTaken = errors.New("company name already registered")
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	// RegisterTenant inserts the tenant and its owner user in one
	// transaction.
	RegisterTenant(ctx context.Context, tenant Tenant, owner User) (tenantID, userID int64, err error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	CompanyExists(ctx context.Context, companyName string) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, tenant_id, name, email, password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindUserByEmail fetches a user by email, case-insensitively.
func (r *PGRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

// FindUserByID fetches a user by primary key.
func (r *PGRepository) FindUserByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// RegisterTenant creates the business account and its owner together; a
// partial registration never survives.
func (r *PGRepository) RegisterTenant(ctx context.Context, tenant Tenant, owner User) (int64, int64, error) {
	var tenantID, userID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO tenants (company_name, email, phone, address, gst, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id`,
			tenant.CompanyName, tenant.Email, tenant.Phone, tenant.Address, tenant.GST).Scan(&tenantID)
		if err != nil {
			return fmt.Errorf("insert tenant: %w", mapRegistrationConflict(err))
		}
		err = tx.QueryRow(ctx, `INSERT INTO users (tenant_id, name, email, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW()) RETURNING id`,
			tenantID, owner.Name, owner.Email, owner.PasswordHash, owner.Role).Scan(&userID)
		if err != nil {
			return fmt.Errorf("insert owner: %w", mapRegistrationConflict(err))
		}
		return nil
	})
	return tenantID, userID, err
}

func mapRegistrationConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "tenants_company_name_key":
			return ErrCompanyTaken
		default:
			return ErrEmailTaken
		}
	}
	return err
}

// EmailExists reports whether any user account carries the email.
func (r *PGRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, err
}

// PhoneExists reports whether a tenant already registered the phone number.
func (r *PGRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenants WHERE phone = $1)`, phone).Scan(&exists)
	return exists, err
}

// CompanyExists reports whether a tenant already uses the company name.
func (r *PGRepository) CompanyExists(ctx context.Context, companyName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenants WHERE lower(company_name) = lower($1))`, companyName).Scan(&exists)
	return exists, err
}

var _ Repository = (*PGRepository)(nil)
