// Package banks is the bank-account registry. Accounts are snapshotted onto
// invoices at creation time; editing an account never rewrites past documents.
package banks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// Account is a registry entry holding the details printed on invoices.
type Account struct {
	ID            int64     `json:"id"`
	TenantID      int64     `json:"tenant_id"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
	BankName      string    `json:"bank_name"`
	IFSC          string    `json:"ifsc"`
	Branch        string    `json:"branch"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountRequest is the create/update payload.
type AccountRequest struct {
	AccountName   string `json:"account_name" validate:"required,max=200"`
	AccountNumber string `json:"account_number" validate:"required,numeric,min=9,max=18"`
	BankName      string `json:"bank_name" validate:"required,max=200"`
	IFSC          string `json:"ifsc" validate:"required,len=11,alphanum"`
	Branch        string `json:"branch" validate:"max=200"`
	IsDefault     bool   `json:"is_default"`
}

// Repository provides PostgreSQL backed persistence for bank accounts.
type Repository interface {
	List(ctx context.Context, tenantID int64) ([]Account, error)
	Get(ctx context.Context, tenantID, id int64) (Account, error)
	Create(ctx context.Context, a Account) (int64, error)
	Update(ctx context.Context, a Account) error
	Delete(ctx context.Context, tenantID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = `id, tenant_id, account_name, account_number, bank_name, ifsc, branch, is_default, created_at, updated_at`

func (r *repository) List(ctx context.Context, tenantID int64) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE tenant_id = $1 ORDER BY is_default DESC, account_name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.TenantID, &a.AccountName, &a.AccountNumber, &a.BankName,
			&a.IFSC, &a.Branch, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE tenant_id = $1 AND id = $2`, tenantID, id).
		Scan(&a.ID, &a.TenantID, &a.AccountName, &a.AccountNumber, &a.BankName,
			&a.IFSC, &a.Branch, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, shared.ErrNotFound
	}
	return a, err
}

func (r *repository) Create(ctx context.Context, a Account) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO bank_accounts (tenant_id, account_name, account_number, bank_name, ifsc, branch, is_default, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id`,
		a.TenantID, a.AccountName, a.AccountNumber, a.BankName, a.IFSC, a.Branch, a.IsDefault).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, a Account) error {
	tag, err := r.pool.Exec(ctx, `UPDATE bank_accounts SET account_name = $1, account_number = $2, bank_name = $3, ifsc = $4, branch = $5, is_default = $6, updated_at = NOW()
WHERE tenant_id = $7 AND id = $8`,
		a.AccountName, a.AccountNumber, a.BankName, a.IFSC, a.Branch, a.IsDefault, a.TenantID, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bank_accounts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
