package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the payment does not exist for this tenant.
var ErrNotFound = errors.New("payment not found")

// Repository provides PostgreSQL backed persistence for payments.
type Repository interface {
	Get(ctx context.Context, tenantID, id int64) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error)
	Create(ctx context.Context, p Payment) (int64, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error
	GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const paymentColumns = `id, tenant_id, payment_number, recipient_type, recipient_id, recipient_name, date, amount,
category, payment_method, reference, notes, status, created_at, updated_at`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.TenantID, &p.PaymentNumber, &p.RecipientType, &p.RecipientID, &p.RecipientName,
		&p.Date, &p.Amount, &p.Category, &p.PaymentMethod, &p.Reference, &p.Notes, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (*Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{req.TenantID}
	argPos := 2

	if req.Category != nil {
		where += fmt.Sprintf(" AND category = $%d", argPos)
		args = append(args, *req.Category)
		argPos++
	}
	if req.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		where += fmt.Sprintf(" AND date >= $%d", argPos)
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		where += fmt.Sprintf(" AND date <= $%d", argPos)
		args = append(args, *req.DateTo)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM payments "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM payments %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d",
		paymentColumns, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO payments (tenant_id, payment_number, recipient_type, recipient_id,
recipient_name, date, amount, category, payment_method, reference, notes, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()) RETURNING id`,
		p.TenantID, p.PaymentNumber, p.RecipientType, p.RecipientID,
		p.RecipientName, p.Date, p.Amount, p.Category, p.PaymentMethod, p.Reference, p.Notes, p.Status).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	return id, nil
}

func (r *repository) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payments SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `INSERT INTO document_sequences (tenant_id, doc_type, period, seq)
VALUES ($1, $2, $3, 1)
ON CONFLICT (tenant_id, doc_type, period)
DO UPDATE SET seq = document_sequences.seq + 1
RETURNING seq`, tenantID, "PAY", date.Format("200601")).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%s-%04d", date.Format("0601"), seq), nil
}
