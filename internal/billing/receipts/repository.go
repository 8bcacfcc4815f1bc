package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/billing/invoices"
	"github.com/bizledger/bizledger/internal/platform/db"
)

var (
	// ErrNotFound indicates the receipt does not exist for this tenant.
	ErrNotFound = errors.New("receipt not found")
	// ErrParentNotFound indicates the referenced invoice or quotation does
	// not exist for this tenant.
	ErrParentNotFound = errors.New("referenced document not found")
	// ErrExceedsBalance indicates the receipt amount is larger than the
	// parent's outstanding balance.
	ErrExceedsBalance = errors.New("receipt amount exceeds outstanding balance")
)

// Repository provides PostgreSQL backed persistence for receipts. Creation
// and status changes recompute the parent document's balance in the same
// transaction, from the sum of non-rejected receipts; the recompute is
// idempotent, so replaying it can never double-count.
type Repository interface {
	Get(ctx context.Context, tenantID, id int64) (*Receipt, error)
	List(ctx context.Context, req ListReceiptsRequest) ([]Receipt, int, error)
	// CreateAndReconcile inserts the receipt, verifies the amount against
	// the outstanding balance under a row lock and recomputes the parent's
	// paid/balance amounts, all in one transaction. When the idempotency
	// key matches an existing receipt the stored one is returned and
	// created is false.
	CreateAndReconcile(ctx context.Context, rcp Receipt) (id int64, created bool, err error)
	// SetStatusAndReconcile updates the receipt status and recomputes the
	// parent's balance in one transaction. Rejecting a receipt restores
	// the balance it had consumed. The update only applies while the row
	// still holds the from status, so a transition checked against a stale
	// snapshot fails with ErrInvalidStatus instead of silently overwriting
	// a concurrent change.
	SetStatusAndReconcile(ctx context.Context, tenantID, id int64, from, to Status) error
	GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const receiptColumns = `id, tenant_id, receipt_number, invoice_id, quotation_id, client_name, date, amount,
payment_type, payment_method, reference, notes, status, created_at, updated_at`

func scanReceipt(row pgx.Row) (Receipt, error) {
	var rcp Receipt
	err := row.Scan(&rcp.ID, &rcp.TenantID, &rcp.ReceiptNumber, &rcp.InvoiceID, &rcp.QuotationID, &rcp.ClientName,
		&rcp.Date, &rcp.Amount, &rcp.PaymentType, &rcp.PaymentMethod, &rcp.Reference, &rcp.Notes, &rcp.Status,
		&rcp.CreatedAt, &rcp.UpdatedAt)
	return rcp, err
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (*Receipt, error) {
	rcp, err := scanReceipt(r.pool.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rcp, nil
}

func (r *repository) List(ctx context.Context, req ListReceiptsRequest) ([]Receipt, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{req.TenantID}
	argPos := 2

	if req.InvoiceID != nil {
		where += fmt.Sprintf(" AND invoice_id = $%d", argPos)
		args = append(args, *req.InvoiceID)
		argPos++
	}
	if req.QuotationID != nil {
		where += fmt.Sprintf(" AND quotation_id = $%d", argPos)
		args = append(args, *req.QuotationID)
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM receipts "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM receipts %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d",
		receiptColumns, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Receipt
	for rows.Next() {
		rcp, err := scanReceipt(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, rcp)
	}
	return result, total, rows.Err()
}

func (r *repository) CreateAndReconcile(ctx context.Context, rcp Receipt) (int64, bool, error) {
	var (
		id      int64
		created bool
	)
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if rcp.IdempotencyKey != "" {
			err := tx.QueryRow(ctx, `SELECT id FROM receipts WHERE tenant_id = $1 AND idempotency_key = $2`,
				rcp.TenantID, rcp.IdempotencyKey).Scan(&id)
			if err == nil {
				return nil // double submit, serve the stored receipt
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
		}

		grandTotal, err := lockParent(ctx, tx, rcp.TenantID, rcp.InvoiceID, rcp.QuotationID)
		if err != nil {
			return err
		}
		paid, err := countedSum(ctx, tx, rcp.TenantID, rcp.InvoiceID, rcp.QuotationID)
		if err != nil {
			return err
		}
		// Half a paisa of float tolerance; amounts are rounded to 2dp.
		if rcp.Amount > grandTotal-paid+0.005 {
			return fmt.Errorf("%w: %.2f outstanding", ErrExceedsBalance, grandTotal-paid)
		}

		err = tx.QueryRow(ctx, `INSERT INTO receipts (tenant_id, receipt_number, invoice_id, quotation_id, client_name,
date, amount, payment_type, payment_method, reference, notes, status, idempotency_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NOW(), NOW()) RETURNING id`,
			rcp.TenantID, rcp.ReceiptNumber, rcp.InvoiceID, rcp.QuotationID, rcp.ClientName,
			rcp.Date, rcp.Amount, rcp.PaymentType, rcp.PaymentMethod, rcp.Reference, rcp.Notes,
			rcp.Status, rcp.IdempotencyKey).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert receipt: %w", err)
		}
		created = true
		return reconcileParent(ctx, tx, rcp.TenantID, rcp.InvoiceID, rcp.QuotationID)
	})
	return id, created, err
}

func (r *repository) SetStatusAndReconcile(ctx context.Context, tenantID, id int64, from, to Status) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var invoiceID, quotationID *int64
		err := tx.QueryRow(ctx, `UPDATE receipts SET status = $1, updated_at = NOW()
WHERE tenant_id = $2 AND id = $3 AND status = $4 RETURNING invoice_id, quotation_id`, to, tenantID, id, from).
			Scan(&invoiceID, &quotationID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Either the row is gone or another transaction moved
				// the status after the caller took its snapshot.
				var cur Status
				err := tx.QueryRow(ctx, `SELECT status FROM receipts WHERE tenant_id = $1 AND id = $2`,
					tenantID, id).Scan(&cur)
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrNotFound
				}
				if err != nil {
					return err
				}
				return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, cur, to)
			}
			return err
		}
		if _, err := lockParent(ctx, tx, tenantID, invoiceID, quotationID); err != nil {
			return err
		}
		return reconcileParent(ctx, tx, tenantID, invoiceID, quotationID)
	})
}

// lockParent takes a row lock on the parent document and returns its grand
// total. The lock serializes concurrent receipts against the same parent.
func lockParent(ctx context.Context, tx pgx.Tx, tenantID int64, invoiceID, quotationID *int64) (float64, error) {
	var (
		grandTotal float64
		err        error
	)
	switch {
	case invoiceID != nil:
		err = tx.QueryRow(ctx, `SELECT grand_total FROM invoices WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
			tenantID, *invoiceID).Scan(&grandTotal)
	case quotationID != nil:
		err = tx.QueryRow(ctx, `SELECT grand_total FROM quotations WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
			tenantID, *quotationID).Scan(&grandTotal)
	default:
		return 0, ErrParentNotFound
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrParentNotFound
	}
	return grandTotal, err
}

// countedSum totals the non-rejected receipts recorded against the parent.
func countedSum(ctx context.Context, tx pgx.Tx, tenantID int64, invoiceID, quotationID *int64) (float64, error) {
	var (
		paid float64
		err  error
	)
	switch {
	case invoiceID != nil:
		err = tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM receipts
WHERE tenant_id = $1 AND invoice_id = $2 AND status <> $3`, tenantID, *invoiceID, StatusRejected).Scan(&paid)
	case quotationID != nil:
		err = tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM receipts
WHERE tenant_id = $1 AND quotation_id = $2 AND status <> $3`, tenantID, *quotationID, StatusRejected).Scan(&paid)
	}
	return paid, err
}

// reconcileParent recomputes the parent's paid and balance amounts from the
// receipts table. Running it twice with no new receipts is a no-op.
func reconcileParent(ctx context.Context, tx pgx.Tx, tenantID int64, invoiceID, quotationID *int64) error {
	paid, err := countedSum(ctx, tx, tenantID, invoiceID, quotationID)
	if err != nil {
		return err
	}

	switch {
	case invoiceID != nil:
		var balance float64
		err := tx.QueryRow(ctx, `UPDATE invoices SET paid_amount = $1, balance_amount = grand_total - $1, updated_at = NOW()
WHERE tenant_id = $2 AND id = $3 RETURNING balance_amount`, paid, tenantID, *invoiceID).Scan(&balance)
		if err != nil {
			return fmt.Errorf("reconcile invoice: %w", err)
		}
		_, err = tx.Exec(ctx, `UPDATE invoices SET status = $1 WHERE tenant_id = $2 AND id = $3`,
			invoices.StatusFor(balance), tenantID, *invoiceID)
		return err
	case quotationID != nil:
		_, err := tx.Exec(ctx, `UPDATE quotations SET paid_amount = $1, balance_amount = grand_total - $1, updated_at = NOW()
WHERE tenant_id = $2 AND id = $3`, paid, tenantID, *quotationID)
		if err != nil {
			return fmt.Errorf("reconcile quotation: %w", err)
		}
		return nil
	}
	return nil
}

func (r *repository) GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `INSERT INTO document_sequences (tenant_id, doc_type, period, seq)
VALUES ($1, $2, $3, 1)
ON CONFLICT (tenant_id, doc_type, period)
DO UPDATE SET seq = document_sequences.seq + 1
RETURNING seq`, tenantID, "RCP", date.Format("200601")).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RCP-%s-%04d", date.Format("0601"), seq), nil
}
