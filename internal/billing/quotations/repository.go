package quotations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	billing "github.com/bizledger/bizledger/internal/billing/shared"
	"github.com/bizledger/bizledger/internal/platform/db"
)

// ErrNotFound indicates the quotation does not exist for this tenant.
var ErrNotFound = errors.New("quotation not found")

// Repository provides PostgreSQL backed persistence for quotations.
type Repository interface {
	Get(ctx context.Context, tenantID, id int64) (*Quotation, error)
	List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error)
	Create(ctx context.Context, q Quotation) (int64, error)
	UpdateDocument(ctx context.Context, q Quotation) error
	UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error
	SetActive(ctx context.Context, tenantID, id int64, active bool) error
	GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error)
	MarkExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const quotationColumns = `id, tenant_id, quotation_number, client_id, client_name, client_email, client_phone, client_address, client_gst,
date, validity, grand_total, paid_amount, balance_amount, status, is_active, sales_invoice_id, converted_at, created_at, updated_at`

func scanQuotation(row pgx.Row) (Quotation, error) {
	var q Quotation
	err := row.Scan(&q.ID, &q.TenantID, &q.QuotationNumber, &q.ClientID, &q.ClientName, &q.ClientEmail, &q.ClientPhone,
		&q.ClientAddress, &q.ClientGST, &q.Date, &q.Validity, &q.GrandTotal, &q.PaidAmount, &q.BalanceAmount,
		&q.Status, &q.IsActive, &q.SalesInvoiceID, &q.ConvertedAt, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (*Quotation, error) {
	q, err := scanQuotation(r.pool.QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	q.Items, err = r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repository) lines(ctx context.Context, quotationID int64) ([]billing.Line, error) {
	rows, err := r.pool.Query(ctx, `SELECT item_id, item_name, description, quantity, price, discount,
cgst, sgst, igst, tax_rate, amount, tax_amount, total
FROM quotation_items WHERE quotation_id = $1 ORDER BY line_order`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []billing.Line
	for rows.Next() {
		var l billing.Line
		if err := rows.Scan(&l.ItemID, &l.ItemName, &l.Description, &l.Quantity, &l.Price, &l.Discount,
			&l.CGST, &l.SGST, &l.IGST, &l.TaxRate, &l.Amount, &l.TaxAmount, &l.Total); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{req.TenantID}
	argPos := 2

	if req.ClientID != nil {
		where += fmt.Sprintf(" AND client_id = $%d", argPos)
		args = append(args, *req.ClientID)
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quotations "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM quotations %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d",
		quotationColumns, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, q)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO quotations (tenant_id, quotation_number, client_id, client_name, client_email,
client_phone, client_address, client_gst, date, validity, grand_total, paid_amount, balance_amount, status, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW()) RETURNING id`,
			q.TenantID, q.QuotationNumber, q.ClientID, q.ClientName, q.ClientEmail,
			q.ClientPhone, q.ClientAddress, q.ClientGST, q.Date, q.Validity,
			q.GrandTotal, q.PaidAmount, q.BalanceAmount, q.Status, q.IsActive).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert quotation: %w", err)
		}
		return insertLines(ctx, tx, id, q.Items)
	})
	return id, err
}

func (r *repository) UpdateDocument(ctx context.Context, q Quotation) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE quotations SET date = $1, validity = $2, grand_total = $3,
balance_amount = $4, updated_at = NOW() WHERE tenant_id = $5 AND id = $6`,
			q.Date, q.Validity, q.GrandTotal, q.BalanceAmount, q.TenantID, q.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, q.ID); err != nil {
			return err
		}
		return insertLines(ctx, tx, q.ID, q.Items)
	})
}

func insertLines(ctx context.Context, tx pgx.Tx, quotationID int64, lines []billing.Line) error {
	for i, l := range lines {
		_, err := tx.Exec(ctx, `INSERT INTO quotation_items (quotation_id, item_id, item_name, description, quantity,
price, discount, cgst, sgst, igst, tax_rate, amount, tax_amount, total, line_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			quotationID, l.ItemID, l.ItemName, l.Description, l.Quantity,
			l.Price, l.Discount, l.CGST, l.SGST, l.IGST, l.TaxRate, l.Amount, l.TaxAmount, l.Total, i+1)
		if err != nil {
			return fmt.Errorf("insert quotation line: %w", err)
		}
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE quotations SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE quotations SET is_active = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`,
		active, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber allocates the next QT number for the tenant's month, e.g.
// QT-2608-0042.
func (r *repository) GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `INSERT INTO document_sequences (tenant_id, doc_type, period, seq)
VALUES ($1, $2, $3, 1)
ON CONFLICT (tenant_id, doc_type, period)
DO UPDATE SET seq = document_sequences.seq + 1
RETURNING seq`, tenantID, "QT", date.Format("200601")).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%s-%04d", date.Format("0601"), seq), nil
}

// MarkExpired persists the expired status for created quotations whose
// validity date lies strictly before the given day. Used by the scheduled
// sweep; reads never serve the stale status either way.
func (r *repository) MarkExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quotations SET status = $1, updated_at = NOW() WHERE status = $2 AND validity < $3`,
		StatusExpired, StatusCreated, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
