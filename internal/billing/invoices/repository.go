package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/billing/quotations"
	"github.com/bizledger/bizledger/internal/platform/db"
)

var (
	// ErrNotFound indicates the invoice does not exist for this tenant.
	ErrNotFound = errors.New("invoice not found")
	// ErrQuotationNotConvertible indicates the quotation was not in the
	// accepted state at conversion time.
	ErrQuotationNotConvertible = errors.New("quotation is not accepted")
)

// Repository provides PostgreSQL backed persistence for invoices.
type Repository interface {
	Get(ctx context.Context, tenantID, id int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	Create(ctx context.Context, inv Invoice) (int64, error)
	// CreateConverted inserts the invoice and stamps the source quotation
	// `invoice created` in one transaction. The stamp guards on the
	// quotation still being accepted, so a concurrent double conversion
	// loses the race and rolls back.
	CreateConverted(ctx context.Context, inv Invoice, quotationID int64) (int64, error)
	UpdateDocument(ctx context.Context, inv Invoice) error
	SetActive(ctx context.Context, tenantID, id int64, active bool) error
	GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const invoiceColumns = `id, tenant_id, invoice_number, quotation_id, client_id, client_name, client_email, client_phone,
client_address, client_gst, date, due_date, grand_total, paid_amount, balance_amount, status,
bank_account_name, bank_account_number, bank_name, bank_ifsc, bank_branch, terms, notes, is_active, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.InvoiceNumber, &inv.QuotationID, &inv.ClientID, &inv.ClientName,
		&inv.ClientEmail, &inv.ClientPhone, &inv.ClientAddress, &inv.ClientGST, &inv.Date, &inv.DueDate,
		&inv.GrandTotal, &inv.PaidAmount, &inv.BalanceAmount, &inv.Status,
		&inv.Bank.AccountName, &inv.Bank.AccountNumber, &inv.Bank.BankName, &inv.Bank.IFSC, &inv.Bank.Branch,
		&inv.Terms, &inv.Notes, &inv.IsActive, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	inv.Items, err = r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) lines(ctx context.Context, invoiceID int64) ([]billing.Line, error) {
	rows, err := r.pool.Query(ctx, `SELECT item_id, item_name, description, quantity, price, discount,
cgst, sgst, igst, tax_rate, amount, tax_amount, total
FROM invoice_items WHERE invoice_id = $1 ORDER BY line_order`, invoiceID)
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

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM invoices %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d",
		invoiceColumns, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, inv)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		id, err = insertInvoice(ctx, tx, inv)
		return err
	})
	return id, err
}

func (r *repository) CreateConverted(ctx context.Context, inv Invoice, quotationID int64) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		id, err = insertInvoice(ctx, tx, inv)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE quotations SET status = $1, sales_invoice_id = $2, converted_at = NOW(), updated_at = NOW()
WHERE tenant_id = $3 AND id = $4 AND status = $5`,
			quotations.StatusInvoiceCreated, id, inv.TenantID, quotationID, quotations.StatusAccepted)
		if err != nil {
			return fmt.Errorf("stamp quotation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrQuotationNotConvertible
		}
		return nil
	})
	return id, err
}

func insertInvoice(ctx context.Context, tx pgx.Tx, inv Invoice) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `INSERT INTO invoices (tenant_id, invoice_number, quotation_id, client_id, client_name,
client_email, client_phone, client_address, client_gst, date, due_date, grand_total, paid_amount, balance_amount, status,
bank_account_name, bank_account_number, bank_name, bank_ifsc, bank_branch, terms, notes, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())
RETURNING id`,
		inv.TenantID, inv.InvoiceNumber, inv.QuotationID, inv.ClientID, inv.ClientName,
		inv.ClientEmail, inv.ClientPhone, inv.ClientAddress, inv.ClientGST, inv.Date, inv.DueDate,
		inv.GrandTotal, inv.PaidAmount, inv.BalanceAmount, inv.Status,
		inv.Bank.AccountName, inv.Bank.AccountNumber, inv.Bank.BankName, inv.Bank.IFSC, inv.Bank.Branch,
		inv.Terms, inv.Notes, inv.IsActive).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	return id, insertLines(ctx, tx, id, inv.Items)
}

func (r *repository) UpdateDocument(ctx context.Context, inv Invoice) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE invoices SET date = $1, due_date = $2, grand_total = $3,
balance_amount = $4, status = $5, notes = $6, updated_at = NOW() WHERE tenant_id = $7 AND id = $8`,
			inv.Date, inv.DueDate, inv.GrandTotal, inv.BalanceAmount, inv.Status, inv.Notes, inv.TenantID, inv.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		return insertLines(ctx, tx, inv.ID, inv.Items)
	})
}

func insertLines(ctx context.Context, tx pgx.Tx, invoiceID int64, lines []billing.Line) error {
	for i, l := range lines {
		_, err := tx.Exec(ctx, `INSERT INTO invoice_items (invoice_id, item_id, item_name, description, quantity,
price, discount, cgst, sgst, igst, tax_rate, amount, tax_amount, total, line_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			invoiceID, l.ItemID, l.ItemName, l.Description, l.Quantity,
			l.Price, l.Discount, l.CGST, l.SGST, l.IGST, l.TaxRate, l.Amount, l.TaxAmount, l.Total, i+1)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET is_active = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`,
		active, tenantID, id)
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
RETURNING seq`, tenantID, "INV", date.Format("200601")).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%04d", date.Format("0601"), seq), nil
}
