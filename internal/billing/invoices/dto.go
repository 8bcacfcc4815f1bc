package invoices

import (
	"time"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/billing/quotations"
)

// ConvertRequest turns an accepted quotation into an invoice. Lines and
// client details come from the quotation; bank and terms are snapshotted from
// the chosen registry entries.
type ConvertRequest struct {
	QuotationID   int64     `json:"quotation_id" validate:"required,gt=0"`
	Date          time.Time `json:"date" validate:"required"`
	DueDate       time.Time `json:"due_date" validate:"required"`
	BankAccountID *int64    `json:"bank_account_id,omitempty" validate:"omitempty,gt=0"`
	TermsID       *int64    `json:"terms_id,omitempty" validate:"omitempty,gt=0"`
	Notes         string    `json:"notes" validate:"max=2000"`
}

// CreateInvoiceRequest creates a standalone invoice without a quotation.
// Lines use the same catalog-selection shape as quotations.
type CreateInvoiceRequest struct {
	ClientID      int64                          `json:"client_id" validate:"required,gt=0"`
	Date          time.Time                      `json:"date" validate:"required"`
	DueDate       time.Time                      `json:"due_date" validate:"required"`
	Lines         []quotations.CreateLineRequest `json:"lines" validate:"required,min=1,dive"`
	BankAccountID *int64                         `json:"bank_account_id,omitempty" validate:"omitempty,gt=0"`
	TermsID       *int64                         `json:"terms_id,omitempty" validate:"omitempty,gt=0"`
	Notes         string                         `json:"notes" validate:"max=2000"`
}

// UpdateInvoiceRequest edits an invoice that has not received any payment.
// Lines arrive as canonical records; the catalog is not consulted again.
type UpdateInvoiceRequest struct {
	Date    *time.Time          `json:"date,omitempty"`
	DueDate *time.Time          `json:"due_date,omitempty"`
	Lines   []billing.LineInput `json:"lines,omitempty" validate:"omitempty,min=1"`
	Notes   *string             `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListInvoicesRequest filters the invoice listing.
type ListInvoicesRequest struct {
	TenantID int64
	ClientID *int64
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
