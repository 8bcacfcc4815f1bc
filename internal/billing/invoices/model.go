package invoices

import (
	"time"

	billing "github.com/bizledger/bizledger/internal/billing/shared"
)

// Status is derived from the balance, never set directly: an invoice with an
// outstanding balance is Not Cleared, one fully paid is Cleared.
type Status string

const (
	StatusNotCleared Status = "Not Cleared"
	StatusCleared    Status = "Cleared"
)

// StatusFor derives the invoice status from the outstanding balance.
func StatusFor(balance float64) Status {
	if balance <= 0 {
		return StatusCleared
	}
	return StatusNotCleared
}

// BankSnapshot freezes the bank account details printed on the invoice.
// Editing the registry entry afterwards never rewrites the document.
type BankSnapshot struct {
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// Invoice is a billable document. It is either converted from an accepted
// quotation or created standalone; in both cases the lines, client details,
// bank details and terms are owned copies frozen at creation time.
type Invoice struct {
	ID            int64          `json:"id"`
	TenantID      int64          `json:"tenant_id"`
	InvoiceNumber string         `json:"invoice_number"`
	QuotationID   *int64         `json:"quotation_id,omitempty"`
	ClientID      int64          `json:"client_id"`
	ClientName    string         `json:"client_name"`
	ClientEmail   string         `json:"client_email"`
	ClientPhone   string         `json:"client_phone"`
	ClientAddress string         `json:"client_address,omitempty"`
	ClientGST     string         `json:"client_gst,omitempty"`
	Date          time.Time      `json:"date"`
	DueDate       time.Time      `json:"due_date"`
	Items         []billing.Line `json:"items"`
	GrandTotal    float64        `json:"grand_total"`
	PaidAmount    float64        `json:"paid_amount"`
	BalanceAmount float64        `json:"balance_amount"`
	Status        Status         `json:"status"`
	Bank          BankSnapshot   `json:"bank"`
	Terms         string         `json:"terms,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Editable reports whether the invoice may still be modified. Once money has
// been received against it the document is frozen.
func (inv Invoice) Editable() bool {
	return inv.IsActive && inv.PaidAmount == 0
}
