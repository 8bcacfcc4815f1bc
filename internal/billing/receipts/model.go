package receipts

import "time"

// Status is the receipt lifecycle state. Pending and cleared receipts both
// count toward the parent's paid amount; rejected ones do not.
type Status string

const (
	StatusPending  Status = "pending"
	StatusCleared  Status = "cleared"
	StatusRejected Status = "rejected"
)

// PaymentType records whether the receipt settles the full outstanding
// balance or part of it.
type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentPartial PaymentType = "partial"
)

// Receipt is incoming money recorded against an invoice, or against a
// quotation as an advance. Exactly one of InvoiceID/QuotationID is set.
type Receipt struct {
	ID             int64       `json:"id"`
	TenantID       int64       `json:"tenant_id"`
	ReceiptNumber  string      `json:"receipt_number"`
	InvoiceID      *int64      `json:"invoice_id,omitempty"`
	QuotationID    *int64      `json:"quotation_id,omitempty"`
	ClientName     string      `json:"client_name"`
	Date           time.Time   `json:"date"`
	Amount         float64     `json:"amount"`
	PaymentType    PaymentType `json:"payment_type"`
	PaymentMethod  string      `json:"payment_method"`
	Reference      string      `json:"reference,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	Status         Status      `json:"status"`
	IdempotencyKey string      `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Counted reports whether the receipt contributes to the parent's paid
// amount.
func (r Receipt) Counted() bool {
	return r.Status != StatusRejected
}
