package receipts

import "time"

// CreateReceiptRequest records incoming money. Exactly one of InvoiceID and
// QuotationID must be set; IdempotencyKey comes from the Idempotency-Key
// header and dedupes double submits.
type CreateReceiptRequest struct {
	InvoiceID      *int64      `json:"invoice_id,omitempty" validate:"omitempty,gt=0"`
	QuotationID    *int64      `json:"quotation_id,omitempty" validate:"omitempty,gt=0"`
	Date           time.Time   `json:"date" validate:"required"`
	Amount         float64     `json:"amount" validate:"required,gt=0"`
	PaymentType    PaymentType `json:"payment_type" validate:"required,oneof=full partial"`
	PaymentMethod  string      `json:"payment_method" validate:"required,oneof=cash cheque bank_transfer upi card"`
	Reference      string      `json:"reference" validate:"max=200"`
	Notes          string      `json:"notes" validate:"max=2000"`
	IdempotencyKey string      `json:"-"`
}

// ListReceiptsRequest filters the receipt listing.
type ListReceiptsRequest struct {
	TenantID    int64
	InvoiceID   *int64
	QuotationID *int64
	Status      *Status
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}
