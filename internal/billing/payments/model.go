package payments

import "time"

// Status is the payment lifecycle state.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// RecipientType classifies who the money went to.
type RecipientType string

const (
	RecipientVendor   RecipientType = "vendor"
	RecipientEmployee RecipientType = "employee"
	RecipientOther    RecipientType = "other"
)

// Payment is outgoing money: vendor bills, salaries, rent and the like.
type Payment struct {
	ID            int64         `json:"id"`
	TenantID      int64         `json:"tenant_id"`
	PaymentNumber string        `json:"payment_number"`
	RecipientType RecipientType `json:"recipient_type"`
	RecipientID   *int64        `json:"recipient_id,omitempty"`
	RecipientName string        `json:"recipient_name"`
	Date          time.Time     `json:"date"`
	Amount        float64       `json:"amount"`
	Category      string        `json:"category"`
	PaymentMethod string        `json:"payment_method"`
	Reference     string        `json:"reference,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CreatePaymentRequest records outgoing money. RecipientName may be omitted
// for vendor payments; it then defaults from the vendor registry.
type CreatePaymentRequest struct {
	RecipientType RecipientType `json:"recipient_type" validate:"required,oneof=vendor employee other"`
	RecipientID   *int64        `json:"recipient_id,omitempty" validate:"omitempty,gt=0"`
	RecipientName string        `json:"recipient_name" validate:"max=200"`
	Date          time.Time     `json:"date" validate:"required"`
	Amount        float64       `json:"amount" validate:"required,gt=0"`
	Category      string        `json:"category" validate:"required,max=100"`
	PaymentMethod string        `json:"payment_method" validate:"required,oneof=cash cheque bank_transfer upi card"`
	Reference     string        `json:"reference" validate:"max=200"`
	Notes         string        `json:"notes" validate:"max=2000"`
	Status        Status        `json:"status" validate:"omitempty,oneof=completed pending failed"`
}

// ListPaymentsRequest filters the payment listing.
type ListPaymentsRequest struct {
	TenantID int64
	Category *string
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
