package taxes

import "time"

// Kind enumerates the Indian GST components a rate can belong to.
type Kind string

const (
	KindCGST Kind = "cgst"
	KindSGST Kind = "sgst"
	KindIGST Kind = "igst"
)

// TaxRate is a registry entry. Items reference rates by kind; only active
// kinds are copied onto document lines at selection time.
type TaxRate struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Rate      float64   `json:"rate"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
