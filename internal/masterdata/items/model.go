package items

import "time"

// ItemType distinguishes catalog subsets; lines must be selected from the
// subset matching their type.
type ItemType string

const (
	TypeProduct ItemType = "product"
	TypeService ItemType = "service"
)

// Item is a catalog master record. Its price and tax rates are defaults copied
// onto document lines at selection time; later edits to the catalog never
// retroactively change lines that were already created from it.
type Item struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenant_id"`
	Name        string    `json:"name"`
	Type        ItemType  `json:"type"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ApplyTax    bool      `json:"apply_tax"`
	CGST        float64   `json:"cgst"`
	SGST        float64   `json:"sgst"`
	IGST        float64   `json:"igst"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
