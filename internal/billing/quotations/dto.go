package quotations

import (
	"time"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/masterdata/items"
)

// CreateLineRequest selects a catalog entry for a new line. Description,
// price and tax rates default from the catalog; price and description may be
// overridden after selection. Type must match the selected item's type.
type CreateLineRequest struct {
	ItemID      int64          `json:"item_id" validate:"required,gt=0"`
	Type        items.ItemType `json:"type" validate:"required,oneof=product service"`
	Description string         `json:"description" validate:"max=1000"`
	Quantity    float64        `json:"quantity" validate:"required,gt=0"`
	Price       *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	Discount    float64        `json:"discount" validate:"gte=0"`
}

// CreateQuotationRequest is the creation payload.
type CreateQuotationRequest struct {
	ClientID int64               `json:"client_id" validate:"required,gt=0"`
	Date     time.Time           `json:"date" validate:"required"`
	Validity time.Time           `json:"validity" validate:"required"`
	Lines    []CreateLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateQuotationRequest carries the edit payload. Lines arrive as canonical
// already-bound records; derived fields are recomputed but the catalog is not
// consulted again.
type UpdateQuotationRequest struct {
	Date     *time.Time          `json:"date,omitempty"`
	Validity *time.Time          `json:"validity,omitempty"`
	Lines    []billing.LineInput `json:"lines,omitempty" validate:"omitempty,min=1"`
}

// ListQuotationsRequest filters the quotation listing.
type ListQuotationsRequest struct {
	TenantID int64
	ClientID *int64
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
