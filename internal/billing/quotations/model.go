package quotations

import (
	"time"

	billing "github.com/bizledger/bizledger/internal/billing/shared"
)

// Status is the quotation lifecycle state. Transitions are one-directional:
// created -> accepted -> invoice created, with expired reachable from created
// once the validity date has passed.
type Status string

const (
	StatusCreated        Status = "created"
	StatusAccepted       Status = "accepted"
	StatusExpired        Status = "expired"
	StatusInvoiceCreated Status = "invoice created"
)

// Quotation is a priced proposal sent to a client. Client fields are
// denormalized at creation time; line items are owned copies of catalog data.
type Quotation struct {
	ID              int64          `json:"id"`
	TenantID        int64          `json:"tenant_id"`
	QuotationNumber string         `json:"quotation_number"`
	ClientID        int64          `json:"client_id"`
	ClientName      string         `json:"client_name"`
	ClientEmail     string         `json:"client_email"`
	ClientPhone     string         `json:"client_phone"`
	ClientAddress   string         `json:"client_address,omitempty"`
	ClientGST       string         `json:"client_gst,omitempty"`
	Date            time.Time      `json:"date"`
	Validity        time.Time      `json:"validity"`
	Items           []billing.Line `json:"items"`
	GrandTotal      float64        `json:"grand_total"`
	PaidAmount      float64        `json:"paid_amount"`
	BalanceAmount   float64        `json:"balance_amount"`
	Status          Status         `json:"status"`
	IsActive        bool           `json:"is_active"`
	SalesInvoiceID  *int64         `json:"sales_invoice_id,omitempty"`
	ConvertedAt     *time.Time     `json:"converted_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// EffectiveStatus derives the status to serve for a given moment: a stored
// `created` whose validity date lies before today reads as expired even if the
// sweep has not persisted it yet. Stale `created` is never served.
func (q Quotation) EffectiveStatus(now time.Time) Status {
	if q.Status == StatusCreated && pastValidity(q.Validity, now) {
		return StatusExpired
	}
	return q.Status
}

// pastValidity compares by calendar day at local midnight; a quotation is
// valid through the whole of its validity date.
func pastValidity(validity, now time.Time) bool {
	endOfValidity := time.Date(validity.Year(), validity.Month(), validity.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return !now.Before(endOfValidity)
}

// Editable reports whether the quotation may still be modified. Accepted
// quotations stay editable until they are converted; expiry and conversion
// both close the door.
func (q Quotation) Editable(now time.Time) bool {
	if !q.IsActive {
		return false
	}
	status := q.EffectiveStatus(now)
	return status == StatusCreated || status == StatusAccepted
}
