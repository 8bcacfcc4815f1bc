package clients

import "time"

// ClientType distinguishes individual clients from companies.
type ClientType string

const (
	TypeIndividual ClientType = "individual"
	TypeCompany    ClientType = "company"
)

// Status is a soft-disable flag; clients are never hard-deleted.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Client is a registry entry for a billable counterparty.
type Client struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	Type        ClientType `json:"type"`
	Name        string     `json:"name"`
	CompanyName string     `json:"company_name,omitempty"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	State       string     `json:"state"`
	City        string     `json:"city"`
	Pincode     string     `json:"pincode"`
	GST         string     `json:"gst,omitempty"`
	PAN         string     `json:"pan,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
