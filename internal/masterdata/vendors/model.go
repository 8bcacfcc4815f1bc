package vendors

import "time"

// Vendor is a counterparty money flows out to. Unlike clients there is no
// GST-mandatory rule; many vendors are unregistered suppliers.
type Vendor struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	GST       string    `json:"gst,omitempty"`
	Category  string    `json:"category,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VendorRequest is the create/update payload.
type VendorRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"required,in_phone"`
	Address  string `json:"address" validate:"max=500"`
	GST      string `json:"gst" validate:"omitempty,gstin"`
	Category string `json:"category" validate:"max=100"`
}
