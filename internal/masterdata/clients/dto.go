package clients

// CreateClientRequest carries the client form payload. The regex checks
// (phone, pincode, GSTIN, PAN) run server side regardless of what the caller
// already validated.
type CreateClientRequest struct {
	Type        ClientType `json:"type" validate:"required,oneof=individual company"`
	Name        string     `json:"name" validate:"required,max=200"`
	CompanyName string     `json:"company_name" validate:"required_if=Type company,max=200"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone" validate:"required,in_phone"`
	Address     string     `json:"address" validate:"max=500"`
	State       string     `json:"state" validate:"max=100"`
	City        string     `json:"city" validate:"max=100"`
	Pincode     string     `json:"pincode" validate:"required,in_pincode"`
	GST         string     `json:"gst" validate:"omitempty,gstin"`
	PAN         string     `json:"pan" validate:"omitempty,pan"`
}

// UpdateClientRequest mirrors the create payload; identity fields stay
// validated the same way.
type UpdateClientRequest = CreateClientRequest

// SetStatusRequest toggles the soft-disable flag.
type SetStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=active inactive"`
}
