package employees

import "time"

// Status is a soft-disable flag; employee records are never hard-deleted, so
// documents citing them keep resolving.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Employee is a staff record.
type Employee struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenant_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	RoleID      *int64    `json:"role_id,omitempty"`
	RoleName    string    `json:"role_name,omitempty"`
	JoiningDate time.Time `json:"joining_date"`
	Salary      float64   `json:"salary,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmployeeRequest is the create/update payload.
type EmployeeRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Phone       string    `json:"phone" validate:"required,in_phone"`
	Address     string    `json:"address" validate:"max=500"`
	RoleID      *int64    `json:"role_id,omitempty" validate:"omitempty,gt=0"`
	JoiningDate time.Time `json:"joining_date" validate:"required"`
	Salary      float64   `json:"salary" validate:"gte=0"`
}
