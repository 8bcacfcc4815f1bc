package subscriptions

import "time"

// Status is the subscription lifecycle state.
type Status string

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
)

// BillingCycle determines how far a renewal pushes RenewsAt.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Plan is a purchasable subscription tier.
type Plan struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	BillingCycle BillingCycle `json:"billing_cycle"`
	Features     []string     `json:"features"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Subscription is a tenant's current plan state. One row per tenant; renewals
// and expiry rewrite it in place.
type Subscription struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	PlanID    *int64    `json:"plan_id,omitempty"`
	PlanName  string    `json:"plan_name,omitempty"`
	Status    Status    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	RenewsAt  time.Time `json:"renews_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lapsed reports whether the subscription has run past its renewal date.
func (s Subscription) Lapsed(now time.Time) bool {
	return s.Status != StatusExpired && s.RenewsAt.Before(now)
}
