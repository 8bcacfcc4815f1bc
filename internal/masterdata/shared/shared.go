// Package shared holds helpers common to the masterdata registries.
package shared

import (
	"fmt"

	"github.com/bizledger/bizledger/internal/platform/httpx"
)

// The registry sentinels are the httpx ones, so repository errors map to
// problem responses without per-handler switches.
var (
	ErrNotFound   = httpx.ErrNotFound
	ErrDuplicate  = httpx.ErrDuplicate
	ErrValidation = httpx.ErrValidation
	ErrInvalidID  = fmt.Errorf("%w: invalid id", httpx.ErrValidation)
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// ListFilters represents standard list filters. TenantID is mandatory; every
// registry is tenant scoped.
type ListFilters struct {
	TenantID int64
	Page     int
	Limit    int
	Search   string
	IsActive *bool
}

// Normalize clamps pagination values to sane defaults.
func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = DefaultLimit
	}
}

// Offset returns the row offset implied by the filters.
func (f ListFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}
