package shared

import (
	"errors"

	"github.com/bizledger/bizledger/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found. It is the httpx sentinel so
	// RespondError maps it to 404 everywhere.
	ErrNotFound = httpx.ErrNotFound
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTenantMissing occurs when a request reaches a tenant-scoped handler
	// without a resolved tenant.
	ErrTenantMissing = errors.New("tenant not resolved")
)
