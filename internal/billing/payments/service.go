package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizledger/bizledger/internal/masterdata/vendors"
)

// ErrRecipientUnknown rejects payments naming neither a registry entry nor a
// free-form recipient name.
var ErrRecipientUnknown = errors.New("recipient name or registry reference required")

// VendorDirectory is the slice of the vendor registry the service needs.
type VendorDirectory interface {
	Get(ctx context.Context, tenantID, id int64) (vendors.Vendor, error)
}

type Service struct {
	repo    Repository
	vendors VendorDirectory
}

func NewService(repo Repository, vendorDir VendorDirectory) *Service {
	return &Service{repo: repo, vendors: vendorDir}
}

// Create records outgoing money. Vendor payments default their recipient
// name from the registry; everything else needs an explicit name.
func (s *Service) Create(ctx context.Context, tenantID int64, req CreatePaymentRequest) (*Payment, error) {
	name := req.RecipientName
	if req.RecipientType == RecipientVendor && req.RecipientID != nil {
		vendor, err := s.vendors.Get(ctx, tenantID, *req.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("resolve vendor: %w", err)
		}
		if name == "" {
			name = vendor.Name
		}
	}
	if name == "" {
		return nil, ErrRecipientUnknown
	}

	number, err := s.repo.GenerateNumber(ctx, tenantID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("generate payment number: %w", err)
	}

	status := req.Status
	if status == "" {
		status = StatusCompleted
	}

	p := Payment{
		TenantID:      tenantID,
		PaymentNumber: number,
		RecipientType: req.RecipientType,
		RecipientID:   req.RecipientID,
		RecipientName: name,
		Date:          req.Date,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Notes:         req.Notes,
		Status:        status,
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) SetStatus(ctx context.Context, tenantID, id int64, status Status) (*Payment, error) {
	if err := s.repo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Payment, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}
