package vendors

import (
	"context"
	"fmt"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Vendor, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID int64, req VendorRequest) (Vendor, error) {
	id, err := s.repo.Create(ctx, Vendor{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		GST:      req.GST,
		Category: req.Category,
		IsActive: true,
	})
	if err != nil {
		return Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Update(ctx context.Context, tenantID, id int64, req VendorRequest) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, shared.ErrInvalidID
	}
	err := s.repo.Update(ctx, Vendor{
		ID:       id,
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		GST:      req.GST,
		Category: req.Category,
	})
	if err != nil {
		return Vendor{}, fmt.Errorf("update vendor: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SetActive(ctx, tenantID, id, active)
}
