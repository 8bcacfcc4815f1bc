package clients

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (Client, error) {
	if id <= 0 {
		return Client{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID int64, req CreateClientRequest) (Client, error) {
	c := fromRequest(tenantID, 0, req)
	c.Status = StatusActive
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Update(ctx context.Context, tenantID, id int64, req UpdateClientRequest) (Client, error) {
	if id <= 0 {
		return Client{}, shared.ErrInvalidID
	}
	if err := s.repo.Update(ctx, fromRequest(tenantID, id, req)); err != nil {
		return Client{}, fmt.Errorf("update client: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

// SetStatus soft-disables or re-enables a client. Disabled clients keep their
// history; no hard delete exists in this flow.
func (s *Service) SetStatus(ctx context.Context, tenantID, id int64, status Status) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SetStatus(ctx, tenantID, id, status)
}

func fromRequest(tenantID, id int64, req CreateClientRequest) Client {
	return Client{
		ID:          id,
		TenantID:    tenantID,
		Type:        req.Type,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		State:       req.State,
		City:        req.City,
		Pincode:     req.Pincode,
		GST:         req.GST,
		PAN:         req.PAN,
	}
}
