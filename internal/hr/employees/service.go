package employees

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Employee, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (Employee, error) {
	if id <= 0 {
		return Employee{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID int64, req EmployeeRequest) (Employee, error) {
	id, err := s.repo.Create(ctx, Employee{
		TenantID:    tenantID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		RoleID:      req.RoleID,
		JoiningDate: req.JoiningDate,
		Salary:      req.Salary,
		Status:      StatusActive,
	})
	if err != nil {
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Update(ctx context.Context, tenantID, id int64, req EmployeeRequest) (Employee, error) {
	if id <= 0 {
		return Employee{}, shared.ErrInvalidID
	}
	err := s.repo.Update(ctx, Employee{
		ID:          id,
		TenantID:    tenantID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		RoleID:      req.RoleID,
		JoiningDate: req.JoiningDate,
		Salary:      req.Salary,
	})
	if err != nil {
		return Employee{}, fmt.Errorf("update employee: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

// SetStatus soft-disables or re-enables the record; there is no deletion.
func (s *Service) SetStatus(ctx context.Context, tenantID, id int64, status Status) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SetStatus(ctx, tenantID, id, status)
}
