package taxes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, tenantID int64) ([]TaxRate, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (TaxRate, error) {
	if id <= 0 {
		return TaxRate{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, t TaxRate) (TaxRate, error) {
	if err := s.validate(t); err != nil {
		return TaxRate{}, err
	}
	id, err := s.repo.Create(ctx, t)
	if err != nil {
		return TaxRate{}, fmt.Errorf("create tax rate: %w", err)
	}
	return s.repo.Get(ctx, t.TenantID, id)
}

func (s *Service) Update(ctx context.Context, t TaxRate) (TaxRate, error) {
	if t.ID <= 0 {
		return TaxRate{}, shared.ErrInvalidID
	}
	if err := s.validate(t); err != nil {
		return TaxRate{}, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return TaxRate{}, fmt.Errorf("update tax rate: %w", err)
	}
	return s.repo.Get(ctx, t.TenantID, t.ID)
}

// ActiveKinds reports which GST components are currently marked active.
func (s *Service) ActiveKinds(ctx context.Context, tenantID int64) (map[Kind]bool, error) {
	return s.repo.ActiveKinds(ctx, tenantID)
}

func (s *Service) validate(t TaxRate) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("tax name is required")
	}
	switch t.Kind {
	case KindCGST, KindSGST, KindIGST:
	default:
		return fmt.Errorf("unknown tax kind %q", t.Kind)
	}
	if t.Rate < 0 || t.Rate > 100 {
		return errors.New("tax rate must be between 0 and 100")
	}
	return nil
}
