package items

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters, itemType *ItemType) ([]Item, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters, itemType)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, item Item) (Item, error) {
	if err := s.validate(item); err != nil {
		return Item{}, err
	}
	item.IsActive = true
	id, err := s.repo.Create(ctx, item)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return s.repo.Get(ctx, item.TenantID, id)
}

func (s *Service) Update(ctx context.Context, item Item) (Item, error) {
	if item.ID <= 0 {
		return Item{}, shared.ErrInvalidID
	}
	if err := s.validate(item); err != nil {
		return Item{}, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	return s.repo.Get(ctx, item.TenantID, item.ID)
}

// SetActive soft-disables or re-enables a catalog entry. Disabled entries stay
// referenced by existing document lines but cannot be selected anew.
func (s *Service) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SetActive(ctx, tenantID, id, active)
}

func (s *Service) validate(item Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return errors.New("item name is required")
	}
	switch item.Type {
	case TypeProduct, TypeService:
	default:
		return fmt.Errorf("unknown item type %q", item.Type)
	}
	if item.Price < 0 {
		return errors.New("item price must not be negative")
	}
	for _, rate := range []float64{item.CGST, item.SGST, item.IGST} {
		if rate < 0 || rate > 100 {
			return errors.New("tax rate must be between 0 and 100")
		}
	}
	return nil
}
