package quotations

import (
	"context"
	"errors"
	"fmt"
	"time"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/masterdata/clients"
	"github.com/bizledger/bizledger/internal/masterdata/items"
	"github.com/bizledger/bizledger/internal/masterdata/taxes"
)

var (
	// ErrInvalidStatus rejects a transition the state machine does not offer.
	ErrInvalidStatus = errors.New("invalid status transition")
	// ErrNotEditable rejects edits to converted, expired or disabled quotations.
	ErrNotEditable = errors.New("quotation can no longer be edited")
	// ErrItemNotSelectable rejects lines built from inactive catalog entries.
	ErrItemNotSelectable = errors.New("catalog item is not selectable")
	// ErrTypeMismatch forces re-selection when a line's type does not match
	// the chosen catalog entry's type.
	ErrTypeMismatch = errors.New("line type does not match catalog item type")
	// ErrClientInactive rejects documents for disabled clients.
	ErrClientInactive = errors.New("client is inactive")
)

// ClientDirectory is the slice of the client registry the service needs.
type ClientDirectory interface {
	Get(ctx context.Context, tenantID, id int64) (clients.Client, error)
}

// Catalog is the slice of the item registry the service needs.
type Catalog interface {
	Get(ctx context.Context, tenantID, id int64) (items.Item, error)
}

// TaxRegistry reports which GST components are currently active.
type TaxRegistry interface {
	ActiveKinds(ctx context.Context, tenantID int64) (map[taxes.Kind]bool, error)
}

type Service struct {
	repo    Repository
	clients ClientDirectory
	catalog Catalog
	taxes   TaxRegistry
	now     func() time.Time
}

func NewService(repo Repository, clientDir ClientDirectory, catalog Catalog, taxReg TaxRegistry) *Service {
	return &Service{
		repo:    repo,
		clients: clientDir,
		catalog: catalog,
		taxes:   taxReg,
		now:     time.Now,
	}
}

// Create builds a quotation from catalog selections, denormalizes the client
// and computes all derived amounts.
func (s *Service) Create(ctx context.Context, tenantID int64, req CreateQuotationRequest) (*Quotation, error) {
	if req.Validity.Before(req.Date) {
		return nil, fmt.Errorf("%w: validity must not precede the quotation date", ErrNotEditable)
	}

	client, err := s.clients.Get(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("verify client: %w", err)
	}
	if client.Status != clients.StatusActive {
		return nil, ErrClientInactive
	}

	inputs, err := BindLines(ctx, s.catalog, s.taxes, tenantID, req.Lines)
	if err != nil {
		return nil, err
	}
	lines, grandTotal, err := billing.ComputeLines(inputs)
	if err != nil {
		return nil, err
	}

	number, err := s.repo.GenerateNumber(ctx, tenantID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("generate quotation number: %w", err)
	}

	q := Quotation{
		TenantID:        tenantID,
		QuotationNumber: number,
		ClientID:        client.ID,
		ClientName:      client.Name,
		ClientEmail:     client.Email,
		ClientPhone:     client.Phone,
		ClientAddress:   client.Address,
		ClientGST:       client.GST,
		Date:            req.Date,
		Validity:        req.Validity,
		Items:           lines,
		GrandTotal:      grandTotal,
		BalanceAmount:   grandTotal,
		Status:          StatusCreated,
		IsActive:        true,
	}

	id, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	return s.get(ctx, tenantID, id)
}

// BindLines resolves catalog selections into canonical line inputs. Tax rates
// are copied only for GST components currently active in the registry;
// inactive components silently zero out.
func BindLines(ctx context.Context, catalog Catalog, taxReg TaxRegistry, tenantID int64, reqs []CreateLineRequest) ([]billing.LineInput, error) {
	active, err := taxReg.ActiveKinds(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load active tax kinds: %w", err)
	}

	inputs := make([]billing.LineInput, 0, len(reqs))
	for _, req := range reqs {
		item, err := catalog.Get(ctx, tenantID, req.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve catalog item %d: %w", req.ItemID, err)
		}
		if !item.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrItemNotSelectable, item.Name)
		}
		if item.Type != req.Type {
			return nil, fmt.Errorf("%w: item %s is a %s", ErrTypeMismatch, item.Name, item.Type)
		}

		in := billing.LineInput{
			ItemID:      item.ID,
			ItemName:    item.Name,
			Description: item.Description,
			Quantity:    req.Quantity,
			Price:       item.Price,
			Discount:    req.Discount,
		}
		if req.Description != "" {
			in.Description = req.Description
		}
		if req.Price != nil {
			in.Price = *req.Price
		}
		if item.ApplyTax {
			if active[taxes.KindCGST] {
				in.CGST = item.CGST
			}
			if active[taxes.KindSGST] {
				in.SGST = item.SGST
			}
			if active[taxes.KindIGST] {
				in.IGST = item.IGST
			}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// Update recomputes derived fields from the submitted canonical lines. The
// catalog is not consulted again; a price changed in the catalog after
// selection does not leak into the edit.
func (s *Service) Update(ctx context.Context, tenantID, id int64, req UpdateQuotationRequest) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if !existing.Editable(s.now()) {
		return nil, fmt.Errorf("%w: status is %s", ErrNotEditable, existing.EffectiveStatus(s.now()))
	}

	updated := *existing
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Validity != nil {
		updated.Validity = *req.Validity
	}
	if updated.Validity.Before(updated.Date) {
		return nil, fmt.Errorf("%w: validity must not precede the quotation date", ErrNotEditable)
	}
	if req.Lines != nil {
		lines, grandTotal, err := billing.ComputeLines(req.Lines)
		if err != nil {
			return nil, err
		}
		updated.Items = lines
		updated.GrandTotal = grandTotal
		updated.BalanceAmount = billing.Balance(grandTotal, updated.PaidAmount)
	}

	if err := s.repo.UpdateDocument(ctx, updated); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return s.get(ctx, tenantID, id)
}

// Accept moves created -> accepted. An expired or disabled quotation cannot
// be accepted.
func (s *Service) Accept(ctx context.Context, tenantID, id int64) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if !existing.IsActive {
		return nil, fmt.Errorf("%w: quotation is disabled", ErrInvalidStatus)
	}
	if got := existing.EffectiveStatus(s.now()); got != StatusCreated {
		return nil, fmt.Errorf("%w: cannot accept a quotation in status %q", ErrInvalidStatus, got)
	}
	if err := s.repo.UpdateStatus(ctx, tenantID, id, StatusAccepted); err != nil {
		return nil, fmt.Errorf("accept quotation: %w", err)
	}
	return s.get(ctx, tenantID, id)
}

// SetActive flips the isActive flag without touching the status.
func (s *Service) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	return s.repo.SetActive(ctx, tenantID, id, active)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Quotation, error) {
	return s.get(ctx, tenantID, id)
}

func (s *Service) get(ctx context.Context, tenantID, id int64) (*Quotation, error) {
	q, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	q.Status = q.EffectiveStatus(s.now())
	return q, nil
}

// List serves quotations with effective statuses; callers never see a stale
// `created` past its validity date.
func (s *Service) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}
	list, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range list {
		list[i].Status = list[i].EffectiveStatus(now)
	}
	return list, total, nil
}
