package invoices

import (
	"context"
	"errors"
	"fmt"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/billing/quotations"
	"github.com/bizledger/bizledger/internal/masterdata/banks"
	"github.com/bizledger/bizledger/internal/masterdata/clients"
	"github.com/bizledger/bizledger/internal/masterdata/terms"
)

var (
	// ErrNotEditable rejects edits once money has been received against the
	// invoice, or when it is disabled.
	ErrNotEditable = errors.New("invoice can no longer be edited")
	// ErrClientInactive rejects documents for disabled clients.
	ErrClientInactive = errors.New("client is inactive")
)

// QuotationSource is the slice of the quotation module the converter needs.
type QuotationSource interface {
	Get(ctx context.Context, tenantID, id int64) (*quotations.Quotation, error)
}

// BankRegistry resolves the account to snapshot onto the invoice.
type BankRegistry interface {
	Get(ctx context.Context, tenantID, id int64) (banks.Account, error)
}

// TermsSource resolves the terms text to snapshot onto the invoice.
type TermsSource interface {
	Get(ctx context.Context, tenantID, id int64) (terms.Terms, error)
	GetDefault(ctx context.Context, tenantID int64) (terms.Terms, error)
}

type Service struct {
	repo    Repository
	source  QuotationSource
	clients quotations.ClientDirectory
	catalog quotations.Catalog
	taxes   quotations.TaxRegistry
	banks   BankRegistry
	terms   TermsSource
}

func NewService(repo Repository, source QuotationSource, clientDir quotations.ClientDirectory,
	catalog quotations.Catalog, taxReg quotations.TaxRegistry, bankReg BankRegistry, termsSrc TermsSource) *Service {
	return &Service{
		repo:    repo,
		source:  source,
		clients: clientDir,
		catalog: catalog,
		taxes:   taxReg,
		banks:   bankReg,
		terms:   termsSrc,
	}
}

// Convert builds an invoice from an accepted quotation. Lines, client details
// and totals are copied; the quotation is stamped in the same transaction, so
// the invoice's grand total always equals the quotation's at conversion time.
func (s *Service) Convert(ctx context.Context, tenantID int64, req ConvertRequest) (*Invoice, error) {
	q, err := s.source.Get(ctx, tenantID, req.QuotationID)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if q.Status != quotations.StatusAccepted {
		return nil, fmt.Errorf("%w: status is %s", ErrQuotationNotConvertible, q.Status)
	}
	if req.DueDate.Before(req.Date) {
		return nil, fmt.Errorf("%w: due date must not precede the invoice date", ErrNotEditable)
	}

	inv := Invoice{
		TenantID:      tenantID,
		QuotationID:   &q.ID,
		ClientID:      q.ClientID,
		ClientName:    q.ClientName,
		ClientEmail:   q.ClientEmail,
		ClientPhone:   q.ClientPhone,
		ClientAddress: q.ClientAddress,
		ClientGST:     q.ClientGST,
		Date:          req.Date,
		DueDate:       req.DueDate,
		Items:         q.Items,
		GrandTotal:    q.GrandTotal,
		BalanceAmount: q.GrandTotal,
		Status:        StatusFor(q.GrandTotal),
		Notes:         req.Notes,
		IsActive:      true,
	}
	if err := s.snapshot(ctx, tenantID, &inv, req.BankAccountID, req.TermsID); err != nil {
		return nil, err
	}

	inv.InvoiceNumber, err = s.repo.GenerateNumber(ctx, tenantID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}

	id, err := s.repo.CreateConverted(ctx, inv, q.ID)
	if err != nil {
		return nil, fmt.Errorf("convert quotation: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

// Create builds a standalone invoice straight from catalog selections.
func (s *Service) Create(ctx context.Context, tenantID int64, req CreateInvoiceRequest) (*Invoice, error) {
	if req.DueDate.Before(req.Date) {
		return nil, fmt.Errorf("%w: due date must not precede the invoice date", ErrNotEditable)
	}

	client, err := s.clients.Get(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("verify client: %w", err)
	}
	if client.Status != clients.StatusActive {
		return nil, ErrClientInactive
	}

	inputs, err := quotations.BindLines(ctx, s.catalog, s.taxes, tenantID, req.Lines)
	if err != nil {
		return nil, err
	}
	lines, grandTotal, err := billing.ComputeLines(inputs)
	if err != nil {
		return nil, err
	}

	inv := Invoice{
		TenantID:      tenantID,
		ClientID:      client.ID,
		ClientName:    client.Name,
		ClientEmail:   client.Email,
		ClientPhone:   client.Phone,
		ClientAddress: client.Address,
		ClientGST:     client.GST,
		Date:          req.Date,
		DueDate:       req.DueDate,
		Items:         lines,
		GrandTotal:    grandTotal,
		BalanceAmount: grandTotal,
		Status:        StatusFor(grandTotal),
		Notes:         req.Notes,
		IsActive:      true,
	}
	if err := s.snapshot(ctx, tenantID, &inv, req.BankAccountID, req.TermsID); err != nil {
		return nil, err
	}

	inv.InvoiceNumber, err = s.repo.GenerateNumber(ctx, tenantID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}

	id, err := s.repo.Create(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

// snapshot freezes bank and terms registry entries onto the invoice. When no
// terms are chosen the tenant's default entry applies; having none is fine.
func (s *Service) snapshot(ctx context.Context, tenantID int64, inv *Invoice, bankID, termsID *int64) error {
	if bankID != nil {
		account, err := s.banks.Get(ctx, tenantID, *bankID)
		if err != nil {
			return fmt.Errorf("resolve bank account: %w", err)
		}
		inv.Bank = BankSnapshot{
			AccountName:   account.AccountName,
			AccountNumber: account.AccountNumber,
			BankName:      account.BankName,
			IFSC:          account.IFSC,
			Branch:        account.Branch,
		}
	}

	switch {
	case termsID != nil:
		t, err := s.terms.Get(ctx, tenantID, *termsID)
		if err != nil {
			return fmt.Errorf("resolve terms: %w", err)
		}
		inv.Terms = t.Body
	default:
		t, err := s.terms.GetDefault(ctx, tenantID)
		if err == nil {
			inv.Terms = t.Body
		}
	}
	return nil
}

// Update edits an invoice that has not received any payment. Lines arrive as
// canonical records; derived fields are recomputed without consulting the
// catalog again.
func (s *Service) Update(ctx context.Context, tenantID, id int64, req UpdateInvoiceRequest) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if !existing.Editable() {
		return nil, fmt.Errorf("%w: payments have been recorded against it", ErrNotEditable)
	}

	updated := *existing
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.DueDate != nil {
		updated.DueDate = *req.DueDate
	}
	if updated.DueDate.Before(updated.Date) {
		return nil, fmt.Errorf("%w: due date must not precede the invoice date", ErrNotEditable)
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.Lines != nil {
		lines, grandTotal, err := billing.ComputeLines(req.Lines)
		if err != nil {
			return nil, err
		}
		updated.Items = lines
		updated.GrandTotal = grandTotal
		updated.BalanceAmount = billing.Balance(grandTotal, updated.PaidAmount)
		updated.Status = StatusFor(updated.BalanceAmount)
	}

	if err := s.repo.UpdateDocument(ctx, updated); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

// SetActive flips the isActive flag.
func (s *Service) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	return s.repo.SetActive(ctx, tenantID, id, active)
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}
