package receipts

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizledger/bizledger/internal/billing/invoices"
	"github.com/bizledger/bizledger/internal/billing/quotations"
)

var (
	// ErrAmbiguousParent rejects receipts naming both or neither document.
	ErrAmbiguousParent = errors.New("exactly one of invoice_id and quotation_id must be set")
	// ErrInvalidStatus rejects a transition the receipt lifecycle does not
	// offer.
	ErrInvalidStatus = errors.New("invalid receipt status transition")
)

// InvoiceSource is the slice of the invoice module the service needs.
type InvoiceSource interface {
	Get(ctx context.Context, tenantID, id int64) (*invoices.Invoice, error)
}

// QuotationSource is the slice of the quotation module the service needs.
type QuotationSource interface {
	Get(ctx context.Context, tenantID, id int64) (*quotations.Quotation, error)
}

type Service struct {
	repo       Repository
	invoices   InvoiceSource
	quotations QuotationSource
}

func NewService(repo Repository, invSrc InvoiceSource, qSrc QuotationSource) *Service {
	return &Service{repo: repo, invoices: invSrc, quotations: qSrc}
}

// Create records incoming money against an invoice or a quotation and
// reconciles the parent's balance. Double submits carrying the same
// Idempotency-Key return the already stored receipt.
func (s *Service) Create(ctx context.Context, tenantID int64, req CreateReceiptRequest) (*Receipt, error) {
	if (req.InvoiceID == nil) == (req.QuotationID == nil) {
		return nil, ErrAmbiguousParent
	}

	var clientName string
	switch {
	case req.InvoiceID != nil:
		inv, err := s.invoices.Get(ctx, tenantID, *req.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("get invoice: %w", err)
		}
		clientName = inv.ClientName
	case req.QuotationID != nil:
		q, err := s.quotations.Get(ctx, tenantID, *req.QuotationID)
		if err != nil {
			return nil, fmt.Errorf("get quotation: %w", err)
		}
		clientName = q.ClientName
	}

	number, err := s.repo.GenerateNumber(ctx, tenantID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("generate receipt number: %w", err)
	}

	rcp := Receipt{
		TenantID:       tenantID,
		ReceiptNumber:  number,
		InvoiceID:      req.InvoiceID,
		QuotationID:    req.QuotationID,
		ClientName:     clientName,
		Date:           req.Date,
		Amount:         req.Amount,
		PaymentType:    req.PaymentType,
		PaymentMethod:  req.PaymentMethod,
		Reference:      req.Reference,
		Notes:          req.Notes,
		Status:         StatusCleared,
		IdempotencyKey: req.IdempotencyKey,
	}
	// Cheques clear later; everything else counts immediately.
	if req.PaymentMethod == "cheque" {
		rcp.Status = StatusPending
	}

	id, _, err := s.repo.CreateAndReconcile(ctx, rcp)
	if err != nil {
		return nil, fmt.Errorf("record receipt: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

// SetStatus moves a receipt through pending -> cleared/rejected, or from
// cleared to rejected. Rejecting restores the balance the receipt had
// consumed; a rejected receipt is final.
func (s *Service) SetStatus(ctx context.Context, tenantID, id int64, status Status) (*Receipt, error) {
	existing, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !validTransition(existing.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, existing.Status, status)
	}
	if err := s.repo.SetStatusAndReconcile(ctx, tenantID, id, existing.Status, status); err != nil {
		return nil, fmt.Errorf("update receipt status: %w", err)
	}
	return s.repo.Get(ctx, tenantID, id)
}

func validTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusCleared || to == StatusRejected
	case StatusCleared:
		return to == StatusRejected
	default:
		return false
	}
}

func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Receipt, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, req ListReceiptsRequest) ([]Receipt, int, error) {
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}
