package receipts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizledger/bizledger/internal/billing/invoices"
	"github.com/bizledger/bizledger/internal/billing/quotations"
)

// ============================================================================
// MOCKS
// ============================================================================

// mockRepository mirrors the transactional semantics of the real repository:
// creation and status changes recompute the parent balance from the sum of
// non-rejected receipts.
type mockRepository struct {
	receipts map[int64]*Receipt
	invoice  *invoices.Invoice
	nextID   int64
	seq      int64

	// afterGet, when set, runs after each Get. Tests use it to mutate
	// stored receipts between the service's snapshot and the update.
	afterGet func()
}

func newMockRepository(inv *invoices.Invoice) *mockRepository {
	return &mockRepository{receipts: make(map[int64]*Receipt), invoice: inv, nextID: 1}
}

func (m *mockRepository) Get(ctx context.Context, tenantID, id int64) (*Receipt, error) {
	rcp, ok := m.receipts[id]
	if !ok || rcp.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *rcp
	if m.afterGet != nil {
		m.afterGet()
	}
	return &cp, nil
}

func (m *mockRepository) List(ctx context.Context, req ListReceiptsRequest) ([]Receipt, int, error) {
	var result []Receipt
	for _, rcp := range m.receipts {
		if rcp.TenantID == req.TenantID {
			result = append(result, *rcp)
		}
	}
	return result, len(result), nil
}

func (m *mockRepository) countedSum() float64 {
	var paid float64
	for _, rcp := range m.receipts {
		if rcp.Counted() {
			paid += rcp.Amount
		}
	}
	return paid
}

func (m *mockRepository) reconcile() {
	paid := m.countedSum()
	m.invoice.PaidAmount = paid
	m.invoice.BalanceAmount = m.invoice.GrandTotal - paid
	m.invoice.Status = invoices.StatusFor(m.invoice.BalanceAmount)
}

func (m *mockRepository) CreateAndReconcile(ctx context.Context, rcp Receipt) (int64, bool, error) {
	if rcp.IdempotencyKey != "" {
		for id, stored := range m.receipts {
			if stored.IdempotencyKey == rcp.IdempotencyKey {
				return id, false, nil
			}
		}
	}
	outstanding := m.invoice.GrandTotal - m.countedSum()
	if rcp.Amount > outstanding+0.005 {
		return 0, false, fmt.Errorf("%w: %.2f outstanding", ErrExceedsBalance, outstanding)
	}
	rcp.ID = m.nextID
	m.nextID++
	m.receipts[rcp.ID] = &rcp
	m.reconcile()
	return rcp.ID, true, nil
}

func (m *mockRepository) SetStatusAndReconcile(ctx context.Context, tenantID, id int64, from, to Status) error {
	rcp, ok := m.receipts[id]
	if !ok {
		return ErrNotFound
	}
	if rcp.Status != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, rcp.Status, to)
	}
	rcp.Status = to
	m.reconcile()
	return nil
}

func (m *mockRepository) GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("RCP-%s-%04d", date.Format("0601"), m.seq), nil
}

type mockInvoices struct{ invoice *invoices.Invoice }

func (m *mockInvoices) Get(ctx context.Context, tenantID, id int64) (*invoices.Invoice, error) {
	if m.invoice == nil || m.invoice.ID != id {
		return nil, invoices.ErrNotFound
	}
	cp := *m.invoice
	return &cp, nil
}

type mockQuotations struct{}

func (m *mockQuotations) Get(ctx context.Context, tenantID, id int64) (*quotations.Quotation, error) {
	return nil, quotations.ErrNotFound
}

// ============================================================================
// FIXTURES
// ============================================================================

const tenantID = int64(7)

func newTestService() (*Service, *mockRepository, *invoices.Invoice) {
	inv := &invoices.Invoice{
		ID:            40,
		TenantID:      tenantID,
		InvoiceNumber: "INV-2608-0001",
		ClientName:    "Acme",
		GrandTotal:    2124,
		BalanceAmount: 2124,
		Status:        invoices.StatusNotCleared,
		IsActive:      true,
	}
	repo := newMockRepository(inv)
	svc := NewService(repo, &mockInvoices{invoice: inv}, &mockQuotations{})
	return svc, repo, inv
}

func createRequest(amount float64) CreateReceiptRequest {
	invoiceID := int64(40)
	return CreateReceiptRequest{
		InvoiceID:     &invoiceID,
		Date:          time.Date(2026, 8, 15, 0, 0, 0, 0, time.Local),
		Amount:        amount,
		PaymentType:   PaymentPartial,
		PaymentMethod: "bank_transfer",
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateReducesBalance(t *testing.T) {
	svc, _, inv := newTestService()

	rcp, err := svc.Create(context.Background(), tenantID, createRequest(500))
	require.NoError(t, err)

	assert.Contains(t, rcp.ReceiptNumber, "RCP-2608-")
	assert.Equal(t, StatusCleared, rcp.Status)
	assert.Equal(t, "Acme", rcp.ClientName)
	assert.InDelta(t, 500, inv.PaidAmount, 0.001)
	assert.InDelta(t, 1624, inv.BalanceAmount, 0.001)
	assert.Equal(t, invoices.StatusNotCleared, inv.Status)
}

func TestFullPaymentClearsInvoice(t *testing.T) {
	svc, _, inv := newTestService()

	req := createRequest(2124)
	req.PaymentType = PaymentFull
	_, err := svc.Create(context.Background(), tenantID, req)
	require.NoError(t, err)

	assert.InDelta(t, 0, inv.BalanceAmount, 0.001)
	assert.Equal(t, invoices.StatusCleared, inv.Status)
}

func TestAmountMayNotExceedOutstanding(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), tenantID, createRequest(1500))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), tenantID, createRequest(1500))
	assert.ErrorIs(t, err, ErrExceedsBalance)
}

func TestIdempotencyKeyDedupes(t *testing.T) {
	svc, repo, inv := newTestService()

	req := createRequest(500)
	req.IdempotencyKey = "k-123"

	first, err := svc.Create(context.Background(), tenantID, req)
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), tenantID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.receipts, 1)
	assert.InDelta(t, 500, inv.PaidAmount, 0.001)
}

func TestRejectRestoresBalance(t *testing.T) {
	svc, _, inv := newTestService()

	rcp, err := svc.Create(context.Background(), tenantID, createRequest(500))
	require.NoError(t, err)
	require.InDelta(t, 1624, inv.BalanceAmount, 0.001)

	rejected, err := svc.SetStatus(context.Background(), tenantID, rcp.ID, StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.InDelta(t, 2124, inv.BalanceAmount, 0.001)
	assert.Zero(t, inv.PaidAmount)
}

func TestChequeStartsPendingButCounts(t *testing.T) {
	svc, _, inv := newTestService()

	req := createRequest(500)
	req.PaymentMethod = "cheque"
	rcp, err := svc.Create(context.Background(), tenantID, req)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, rcp.Status)
	assert.InDelta(t, 1624, inv.BalanceAmount, 0.001)

	cleared, err := svc.SetStatus(context.Background(), tenantID, rcp.ID, StatusCleared)
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, cleared.Status)
	// Clearing does not double-count the pending amount.
	assert.InDelta(t, 1624, inv.BalanceAmount, 0.001)
}

func TestRejectedIsFinal(t *testing.T) {
	svc, _, _ := newTestService()

	rcp, err := svc.Create(context.Background(), tenantID, createRequest(500))
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), tenantID, rcp.ID, StatusRejected)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), tenantID, rcp.ID, StatusCleared)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestConcurrentRejectionWins(t *testing.T) {
	svc, repo, inv := newTestService()

	req := createRequest(500)
	req.PaymentMethod = "cheque"
	rcp, err := svc.Create(context.Background(), tenantID, req)
	require.NoError(t, err)
	require.Equal(t, StatusPending, rcp.Status)

	// A second caller rejects the receipt between this caller's snapshot
	// and its update. The stale clear must fail, not resurrect the receipt.
	repo.afterGet = func() {
		repo.afterGet = nil
		repo.receipts[rcp.ID].Status = StatusRejected
		repo.reconcile()
	}
	_, err = svc.SetStatus(context.Background(), tenantID, rcp.ID, StatusCleared)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := svc.Get(context.Background(), tenantID, rcp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.InDelta(t, 2124, inv.BalanceAmount, 0.001)
}

func TestExactlyOneParent(t *testing.T) {
	svc, _, _ := newTestService()

	req := createRequest(500)
	quotationID := int64(9)
	req.QuotationID = &quotationID
	_, err := svc.Create(context.Background(), tenantID, req)
	assert.ErrorIs(t, err, ErrAmbiguousParent)

	req = createRequest(500)
	req.InvoiceID = nil
	_, err = svc.Create(context.Background(), tenantID, req)
	assert.ErrorIs(t, err, ErrAmbiguousParent)
}
