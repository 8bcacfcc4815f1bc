package invoices

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/billing/quotations"
	"github.com/bizledger/bizledger/internal/masterdata/banks"
	"github.com/bizledger/bizledger/internal/masterdata/clients"
	"github.com/bizledger/bizledger/internal/masterdata/items"
	"github.com/bizledger/bizledger/internal/masterdata/taxes"
	"github.com/bizledger/bizledger/internal/masterdata/terms"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockRepository struct {
	invoices map[int64]*Invoice
	stamped  map[int64]int64 // quotationID -> invoiceID
	source   *mockQuotations
	nextID   int64
	seq      int64
}

func newMockRepository(source *mockQuotations) *mockRepository {
	return &mockRepository{invoices: make(map[int64]*Invoice), stamped: make(map[int64]int64), source: source, nextID: 1}
}

func (m *mockRepository) Get(ctx context.Context, tenantID, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *inv
	cp.Items = append([]billing.Line(nil), inv.Items...)
	return &cp, nil
}

func (m *mockRepository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var result []Invoice
	for _, inv := range m.invoices {
		if inv.TenantID == req.TenantID {
			result = append(result, *inv)
		}
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, inv Invoice) (int64, error) {
	inv.ID = m.nextID
	m.nextID++
	m.invoices[inv.ID] = &inv
	return inv.ID, nil
}

func (m *mockRepository) CreateConverted(ctx context.Context, inv Invoice, quotationID int64) (int64, error) {
	q, ok := m.source.quotations[quotationID]
	if !ok || q.Status != quotations.StatusAccepted {
		return 0, ErrQuotationNotConvertible
	}
	id, _ := m.Create(ctx, inv)
	q.Status = quotations.StatusInvoiceCreated
	q.SalesInvoiceID = &id
	m.stamped[quotationID] = id
	return id, nil
}

func (m *mockRepository) UpdateDocument(ctx context.Context, inv Invoice) error {
	stored, ok := m.invoices[inv.ID]
	if !ok {
		return ErrNotFound
	}
	*stored = inv
	return nil
}

func (m *mockRepository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	inv, ok := m.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.IsActive = active
	return nil
}

func (m *mockRepository) GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("INV-%s-%04d", date.Format("0601"), m.seq), nil
}

type mockQuotations struct {
	quotations map[int64]*quotations.Quotation
}

func (m *mockQuotations) Get(ctx context.Context, tenantID, id int64) (*quotations.Quotation, error) {
	q, ok := m.quotations[id]
	if !ok || q.TenantID != tenantID {
		return nil, quotations.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

type mockClientDir struct{ clients map[int64]clients.Client }

func (m *mockClientDir) Get(ctx context.Context, tenantID, id int64) (clients.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return clients.Client{}, quotations.ErrNotFound
	}
	return c, nil
}

type mockCatalog struct{ items map[int64]items.Item }

func (m *mockCatalog) Get(ctx context.Context, tenantID, id int64) (items.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return items.Item{}, quotations.ErrNotFound
	}
	return it, nil
}

type mockTaxRegistry struct{ active map[taxes.Kind]bool }

func (m *mockTaxRegistry) ActiveKinds(ctx context.Context, tenantID int64) (map[taxes.Kind]bool, error) {
	return m.active, nil
}

type mockBanks struct{ accounts map[int64]banks.Account }

func (m *mockBanks) Get(ctx context.Context, tenantID, id int64) (banks.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return banks.Account{}, quotations.ErrNotFound
	}
	return a, nil
}

type mockTerms struct{ entries map[int64]terms.Terms }

func (m *mockTerms) Get(ctx context.Context, tenantID, id int64) (terms.Terms, error) {
	t, ok := m.entries[id]
	if !ok {
		return terms.Terms{}, quotations.ErrNotFound
	}
	return t, nil
}

func (m *mockTerms) GetDefault(ctx context.Context, tenantID int64) (terms.Terms, error) {
	for _, t := range m.entries {
		if t.IsDefault {
			return t, nil
		}
	}
	return terms.Terms{}, quotations.ErrNotFound
}

// ============================================================================
// FIXTURES
// ============================================================================

const tenantID = int64(7)

func acceptedQuotation() *quotations.Quotation {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local)
	return &quotations.Quotation{
		ID:              100,
		TenantID:        tenantID,
		QuotationNumber: "QT-2608-0001",
		ClientID:        1,
		ClientName:      "Acme",
		ClientEmail:     "a@acme.com",
		ClientPhone:     "9876543210",
		Date:            date,
		Validity:        date.AddDate(0, 1, 0),
		Items: []billing.Line{{
			ItemID: 10, ItemName: "Widget", Quantity: 2, Price: 1000, Discount: 100,
			CGST: 9, SGST: 9, TaxRate: 18, Amount: 1800, TaxAmount: 324, Total: 2124,
		}},
		GrandTotal:    2124,
		BalanceAmount: 2124,
		Status:        quotations.StatusAccepted,
		IsActive:      true,
	}
}

func newTestService() (*Service, *mockRepository, *mockQuotations) {
	source := &mockQuotations{quotations: map[int64]*quotations.Quotation{100: acceptedQuotation()}}
	repo := newMockRepository(source)
	dir := &mockClientDir{clients: map[int64]clients.Client{
		1: {ID: 1, TenantID: tenantID, Name: "Acme", Email: "a@acme.com", Phone: "9876543210", Status: clients.StatusActive},
	}}
	catalog := &mockCatalog{items: map[int64]items.Item{
		10: {ID: 10, TenantID: tenantID, Name: "Widget", Type: items.TypeProduct, Price: 1000,
			ApplyTax: true, CGST: 9, SGST: 9, IsActive: true},
	}}
	taxReg := &mockTaxRegistry{active: map[taxes.Kind]bool{taxes.KindCGST: true, taxes.KindSGST: true, taxes.KindIGST: true}}
	bankReg := &mockBanks{accounts: map[int64]banks.Account{
		5: {ID: 5, TenantID: tenantID, AccountName: "Acme Ops", AccountNumber: "123456789012", BankName: "HDFC", IFSC: "HDFC0001234", Branch: "MG Road"},
	}}
	termsSrc := &mockTerms{entries: map[int64]terms.Terms{
		3: {ID: 3, TenantID: tenantID, Title: "Standard", Body: "Payment due in 15 days.", IsDefault: true},
	}}
	svc := NewService(repo, source, dir, catalog, taxReg, bankReg, termsSrc)
	return svc, repo, source
}

func convertRequest() ConvertRequest {
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	bankID := int64(5)
	return ConvertRequest{QuotationID: 100, Date: date, DueDate: date.AddDate(0, 0, 15), BankAccountID: &bankID}
}

// ============================================================================
// TESTS
// ============================================================================

func TestConvertCopiesQuotation(t *testing.T) {
	svc, repo, source := newTestService()

	inv, err := svc.Convert(context.Background(), tenantID, convertRequest())
	require.NoError(t, err)

	assert.Contains(t, inv.InvoiceNumber, "INV-2608-")
	require.NotNil(t, inv.QuotationID)
	assert.EqualValues(t, 100, *inv.QuotationID)
	assert.InDelta(t, 2124, inv.GrandTotal, 0.001)
	assert.InDelta(t, 2124, inv.BalanceAmount, 0.001)
	assert.Equal(t, StatusNotCleared, inv.Status)
	assert.Equal(t, "Acme", inv.ClientName)
	require.Len(t, inv.Items, 1)
	assert.InDelta(t, 2124, inv.Items[0].Total, 0.001)

	// Bank and terms snapshotted from the registries.
	assert.Equal(t, "HDFC0001234", inv.Bank.IFSC)
	assert.Equal(t, "Payment due in 15 days.", inv.Terms)

	// Quotation stamped in the same operation.
	q := source.quotations[100]
	assert.Equal(t, quotations.StatusInvoiceCreated, q.Status)
	require.NotNil(t, q.SalesInvoiceID)
	assert.Equal(t, inv.ID, *q.SalesInvoiceID)
	assert.Equal(t, inv.ID, repo.stamped[100])
}

func TestConvertRejectsNonAccepted(t *testing.T) {
	svc, _, source := newTestService()
	source.quotations[100].Status = quotations.StatusCreated

	_, err := svc.Convert(context.Background(), tenantID, convertRequest())
	assert.ErrorIs(t, err, ErrQuotationNotConvertible)
}

func TestConvertOnlyOnce(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Convert(context.Background(), tenantID, convertRequest())
	require.NoError(t, err)

	_, err = svc.Convert(context.Background(), tenantID, convertRequest())
	assert.ErrorIs(t, err, ErrQuotationNotConvertible)
}

func TestQuotationEditAfterConversionDoesNotReachInvoice(t *testing.T) {
	svc, repo, source := newTestService()

	inv, err := svc.Convert(context.Background(), tenantID, convertRequest())
	require.NoError(t, err)

	// Mutating the quotation record afterwards leaves the invoice untouched.
	source.quotations[100].GrandTotal = 9999
	source.quotations[100].Items[0].Price = 9999

	again, err := repo.Get(context.Background(), tenantID, inv.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2124, again.GrandTotal, 0.001)
	assert.InDelta(t, 1000, again.Items[0].Price, 0.001)
}

func TestCreateStandalone(t *testing.T) {
	svc, _, _ := newTestService()

	date := time.Date(2026, 8, 12, 0, 0, 0, 0, time.Local)
	inv, err := svc.Create(context.Background(), tenantID, CreateInvoiceRequest{
		ClientID: 1,
		Date:     date,
		DueDate:  date.AddDate(0, 0, 30),
		Lines: []quotations.CreateLineRequest{
			{ItemID: 10, Type: items.TypeProduct, Quantity: 2, Discount: 100},
		},
	})
	require.NoError(t, err)

	assert.Nil(t, inv.QuotationID)
	assert.InDelta(t, 2124, inv.GrandTotal, 0.001)
	assert.Equal(t, StatusNotCleared, inv.Status)
	// Default terms apply when none chosen.
	assert.Equal(t, "Payment due in 15 days.", inv.Terms)
}

func TestUpdateBlockedAfterPayment(t *testing.T) {
	svc, repo, _ := newTestService()

	inv, err := svc.Convert(context.Background(), tenantID, convertRequest())
	require.NoError(t, err)
	repo.invoices[inv.ID].PaidAmount = 500

	_, err = svc.Update(context.Background(), tenantID, inv.ID, UpdateInvoiceRequest{})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdateRecomputesBalanceAndStatus(t *testing.T) {
	svc, _, _ := newTestService()

	inv, err := svc.Convert(context.Background(), tenantID, convertRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), tenantID, inv.ID, UpdateInvoiceRequest{
		Lines: []billing.LineInput{
			{ItemID: 10, ItemName: "Widget", Quantity: 1, Price: 1000, Discount: 100, CGST: 9, SGST: 9},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1062, updated.GrandTotal, 0.001)
	assert.InDelta(t, 1062, updated.BalanceAmount, 0.001)
	assert.Equal(t, StatusNotCleared, updated.Status)
}

func TestDueDateMustFollowDate(t *testing.T) {
	svc, _, _ := newTestService()
	req := convertRequest()
	req.DueDate = req.Date.AddDate(0, 0, -1)

	_, err := svc.Convert(context.Background(), tenantID, req)
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestStatusForBalance(t *testing.T) {
	assert.Equal(t, StatusCleared, StatusFor(0))
	assert.Equal(t, StatusCleared, StatusFor(-0.004))
	assert.Equal(t, StatusNotCleared, StatusFor(0.01))
}
