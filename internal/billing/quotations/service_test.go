package quotations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

	"github.com/bizledger/bizledger/internal/masterdata/clients"
	"github.com/bizledger/bizledger/internal/masterdata/items"
	"github.com/bizledger/bizledger/internal/masterdata/taxes"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockRepository struct {
	quotations map[int64]*Quotation
	nextID     int64
	seq        int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{quotations: make(map[int64]*Quotation), nextID: 1}
}

func (m *mockRepository) Get(ctx context.Context, tenantID, id int64) (*Quotation, error) {
	q, ok := m.quotations[id]
	if !ok || q.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *q
	cp.Items = append([]billing.Line(nil), q.Items...)
	return &cp, nil
}

func (m *mockRepository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	var result []Quotation
	for _, q := range m.quotations {
		if q.TenantID == req.TenantID {
			result = append(result, *q)
		}
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, q Quotation) (int64, error) {
	q.ID = m.nextID
	m.nextID++
	m.quotations[q.ID] = &q
	return q.ID, nil
}

func (m *mockRepository) UpdateDocument(ctx context.Context, q Quotation) error {
	stored, ok := m.quotations[q.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Date = q.Date
	stored.Validity = q.Validity
	stored.Items = q.Items
	stored.GrandTotal = q.GrandTotal
	stored.BalanceAmount = q.BalanceAmount
	return nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.Status = status
	return nil
}

func (m *mockRepository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.IsActive = active
	return nil
}

func (m *mockRepository) GenerateNumber(ctx context.Context, tenantID int64, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("QT-%s-%04d", date.Format("0601"), m.seq), nil
}

func (m *mockRepository) MarkExpired(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for _, q := range m.quotations {
		if q.Status == StatusCreated && q.Validity.Before(before) {
			q.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

type mockClientDir struct {
	clients map[int64]clients.Client
}

func (m *mockClientDir) Get(ctx context.Context, tenantID, id int64) (clients.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return clients.Client{}, ErrNotFound
	}
	return c, nil
}

type mockCatalog struct {
	items map[int64]items.Item
}

func (m *mockCatalog) Get(ctx context.Context, tenantID, id int64) (items.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return items.Item{}, ErrNotFound
	}
	return it, nil
}

type mockTaxRegistry struct {
	active map[taxes.Kind]bool
}

func (m *mockTaxRegistry) ActiveKinds(ctx context.Context, tenantID int64) (map[taxes.Kind]bool, error) {
	return m.active, nil
}

// ============================================================================
// FIXTURES
// ============================================================================

const tenantID = int64(7)

func newTestService() (*Service, *mockRepository, *mockCatalog, *mockTaxRegistry) {
	repo := newMockRepository()
	dir := &mockClientDir{clients: map[int64]clients.Client{
		1: {ID: 1, TenantID: tenantID, Name: "Acme", Email: "a@acme.com", Phone: "9876543210", Status: clients.StatusActive},
		2: {ID: 2, TenantID: tenantID, Name: "Ghost", Status: clients.StatusInactive},
	}}
	catalog := &mockCatalog{items: map[int64]items.Item{
		10: {ID: 10, TenantID: tenantID, Name: "Widget", Type: items.TypeProduct, Description: "Standard widget",
			Price: 1000, ApplyTax: true, CGST: 9, SGST: 9, IsActive: true},
		11: {ID: 11, TenantID: tenantID, Name: "Install", Type: items.TypeService, Price: 500, ApplyTax: false, IsActive: true},
		12: {ID: 12, TenantID: tenantID, Name: "Retired", Type: items.TypeProduct, Price: 50, IsActive: false},
	}}
	taxReg := &mockTaxRegistry{active: map[taxes.Kind]bool{taxes.KindCGST: true, taxes.KindSGST: true, taxes.KindIGST: true}}
	svc := NewService(repo, dir, catalog, taxReg)
	return svc, repo, catalog, taxReg
}

func createRequest() CreateQuotationRequest {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local)
	return CreateQuotationRequest{
		ClientID: 1,
		Date:     date,
		Validity: date.AddDate(0, 1, 0),
		Lines: []CreateLineRequest{
			{ItemID: 10, Type: items.TypeProduct, Quantity: 2, Discount: 100},
		},
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateComputesTotals(t *testing.T) {
	svc, _, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	require.Len(t, q.Items, 1)
	line := q.Items[0]
	assert.Equal(t, "Widget", line.ItemName)
	assert.InDelta(t, 18, line.TaxRate, 0.001)
	assert.InDelta(t, 1800, line.Amount, 0.001)
	assert.InDelta(t, 324, line.TaxAmount, 0.001)
	assert.InDelta(t, 2124, line.Total, 0.001)

	assert.InDelta(t, 2124, q.GrandTotal, 0.001)
	assert.InDelta(t, 2124, q.BalanceAmount, 0.001)
	assert.Zero(t, q.PaidAmount)
	assert.Equal(t, StatusCreated, q.Status)
	assert.True(t, q.IsActive)
	assert.Contains(t, q.QuotationNumber, "QT-2608-")
}

func TestCreateCopiesOnlyActiveTaxKinds(t *testing.T) {
	svc, _, _, taxReg := newTestService()
	taxReg.active = map[taxes.Kind]bool{taxes.KindCGST: true} // SGST deactivated

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	line := q.Items[0]
	assert.InDelta(t, 9, line.CGST, 0.001)
	assert.Zero(t, line.SGST)
	assert.InDelta(t, 9, line.TaxRate, 0.001)
	assert.InDelta(t, 162, line.TaxAmount, 0.001)
}

func TestCreateRejectsInactiveItem(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := createRequest()
	req.Lines[0].ItemID = 12

	_, err := svc.Create(context.Background(), tenantID, req)
	assert.ErrorIs(t, err, ErrItemNotSelectable)
}

func TestCreateRejectsTypeMismatch(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := createRequest()
	req.Lines[0].Type = items.TypeService // item 10 is a product

	_, err := svc.Create(context.Background(), tenantID, req)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCreateRejectsInactiveClient(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := createRequest()
	req.ClientID = 2

	_, err := svc.Create(context.Background(), tenantID, req)
	assert.ErrorIs(t, err, ErrClientInactive)
}

func TestCatalogEditDoesNotLeakIntoQuotation(t *testing.T) {
	svc, _, catalog, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	item := catalog.items[10]
	item.Price = 9999
	catalog.items[10] = item

	again, err := svc.Get(context.Background(), tenantID, q.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1000, again.Items[0].Price, 0.001)
	assert.InDelta(t, 2124, again.GrandTotal, 0.001)
}

func TestAcceptTransitions(t *testing.T) {
	svc, _, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), tenantID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)

	// Accepting again is not offered.
	_, err = svc.Accept(context.Background(), tenantID, q.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAcceptRejectsExpired(t *testing.T) {
	svc, repo, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	svc.now = func() time.Time { return q.Validity.AddDate(0, 0, 2) }

	_, err = svc.Accept(context.Background(), tenantID, q.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	// The stored record still says created; only the read is expired.
	assert.Equal(t, StatusCreated, repo.quotations[q.ID].Status)
}

func TestExpiredServedOnRead(t *testing.T) {
	svc, _, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	svc.now = func() time.Time { return q.Validity.AddDate(0, 0, 1) }

	list, _, err := svc.List(context.Background(), ListQuotationsRequest{TenantID: tenantID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusExpired, list[0].Status)

	got, err := svc.Get(context.Background(), tenantID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)
}

func TestValidThroughValidityDay(t *testing.T) {
	svc, _, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	// Late evening of the validity day itself: still created.
	svc.now = func() time.Time {
		v := q.Validity
		return time.Date(v.Year(), v.Month(), v.Day(), 23, 30, 0, 0, time.Local)
	}
	got, err := svc.Get(context.Background(), tenantID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, got.Status)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	svc, _, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), tenantID, q.ID, UpdateQuotationRequest{
		Lines: []billing.LineInput{
			{ItemID: 10, ItemName: "Widget", Quantity: 3, Price: 1000, Discount: 100, CGST: 9, SGST: 9},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 3186, updated.GrandTotal, 0.001)
	assert.InDelta(t, 3186, updated.BalanceAmount, 0.001)
}

func TestUpdateAllowedWhileAccepted(t *testing.T) {
	svc, _, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), tenantID, q.ID)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), tenantID, q.ID, UpdateQuotationRequest{
		Lines: []billing.LineInput{
			{ItemID: 10, ItemName: "Widget", Quantity: 1, Price: 500, CGST: 9, SGST: 9},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)
	assert.InDelta(t, 590, updated.GrandTotal, 0.001)
}

func TestUpdateBlockedAfterConversion(t *testing.T) {
	svc, repo, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)
	repo.quotations[q.ID].Status = StatusInvoiceCreated

	_, err = svc.Update(context.Background(), tenantID, q.ID, UpdateQuotationRequest{})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdateBlockedWhenDisabled(t *testing.T) {
	svc, _, _, _ := newTestService()

	q, err := svc.Create(context.Background(), tenantID, createRequest())
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(context.Background(), tenantID, q.ID, false))

	_, err = svc.Update(context.Background(), tenantID, q.ID, UpdateQuotationRequest{})
	assert.ErrorIs(t, err, ErrNotEditable)

	// Toggling isActive leaves the status untouched.
	got, err := svc.Get(context.Background(), tenantID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, got.Status)
	assert.False(t, got.IsActive)
}
