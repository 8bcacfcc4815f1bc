package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
	"github.com/bizledger/bizledger/internal/masterdata/vendors"
)

type mockRepository struct {
	payments map[int64]*Payment
	nextID   int64
	seq      int
}

func newMockRepository() *mockRepository {
	return &mockRepository{payments: map[int64]*Payment{}, nextID: 1}
}

func (m *mockRepository) Get(_ context.Context, tenantID, id int64) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok || p.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepository) List(_ context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	var out []Payment
	for _, p := range m.payments {
		if p.TenantID == req.TenantID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, p Payment) (int64, error) {
	p.ID = m.nextID
	m.nextID++
	m.payments[p.ID] = &p
	return p.ID, nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, tenantID, id int64, status Status) error {
	p, ok := m.payments[id]
	if !ok || p.TenantID != tenantID {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *mockRepository) GenerateNumber(_ context.Context, _ int64, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("PAY-%s%04d", date.Format("0601"), m.seq), nil
}

type mockVendors struct {
	vendors map[int64]vendors.Vendor
}

func (m *mockVendors) Get(_ context.Context, _ int64, id int64) (vendors.Vendor, error) {
	v, ok := m.vendors[id]
	if !ok {
		return vendors.Vendor{}, shared.ErrNotFound
	}
	return v, nil
}

func testDate() time.Time {
	return time.Date(2026, 4, 12, 0, 0, 0, 0, time.Local)
}

func TestCreateDefaultsVendorName(t *testing.T) {
	repo := newMockRepository()
	vendorID := int64(4)
	svc := NewService(repo, &mockVendors{vendors: map[int64]vendors.Vendor{
		vendorID: {ID: vendorID, Name: "Mehta Supplies"},
	}})

	p, err := svc.Create(context.Background(), 1, CreatePaymentRequest{
		RecipientType: RecipientVendor,
		RecipientID:   &vendorID,
		Date:          testDate(),
		Amount:        5400,
		Category:      "raw materials",
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	assert.Equal(t, "Mehta Supplies", p.RecipientName)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, "PAY-26040001", p.PaymentNumber)
}

func TestCreateKeepsExplicitName(t *testing.T) {
	repo := newMockRepository()
	vendorID := int64(4)
	svc := NewService(repo, &mockVendors{vendors: map[int64]vendors.Vendor{
		vendorID: {ID: vendorID, Name: "Mehta Supplies"},
	}})

	p, err := svc.Create(context.Background(), 1, CreatePaymentRequest{
		RecipientType: RecipientVendor,
		RecipientID:   &vendorID,
		RecipientName: "Mehta Supplies (advance)",
		Date:          testDate(),
		Amount:        1000,
		Category:      "raw materials",
		PaymentMethod: "upi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mehta Supplies (advance)", p.RecipientName)
}

func TestCreateRequiresRecipientName(t *testing.T) {
	svc := NewService(newMockRepository(), &mockVendors{})

	_, err := svc.Create(context.Background(), 1, CreatePaymentRequest{
		RecipientType: RecipientOther,
		Date:          testDate(),
		Amount:        2500,
		Category:      "rent",
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, ErrRecipientUnknown)
}

func TestCreateRejectsUnknownVendor(t *testing.T) {
	svc := NewService(newMockRepository(), &mockVendors{})
	vendorID := int64(99)

	_, err := svc.Create(context.Background(), 1, CreatePaymentRequest{
		RecipientType: RecipientVendor,
		RecipientID:   &vendorID,
		Date:          testDate(),
		Amount:        100,
		Category:      "misc",
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &mockVendors{})

	p, err := svc.Create(context.Background(), 1, CreatePaymentRequest{
		RecipientType: RecipientEmployee,
		RecipientName: "A. Nair",
		Date:          testDate(),
		Amount:        42000,
		Category:      "salary",
		PaymentMethod: "bank_transfer",
		Status:        StatusPending,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, p.Status)

	p, err = svc.SetStatus(context.Background(), 1, p.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, p.Status)
}
