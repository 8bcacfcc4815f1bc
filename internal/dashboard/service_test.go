package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	revenue     float64
	outstanding float64
	expenses    float64
	quotations  int64
	invoices    int64
	receipts    int64
	payments    int64
	clients     int64

	failOn string
	ranges []Range
}

var errAggregate = errors.New("aggregate failed")

func (m *mockRepo) RevenueReceived(_ context.Context, _ int64, rng Range) (float64, error) {
	m.ranges = append(m.ranges, rng)
	if m.failOn == "revenue" {
		return 0, errAggregate
	}
	return m.revenue, nil
}

func (m *mockRepo) Outstanding(context.Context, int64) (float64, error) {
	if m.failOn == "outstanding" {
		return 0, errAggregate
	}
	return m.outstanding, nil
}

func (m *mockRepo) Expenses(_ context.Context, _ int64, _ Range) (float64, error) {
	return m.expenses, nil
}

func (m *mockRepo) QuotationCount(_ context.Context, _ int64, _ Range) (int64, error) {
	return m.quotations, nil
}

func (m *mockRepo) InvoiceCount(_ context.Context, _ int64, _ Range) (int64, error) {
	return m.invoices, nil
}

func (m *mockRepo) ReceiptCount(_ context.Context, _ int64, _ Range) (int64, error) {
	return m.receipts, nil
}

func (m *mockRepo) PaymentCount(_ context.Context, _ int64, _ Range) (int64, error) {
	return m.payments, nil
}

func (m *mockRepo) ClientCount(context.Context, int64) (int64, error) {
	return m.clients, nil
}

func TestSummarizeAssemblesAggregates(t *testing.T) {
	repo := &mockRepo{
		revenue:     125000.50,
		outstanding: 43000,
		expenses:    18250.25,
		quotations:  12,
		invoices:    9,
		receipts:    15,
		payments:    4,
		clients:     7,
	}
	svc := NewService(repo)

	rng := NewRange(
		time.Date(2026, 1, 1, 10, 30, 0, 0, time.Local),
		time.Date(2026, 1, 31, 18, 0, 0, 0, time.Local),
	)
	summary, err := svc.Summarize(context.Background(), 1, rng)
	require.NoError(t, err)

	assert.Equal(t, 125000.50, summary.RevenueReceived)
	assert.Equal(t, 43000.0, summary.Outstanding)
	assert.Equal(t, 18250.25, summary.Expenses)
	assert.Equal(t, int64(12), summary.QuotationCount)
	assert.Equal(t, int64(9), summary.InvoiceCount)
	assert.Equal(t, int64(15), summary.ReceiptCount)
	assert.Equal(t, int64(4), summary.PaymentCount)
	assert.Equal(t, int64(7), summary.ClientCount)
	assert.NotEmpty(t, summary.RevenueReceivedDisplay)
	assert.NotEmpty(t, summary.OutstandingDisplay)
}

func TestSummarizeFailsWhole(t *testing.T) {
	svc := NewService(&mockRepo{failOn: "outstanding"})

	_, err := svc.Summarize(context.Background(), 1, NewRange(time.Now().AddDate(0, 0, -7), time.Now()))
	assert.ErrorIs(t, err, errAggregate)
}

func TestRangeSnapsToCalendarDays(t *testing.T) {
	rng := NewRange(
		time.Date(2026, 3, 10, 14, 45, 12, 0, time.Local),
		time.Date(2026, 3, 10, 23, 59, 59, 0, time.Local),
	)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local), rng.From)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local), rng.To)
	// Single-day range still covers the full day.
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local), rng.End())
}

func TestFormatINRUsesIndianGrouping(t *testing.T) {
	svc := NewService(&mockRepo{})

	assert.Equal(t, "₹12,34,567.89", svc.FormatINR(1234567.89))
	assert.Equal(t, "₹0.00", svc.FormatINR(0))
	assert.Equal(t, "₹999.50", svc.FormatINR(999.5))
}
