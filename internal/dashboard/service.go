// Package dashboard serves the landing-page aggregates. Everything here is
// read-side and recomputed per call; nothing is cached or persisted.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Range is a calendar-day interval, inclusive on both ends at local
// midnight boundaries.
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange snaps both ends to local midnight. End returns the exclusive
// upper bound, one day past To.
func NewRange(from, to time.Time) Range {
	return Range{
		From: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local),
		To:   time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.Local),
	}
}

// End is the exclusive upper bound of the range.
func (r Range) End() time.Time {
	return r.To.AddDate(0, 0, 1)
}

// Repository answers the individual aggregates. Each method is one query;
// the service fans them out in parallel.
type Repository interface {
	RevenueReceived(ctx context.Context, tenantID int64, rng Range) (float64, error)
	Outstanding(ctx context.Context, tenantID int64) (float64, error)
	Expenses(ctx context.Context, tenantID int64, rng Range) (float64, error)
	QuotationCount(ctx context.Context, tenantID int64, rng Range) (int64, error)
	InvoiceCount(ctx context.Context, tenantID int64, rng Range) (int64, error)
	ReceiptCount(ctx context.Context, tenantID int64, rng Range) (int64, error)
	PaymentCount(ctx context.Context, tenantID int64, rng Range) (int64, error)
	ClientCount(ctx context.Context, tenantID int64) (int64, error)
}

// Summary is the dashboard payload. Formatted fields carry Indian digit
// grouping for direct display.
type Summary struct {
	From                    time.Time `json:"from"`
	To                      time.Time `json:"to"`
	RevenueReceived         float64   `json:"revenue_received"`
	RevenueReceivedDisplay  string    `json:"revenue_received_display"`
	Outstanding             float64   `json:"outstanding"`
	OutstandingDisplay      string    `json:"outstanding_display"`
	Expenses                float64   `json:"expenses"`
	ExpensesDisplay         string    `json:"expenses_display"`
	QuotationCount          int64     `json:"quotation_count"`
	InvoiceCount            int64     `json:"invoice_count"`
	ReceiptCount            int64     `json:"receipt_count"`
	PaymentCount            int64     `json:"payment_count"`
	ClientCount             int64     `json:"client_count"`
}

type Service struct {
	repo    Repository
	printer *message.Printer
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, printer: message.NewPrinter(language.MustParse("en-IN"))}
}

// Summarize fans out one query per aggregate and assembles the payload. A
// single failing query fails the whole call; partial dashboards mislead.
func (s *Service) Summarize(ctx context.Context, tenantID int64, rng Range) (*Summary, error) {
	summary := &Summary{From: rng.From, To: rng.To}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.RevenueReceived, err = s.repo.RevenueReceived(gctx, tenantID, rng)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Outstanding, err = s.repo.Outstanding(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Expenses, err = s.repo.Expenses(gctx, tenantID, rng)
		return err
	})
	g.Go(func() error {
		var err error
		summary.QuotationCount, err = s.repo.QuotationCount(gctx, tenantID, rng)
		return err
	})
	g.Go(func() error {
		var err error
		summary.InvoiceCount, err = s.repo.InvoiceCount(gctx, tenantID, rng)
		return err
	})
	g.Go(func() error {
		var err error
		summary.ReceiptCount, err = s.repo.ReceiptCount(gctx, tenantID, rng)
		return err
	})
	g.Go(func() error {
		var err error
		summary.PaymentCount, err = s.repo.PaymentCount(gctx, tenantID, rng)
		return err
	})
	g.Go(func() error {
		var err error
		summary.ClientCount, err = s.repo.ClientCount(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.RevenueReceivedDisplay = s.FormatINR(summary.RevenueReceived)
	summary.OutstandingDisplay = s.FormatINR(summary.Outstanding)
	summary.ExpensesDisplay = s.FormatINR(summary.Expenses)
	return summary, nil
}

// FormatINR renders an amount with Indian digit grouping, e.g. ₹12,34,567.89.
func (s *Service) FormatINR(amount float64) string {
	return s.printer.Sprintf("₹%.2f", amount)
}
