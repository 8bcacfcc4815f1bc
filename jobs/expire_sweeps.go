package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskQuotationExpireSweep persists the expired status on lapsed quotations.
	TaskQuotationExpireSweep = "quotation:expire_sweep"
	// TaskSubscriptionExpireSweep stamps expired on lapsed subscriptions.
	TaskSubscriptionExpireSweep = "subscription:expire_sweep"
)

// QuotationSweeper marks created quotations past their validity as expired.
// Satisfied by the quotations repository.
type QuotationSweeper interface {
	MarkExpired(ctx context.Context, before time.Time) (int64, error)
}

// SubscriptionSweeper stamps lapsed subscriptions. Satisfied by the
// subscriptions service.
type SubscriptionSweeper interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// NewQuotationExpireSweepTask constructs the nightly quotation sweep task.
func NewQuotationExpireSweepTask() *asynq.Task {
	return asynq.NewTask(TaskQuotationExpireSweep, nil, asynq.Queue(QueueDefault))
}

// NewSubscriptionExpireSweepTask constructs the nightly subscription sweep task.
func NewSubscriptionExpireSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSubscriptionExpireSweep, nil, asynq.Queue(QueueDefault))
}

// HandleQuotationExpireSweep runs the quotation sweep. The cutoff is local
// midnight so a quotation stays valid through the whole of its validity day.
func HandleQuotationExpireSweep(sweeper QuotationSweeper, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		now := time.Now()
		cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		n, err := sweeper.MarkExpired(ctx, cutoff)
		if err != nil {
			logger.Error("quotation expire sweep", slog.Any("error", err))
			return err
		}
		if n > 0 {
			logger.Info("quotations expired", slog.Int64("count", n))
		}
		return nil
	}
}

// HandleSubscriptionExpireSweep runs the subscription sweep.
func HandleSubscriptionExpireSweep(sweeper SubscriptionSweeper, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := sweeper.ExpireLapsed(ctx)
		if err != nil {
			logger.Error("subscription expire sweep", slog.Any("error", err))
			return err
		}
		if n > 0 {
			logger.Info("subscriptions expired", slog.Int64("count", n))
		}
		return nil
	}
}
