package jobs

import (
	"context"
	"log/slog"
	"math"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskBalanceAudit cross-checks stored invoice balances against the receipt
// ledger and logs any drift.
const TaskBalanceAudit = "billing:balance_audit"

// NewBalanceAuditTask constructs the nightly balance audit task.
func NewBalanceAuditTask() *asynq.Task {
	return asynq.NewTask(TaskBalanceAudit, nil, asynq.Queue(QueueDefault))
}

// HandleBalanceAudit recomputes each invoice's paid amount from its
// non-rejected receipts and logs rows that disagree with the stored figure.
// The audit only reports; reconciliation stays with the receipts package.
func HandleBalanceAudit(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		rows, err := pool.Query(ctx, `
SELECT i.id, i.tenant_id, i.paid_amount,
       COALESCE(SUM(r.amount) FILTER (WHERE r.status <> 'rejected'), 0) AS receipted
FROM invoices i
LEFT JOIN receipts r ON r.invoice_id = i.id
WHERE i.is_active
GROUP BY i.id, i.tenant_id, i.paid_amount
HAVING ABS(i.paid_amount - COALESCE(SUM(r.amount) FILTER (WHERE r.status <> 'rejected'), 0)) > 0.005`)
		if err != nil {
			logger.Error("balance audit query", slog.Any("error", err))
			return err
		}
		defer rows.Close()

		var drifted int
		for rows.Next() {
			var (
				id, tenantID    int64
				paid, receipted float64
			)
			if err := rows.Scan(&id, &tenantID, &paid, &receipted); err != nil {
				return err
			}
			drifted++
			logger.Warn("invoice balance drift",
				slog.Int64("invoice_id", id),
				slog.Int64("tenant_id", tenantID),
				slog.Float64("paid_amount", paid),
				slog.Float64("receipted", receipted),
				slog.Float64("drift", math.Abs(paid-receipted)))
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if drifted == 0 {
			logger.Info("balance audit clean")
		}
		return nil
	}
}
