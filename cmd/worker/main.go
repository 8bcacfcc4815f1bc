package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/bizledger/bizledger/internal/app"
	"github.com/bizledger/bizledger/internal/billing/quotations"
	"github.com/bizledger/bizledger/internal/platform/db"
	"github.com/bizledger/bizledger/internal/subscriptions"
	"github.com/bizledger/bizledger/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	quotationRepo := quotations.NewRepository(pool)
	subscriptionService := subscriptions.NewService(subscriptions.NewRepository(pool), cfg.TrialPeriod)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskWelcomeMail, Handler: jobs.HandleWelcomeMail(logger)},
			{Type: jobs.TaskQuotationExpireSweep, Handler: jobs.HandleQuotationExpireSweep(quotationRepo, logger)},
			{Type: jobs.TaskSubscriptionExpireSweep, Handler: jobs.HandleSubscriptionExpireSweep(subscriptionService, logger)},
			{Type: jobs.TaskBalanceAudit, Handler: jobs.HandleBalanceAudit(pool, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "5 0 * * *", Task: jobs.NewQuotationExpireSweepTask()},
			{Spec: "10 0 * * *", Task: jobs.NewSubscriptionExpireSweepTask()},
			{Spec: "30 2 * * *", Task: jobs.NewBalanceAuditTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
