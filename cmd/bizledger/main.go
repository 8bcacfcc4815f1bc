package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bizledger/bizledger/internal/app"
	"github.com/bizledger/bizledger/internal/auth"
	"github.com/bizledger/bizledger/internal/billing/invoices"
	"github.com/bizledger/bizledger/internal/billing/payments"
	"github.com/bizledger/bizledger/internal/billing/quotations"
	"github.com/bizledger/bizledger/internal/billing/receipts"
	"github.com/bizledger/bizledger/internal/cms"
	"github.com/bizledger/bizledger/internal/dashboard"
	"github.com/bizledger/bizledger/internal/hr/employees"
	"github.com/bizledger/bizledger/internal/hr/roles"
	"github.com/bizledger/bizledger/internal/masterdata/banks"
	"github.com/bizledger/bizledger/internal/masterdata/clients"
	"github.com/bizledger/bizledger/internal/masterdata/items"
	"github.com/bizledger/bizledger/internal/masterdata/taxes"
	"github.com/bizledger/bizledger/internal/masterdata/terms"
	"github.com/bizledger/bizledger/internal/masterdata/vendors"
	"github.com/bizledger/bizledger/internal/platform/cache"
	"github.com/bizledger/bizledger/internal/platform/db"
	"github.com/bizledger/bizledger/internal/shared"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	tokenManager := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	taxService := taxes.NewService(taxes.NewRepository(pool))
	itemService := items.NewService(items.NewRepository(pool))
	clientService := clients.NewService(clients.NewRepository(pool))
	vendorService := vendors.NewService(vendors.NewRepository(pool))
	bankRepo := banks.NewRepository(pool)
	termsRepo := terms.NewRepository(pool)

	quotationService := quotations.NewService(quotations.NewRepository(pool), clientService, itemService, taxService)
	invoiceService := invoices.NewService(invoices.NewRepository(pool), quotationService,
		clientService, itemService, taxService, bankRepo, termsRepo)
	receiptService := receipts.NewService(receipts.NewRepository(pool), invoiceService, quotationService)
	paymentService := payments.NewService(payments.NewRepository(pool), vendorService)

	employeeService := employees.NewService(employees.NewRepository(pool))
	rolesRepo := roles.NewRepository(pool)

	subscriptionService := subscriptions.NewService(subscriptions.NewRepository(pool), cfg.TrialPeriod)
	pagesRepo := cms.NewRepository(pool)

	authService := auth.NewService(logger, auth.NewRepository(pool), subscriptionService, jobClient,
		redisClient, cfg.AvailabilityCacheTTL)

	dashboardService := dashboard.NewService(dashboard.NewRepository(pool))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		Tokens:         tokenManager,

		AuthHandler:          auth.NewHandler(logger, authService, tokenManager, sessionManager),
		TaxesHandler:         taxes.NewHandler(logger, taxService),
		ItemsHandler:         items.NewHandler(logger, itemService),
		ClientsHandler:       clients.NewHandler(logger, clientService),
		VendorsHandler:       vendors.NewHandler(logger, vendorService),
		BanksHandler:         banks.NewHandler(logger, bankRepo),
		TermsHandler:         terms.NewHandler(logger, termsRepo),
		QuotationsHandler:    quotations.NewHandler(logger, quotationService),
		InvoicesHandler:      invoices.NewHandler(logger, invoiceService),
		ReceiptsHandler:      receipts.NewHandler(logger, receiptService),
		PaymentsHandler:      payments.NewHandler(logger, paymentService),
		EmployeesHandler:     employees.NewHandler(logger, employeeService),
		RolesHandler:         roles.NewHandler(logger, rolesRepo),
		SubscriptionsHandler: subscriptions.NewHandler(logger, subscriptionService),
		PagesHandler:         cms.NewHandler(logger, pagesRepo),
		DashboardHandler:     dashboard.NewHandler(logger, dashboardService),
		JobsHandler:          jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
