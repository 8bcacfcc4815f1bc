package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

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
	"github.com/bizledger/bizledger/internal/shared"
	"github.com/bizledger/bizledger/internal/subscriptions"
	"github.com/bizledger/bizledger/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Tokens         TokenVerifier

	AuthHandler          *auth.Handler
	TaxesHandler         *taxes.Handler
	ItemsHandler         *items.Handler
	ClientsHandler       *clients.Handler
	VendorsHandler       *vendors.Handler
	BanksHandler         *banks.Handler
	TermsHandler         *terms.Handler
	QuotationsHandler    *quotations.Handler
	InvoicesHandler      *invoices.Handler
	ReceiptsHandler      *receipts.Handler
	PaymentsHandler      *payments.Handler
	EmployeesHandler     *employees.Handler
	RolesHandler         *roles.Handler
	SubscriptionsHandler *subscriptions.Handler
	PagesHandler         *cms.Handler
	DashboardHandler     *dashboard.Handler
	JobsHandler          *jobs.Handler
}

// NewRouter constructs the chi.Router. Everything under /api requires a
// resolved identity except the auth endpoints and published pages.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Tokens:         params.Tokens,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			params.AuthHandler.MountPublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				params.AuthHandler.MountProtectedRoutes(r)
			})
		})
		if params.PagesHandler != nil {
			r.Route("/public/pages", params.PagesHandler.MountPublicRoutes)
		}

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Route("/taxes", params.TaxesHandler.MountRoutes)
			r.Route("/items", params.ItemsHandler.MountRoutes)
			r.Route("/clients", params.ClientsHandler.MountRoutes)
			r.Route("/vendors", params.VendorsHandler.MountRoutes)
			r.Route("/banks", params.BanksHandler.MountRoutes)
			r.Route("/terms", params.TermsHandler.MountRoutes)
			r.Route("/quotations", params.QuotationsHandler.MountRoutes)
			r.Route("/invoices", params.InvoicesHandler.MountRoutes)
			r.Route("/receipts", params.ReceiptsHandler.MountRoutes)
			r.Route("/payments", params.PaymentsHandler.MountRoutes)
			r.Route("/employees", params.EmployeesHandler.MountRoutes)
			r.Route("/roles", params.RolesHandler.MountRoutes)
			r.Route("/subscriptions", params.SubscriptionsHandler.MountRoutes)
			r.Route("/pages", params.PagesHandler.MountRoutes)
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
			if params.JobsHandler != nil {
				r.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}
