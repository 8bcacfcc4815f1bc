package receipts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bizledger/bizledger/internal/billing/invoices"
	"github.com/bizledger/bizledger/internal/billing/quotations"
	"github.com/bizledger/bizledger/internal/platform/httpx"
	internalShared "github.com/bizledger/bizledger/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}/status", h.SetStatus)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())

	req := ListReceiptsRequest{TenantID: ident.TenantID}
	if invoiceID, err := strconv.ParseInt(r.URL.Query().Get("invoice_id"), 10, 64); err == nil && invoiceID > 0 {
		req.InvoiceID = &invoiceID
	}
	if quotationID, err := strconv.ParseInt(r.URL.Query().Get("quotation_id"), 10, 64); err == nil && quotationID > 0 {
		req.QuotationID = &quotationID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := Status(status)
		req.Status = &s
	}
	req.DateFrom = parseDate(r.URL.Query().Get("date_from"))
	req.DateTo = parseDate(r.URL.Query().Get("date_to"))
	req.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	req.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	list, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list receipts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"receipts": list, "total": total})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid receipt id")
		return
	}
	rcp, err := h.service.Get(r.Context(), ident.TenantID, id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rcp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	var req CreateReceiptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	if err := internalShared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rcp, err := h.service.Create(r.Context(), ident.TenantID, req)
	if err != nil {
		h.logger.Error("record receipt", slog.Any("error", err))
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rcp)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid receipt id")
		return
	}
	var req struct {
		Status Status `json:"status" validate:"required,oneof=pending cleared rejected"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := internalShared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rcp, err := h.service.SetStatus(r.Context(), ident.TenantID, id, req.Status)
	if err != nil {
		h.logger.Error("update receipt status", slog.Any("error", err), slog.Int64("id", id))
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rcp)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrAmbiguousParent), errors.Is(err, ErrExceedsBalance):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrParentNotFound),
		errors.Is(err, invoices.ErrNotFound), errors.Is(err, quotations.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
