package invoices

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	billing "github.com/bizledger/bizledger/internal/billing/shared"

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
	r.Post("/convert", h.Convert)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/status", h.SetActive)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())

	req := ListInvoicesRequest{TenantID: ident.TenantID}
	if clientID, err := strconv.ParseInt(r.URL.Query().Get("client_id"), 10, 64); err == nil && clientID > 0 {
		req.ClientID = &clientID
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
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoices": list, "total": total})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return
	}
	inv, err := h.service.Get(r.Context(), ident.TenantID, id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	var req ConvertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := internalShared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	inv, err := h.service.Convert(r.Context(), ident.TenantID, req)
	if err != nil {
		h.logger.Error("convert quotation", slog.Any("error", err), slog.Int64("quotation_id", req.QuotationID))
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := internalShared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	inv, err := h.service.Create(r.Context(), ident.TenantID, req)
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return
	}
	var req UpdateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := internalShared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	inv, err := h.service.Update(r.Context(), ident.TenantID, id, req)
	if err != nil {
		h.logger.Error("update invoice", slog.Any("error", err), slog.Int64("id", id))
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return
	}
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.service.SetActive(r.Context(), ident.TenantID, id, req.IsActive); err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuotationNotConvertible), errors.Is(err, ErrNotEditable):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrClientInactive),
		errors.Is(err, quotations.ErrItemNotSelectable),
		errors.Is(err, quotations.ErrTypeMismatch),
		errors.Is(err, billing.ErrQuantityNotPositive),
		errors.Is(err, billing.ErrPriceNegative),
		errors.Is(err, billing.ErrDiscountNegative),
		errors.Is(err, billing.ErrDiscountExceedsUnit):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, quotations.ErrNotFound):
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
