package subscriptions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

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
	r.Get("/plans", h.Plans)
	r.Get("/current", h.Current)
	r.Post("/activate", h.Activate)
}

func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.Plans(r.Context())
	if err != nil {
		h.logger.Error("list plans", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	sub, err := h.service.Current(r.Context(), ident.TenantID)
	if err != nil {
		if errors.Is(err, ErrNoSubscription) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sub)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	var req struct {
		PlanID int64 `json:"plan_id" validate:"required,gt=0"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := internalShared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	sub, err := h.service.Activate(r.Context(), ident.TenantID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanInactive):
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
		case errors.Is(err, internalShared.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "plan not found")
		default:
			h.logger.Error("activate subscription", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, sub)
}
