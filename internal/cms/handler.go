package cms

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bizledger/bizledger/internal/platform/httpx"
	internalShared "github.com/bizledger/bizledger/internal/shared"
)

type Handler struct {
	logger *slog.Logger
	repo   Repository
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/publish", h.SetPublished)
	r.Delete("/{id}", h.Delete)
}

// MountPublicRoutes serves published pages without authentication. The tenant
// comes from the path because public visitors carry no identity.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/{tenantID}/{slug}", h.ShowPublished)
}

func (h *Handler) ShowPublished(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(chi.URLParam(r, "tenantID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid tenant id")
		return
	}
	slug := chi.URLParam(r, "slug")
	if !ValidSlug(slug) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", ErrBadSlug.Error())
		return
	}
	page, err := h.repo.GetPublishedBySlug(r.Context(), tenantID, slug)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	pages, err := h.repo.List(r.Context(), ident.TenantID)
	if err != nil {
		h.logger.Error("list pages", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"pages": pages})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid page id")
		return
	}
	page, err := h.repo.Get(r.Context(), ident.TenantID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	req, ok := h.decodePage(w, r)
	if !ok {
		return
	}
	id, err := h.repo.Create(r.Context(), Page{
		TenantID:  ident.TenantID,
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		h.respondRepoError(w, err)
		return
	}
	page, err := h.repo.Get(r.Context(), ident.TenantID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, page)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid page id")
		return
	}
	req, ok := h.decodePage(w, r)
	if !ok {
		return
	}
	err = h.repo.Update(r.Context(), Page{
		ID:        id,
		TenantID:  ident.TenantID,
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		h.respondRepoError(w, err)
		return
	}
	page, err := h.repo.Get(r.Context(), ident.TenantID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) SetPublished(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid page id")
		return
	}
	var req struct {
		Published bool `json:"published"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.repo.SetPublished(r.Context(), ident.TenantID, id, req.Published); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "published": req.Published})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid page id")
		return
	}
	if err := h.repo.Delete(r.Context(), ident.TenantID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodePage(w http.ResponseWriter, r *http.Request) (PageRequest, bool) {
	var req PageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return req, false
	}
	if err := internalShared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return req, false
	}
	if !ValidSlug(req.Slug) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", ErrBadSlug.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) respondRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrSlugTaken) {
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
		return
	}
	httpx.RespondError(w, err)
}
