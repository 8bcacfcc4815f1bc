package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bizledger/bizledger/internal/platform/httpx"
	internalShared "github.com/bizledger/bizledger/internal/shared"
)

// defaultWindowDays is how far back the summary reaches when the caller
// passes no range.
const defaultWindowDays = 30

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Summary)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ident, _ := internalShared.IdentityFromContext(r.Context())

	rng, err := rangeFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	summary, err := h.service.Summarize(r.Context(), ident.TenantID, rng)
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func rangeFromQuery(r *http.Request) (Range, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -defaultWindowDays)
	to := now

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return Range{}, errBadDate("from")
		}
		from = t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return Range{}, errBadDate("to")
		}
		to = t
	}
	if to.Before(from) {
		return Range{}, errRangeInverted
	}
	return NewRange(from, to), nil
}

var errRangeInverted = errors.New("to precedes from")

func errBadDate(field string) error {
	return fmt.Errorf("%s must be a YYYY-MM-DD date", field)
}
