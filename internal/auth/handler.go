package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bizledger/bizledger/internal/platform/httpx"
	"github.com/bizledger/bizledger/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	tokens         *TokenManager
	sessionManager *shared.SessionManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenManager, sessions *shared.SessionManager) *Handler {
	return &Handler{logger: logger, service: service, tokens: tokens, sessionManager: sessions}
}

// MountPublicRoutes registers the endpoints reachable without a login.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/check-availability", h.CheckAvailability)
}

// MountProtectedRoutes registers the endpoints that require identity.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := shared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrCompanyTaken) {
			httpx.Problem(w, http.StatusConflict, "Already Registered", err.Error())
			return
		}
		h.logger.Error("register tenant", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.establishIdentity(w, r, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := shared.Validator().Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	}
	h.establishIdentity(w, r, user)
}

// establishIdentity binds the user to the session and issues a bearer token
// for cookie-less clients.
func (h *Handler) establishIdentity(w http.ResponseWriter, r *http.Request, user *User) {
	ident := shared.Identity{UserID: user.ID, TenantID: user.TenantID, Email: user.Email}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.SetUser(user.ID, user.TenantID, user.Email)
	}

	token, err := h.tokens.Issue(ident)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"logged_out": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	user, err := h.service.Me(r.Context(), ident)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// CheckAvailability answers registration pre-checks for email, phone or
// company name. Exactly one query parameter is consulted.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var (
		result Availability
		err    error
	)
	switch {
	case r.URL.Query().Get("email") != "":
		result, err = h.service.CheckEmail(r.Context(), r.URL.Query().Get("email"))
	case r.URL.Query().Get("phone") != "":
		result, err = h.service.CheckPhone(r.Context(), r.URL.Query().Get("phone"))
	case r.URL.Query().Get("company") != "":
		result, err = h.service.CheckCompany(r.Context(), r.URL.Query().Get("company"))
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "email, phone or company parameter required")
		return
	}
	if err != nil {
		h.logger.Error("check availability", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
