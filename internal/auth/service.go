package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizledger/bizledger/internal/shared"
)

// SubscriptionStarter begins the trial subscription for a fresh tenant.
type SubscriptionStarter interface {
	StartTrial(ctx context.Context, tenantID int64) error
}

// WelcomeMailer enqueues the welcome mail sent after registration.
type WelcomeMailer interface {
	EnqueueWelcome(ctx context.Context, email, name string) error
}

// Availability is the result of a registration pre-check.
type Availability struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// Service wraps authentication and registration business rules.
type Service struct {
	logger        *slog.Logger
	repo          Repository
	subscriptions SubscriptionStarter
	mailer        WelcomeMailer
	cache         *redis.Client
	cacheTTL      time.Duration
}

// NewService constructs a Service. Subscriptions and mailer may be nil in
// tests; registration then skips those steps.
func NewService(logger *slog.Logger, repo Repository, subs SubscriptionStarter, mailer WelcomeMailer,
	cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		logger:        logger,
		repo:          repo,
		subscriptions: subs,
		mailer:        mailer,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

// RegisterRequest creates a tenant together with its owner account.
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=200"`
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,in_phone"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Address     string `json:"address" validate:"max=500"`
	GST         string `json:"gst" validate:"omitempty,gstin"`
}

// Register creates the tenant, its owner user and the trial subscription,
// and enqueues the welcome mail.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tenant := Tenant{
		CompanyName: strings.TrimSpace(req.CompanyName),
		Email:       normalize(req.Email),
		Phone:       req.Phone,
		Address:     req.Address,
		GST:         req.GST,
	}
	owner := User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalize(req.Email),
		PasswordHash: string(hash),
		Role:         RoleOwner,
	}

	tenantID, userID, err := s.repo.RegisterTenant(ctx, tenant, owner)
	if err != nil {
		return nil, err
	}

	if s.subscriptions != nil {
		if err := s.subscriptions.StartTrial(ctx, tenantID); err != nil {
			s.logger.Error("start trial", slog.Any("error", err), slog.Int64("tenant_id", tenantID))
		}
	}
	if s.mailer != nil {
		if err := s.mailer.EnqueueWelcome(ctx, owner.Email, owner.Name); err != nil {
			s.logger.Warn("enqueue welcome mail", slog.Any("error", err))
		}
	}
	s.invalidateAvailability(ctx, owner.Email, tenant.Phone, tenant.CompanyName)

	return s.repo.FindUserByID(ctx, userID)
}

// Authenticate validates email/password credentials. All failure modes look
// identical to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Me returns the account behind an identity.
func (s *Service) Me(ctx context.Context, ident shared.Identity) (*User, error) {
	return s.repo.FindUserByID(ctx, ident.UserID)
}

// CheckEmail reports whether the email is free to register. Results are
// cached briefly; registration invalidates the affected keys.
func (s *Service) CheckEmail(ctx context.Context, email string) (Availability, error) {
	return s.checkCached(ctx, "email", normalize(email), s.repo.EmailExists)
}

// CheckPhone reports whether the phone number is free to register.
func (s *Service) CheckPhone(ctx context.Context, phone string) (Availability, error) {
	return s.checkCached(ctx, "phone", strings.TrimSpace(phone), s.repo.PhoneExists)
}

// CheckCompany reports whether the company name is free to register.
func (s *Service) CheckCompany(ctx context.Context, companyName string) (Availability, error) {
	return s.checkCached(ctx, "company", normalize(companyName), s.repo.CompanyExists)
}

func (s *Service) checkCached(ctx context.Context, field, value string,
	exists func(context.Context, string) (bool, error)) (Availability, error) {
	result := Availability{Field: field, Value: value}

	key := s.cacheKey(field, value)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			result.Available = cached == "1"
			return result, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("availability cache read", slog.Any("error", err))
		}
	}

	taken, err := exists(ctx, value)
	if err != nil {
		return Availability{}, fmt.Errorf("check %s availability: %w", field, err)
	}
	result.Available = !taken

	if s.cache != nil {
		stored := "0"
		if result.Available {
			stored = "1"
		}
		if err := s.cache.Set(ctx, key, stored, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("availability cache write", slog.Any("error", err))
		}
	}
	return result, nil
}

func (s *Service) invalidateAvailability(ctx context.Context, email, phone, companyName string) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx,
		s.cacheKey("email", normalize(email)),
		s.cacheKey("phone", strings.TrimSpace(phone)),
		s.cacheKey("company", normalize(companyName)))
}

func (s *Service) cacheKey(field, value string) string {
	return "availability:" + field + ":" + value
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
