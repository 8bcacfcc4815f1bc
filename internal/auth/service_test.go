package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizledger/bizledger/internal/shared"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockRepo struct {
	usersByEmail map[string]*User
	usersByID    map[int64]*User
	companies    map[string]bool
	phones       map[string]bool
	nextTenantID int64
	nextUserID   int64
	emailQueries int
	phoneQueries int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		usersByEmail: make(map[string]*User),
		usersByID:    make(map[int64]*User),
		companies:    make(map[string]bool),
		phones:       make(map[string]bool),
		nextTenantID: 1,
		nextUserID:   1,
	}
}

func (m *mockRepo) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) FindUserByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) RegisterTenant(ctx context.Context, tenant Tenant, owner User) (int64, int64, error) {
	if _, taken := m.usersByEmail[owner.Email]; taken {
		return 0, 0, ErrEmailTaken
	}
	if m.companies[tenant.CompanyName] {
		return 0, 0, ErrCompanyTaken
	}
	tenantID := m.nextTenantID
	m.nextTenantID++
	owner.ID = m.nextUserID
	m.nextUserID++
	owner.TenantID = tenantID
	owner.IsActive = true
	m.usersByEmail[owner.Email] = &owner
	m.usersByID[owner.ID] = &owner
	m.companies[tenant.CompanyName] = true
	m.phones[tenant.Phone] = true
	return tenantID, owner.ID, nil
}

func (m *mockRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	m.emailQueries++
	_, taken := m.usersByEmail[email]
	return taken, nil
}

func (m *mockRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	m.phoneQueries++
	return m.phones[phone], nil
}

func (m *mockRepo) CompanyExists(ctx context.Context, companyName string) (bool, error) {
	return m.companies[companyName], nil
}

type mockSubscriptions struct{ trials []int64 }

func (m *mockSubscriptions) StartTrial(ctx context.Context, tenantID int64) error {
	m.trials = append(m.trials, tenantID)
	return nil
}

type mockMailer struct{ sent []string }

func (m *mockMailer) EnqueueWelcome(ctx context.Context, email, name string) error {
	m.sent = append(m.sent, email)
	return nil
}

// ============================================================================
// FIXTURES
// ============================================================================

func newTestService(t *testing.T) (*Service, *mockRepo, *mockSubscriptions, *mockMailer) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	repo := newMockRepo()
	subs := &mockSubscriptions{}
	mailer := &mockMailer{}
	svc := NewService(slog.Default(), repo, subs, mailer, cache, 30*time.Second)
	return svc, repo, subs, mailer
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		CompanyName: "Acme Traders",
		Name:        "Asha",
		Email:       "Asha@Acme.com",
		Phone:       "9876543210",
		Password:    "correct horse",
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestRegisterCreatesTenantOwnerAndTrial(t *testing.T) {
	svc, repo, subs, mailer := newTestService(t)

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "asha@acme.com", user.Email)
	assert.Equal(t, RoleOwner, user.Role)
	assert.NotZero(t, user.TenantID)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	require.Len(t, subs.trials, 1)
	assert.Equal(t, user.TenantID, subs.trials[0])
	assert.Equal(t, []string{"asha@acme.com"}, mailer.sent)

	stored := repo.usersByEmail["asha@acme.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrEmailTaken)

	req := registerRequest()
	req.Email = "other@acme.com"
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrCompanyTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "asha@acme.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "asha@acme.com", user.Email)

	_, err = svc.Authenticate(context.Background(), "asha@acme.com", "wrong password")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@acme.com", "correct horse")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsDisabledUser(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	repo.usersByEmail["asha@acme.com"].IsActive = false

	_, err = svc.Authenticate(context.Background(), "asha@acme.com", "correct horse")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestCheckEmailCachesResult(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	first, err := svc.CheckEmail(context.Background(), "New@Acme.com")
	require.NoError(t, err)
	assert.True(t, first.Available)
	assert.Equal(t, "new@acme.com", first.Value)

	second, err := svc.CheckEmail(context.Background(), "new@acme.com")
	require.NoError(t, err)
	assert.True(t, second.Available)
	// Second lookup served from the cache.
	assert.Equal(t, 1, repo.emailQueries)
}

func TestCheckPhone(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	free, err := svc.CheckPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.True(t, free.Available)
	assert.Equal(t, "phone", free.Field)

	_, err = svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	taken, err := svc.CheckPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.False(t, taken.Available)

	// Second identical probe served from the cache.
	queries := repo.phoneQueries
	_, err = svc.CheckPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, queries, repo.phoneQueries)
}

func TestRegisterInvalidatesAvailabilityCache(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	before, err := svc.CheckEmail(context.Background(), "asha@acme.com")
	require.NoError(t, err)
	require.True(t, before.Available)

	_, err = svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	after, err := svc.CheckEmail(context.Background(), "asha@acme.com")
	require.NoError(t, err)
	assert.False(t, after.Available)
}
