package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bizledger/bizledger/internal/shared"
)

// ErrInvalidToken covers expired, malformed and mis-signed tokens alike.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies HMAC-signed bearer tokens. API clients
// that cannot hold a cookie authenticate with these instead of a session.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

type claims struct {
	TenantID int64  `json:"tid"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given identity.
func (tm *TokenManager) Issue(ident shared.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TenantID: ident.TenantID,
		Email:    ident.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(ident.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	})
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token, returning the embedded
// identity.
func (tm *TokenManager) Verify(tokenString string) (shared.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return shared.Identity{}, ErrInvalidToken
	}
	return shared.Identity{UserID: userID, TenantID: c.TenantID, Email: c.Email}, nil
}
