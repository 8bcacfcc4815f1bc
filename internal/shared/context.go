package shared

import "context"

type contextKey string

const (
	sessionContextKey  contextKey = "session"
	identityContextKey contextKey = "identity"
)

// Identity carries the authenticated caller, resolved once by middleware and
// passed explicitly to every service call. Per-request ambient lookups are
// deliberately not offered beyond this single extraction point.
type Identity struct {
	UserID   int64
	TenantID int64
	Email    string
}

// ContextWithSession stores the session on the request context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext retrieves the session from the request context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey).(*Session)
	return sess
}

// ContextWithIdentity stores the resolved identity on the request context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the caller identity. The second return value
// reports whether an identity was resolved for this request.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}
