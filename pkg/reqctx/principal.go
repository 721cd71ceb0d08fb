package reqctx

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Principal is the staff member a request acts for, taken from a verified
// access token.
type Principal struct {
	UserID uuid.UUID
	// SessionID is uuid.Nil for tokens not bound to a server-side session.
	SessionID uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(keyPrincipal).(Principal)
	return p, ok && p.UserID != uuid.Nil
}

// IsAuthenticated reports whether ctx carries an unexpired principal.
func IsAuthenticated(ctx context.Context) bool {
	p, ok := PrincipalFromContext(ctx)
	return ok && !p.Expired(time.Now())
}

// UserIDFromContext returns uuid.Nil and false on anonymous requests.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok
}
