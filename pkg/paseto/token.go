package pasetotoken

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

var (
	// ErrMisconfigured wraps key or manager setup problems. It is never
	// caused by a client token.
	ErrMisconfigured = errors.New("paseto misconfigured")
	// ErrInvalidToken wraps every verification failure: bad signature,
	// wrong issuer or audience, expiry and malformed claims alike.
	ErrInvalidToken = errors.New("invalid token")
)

type TokenType string

// TokenTypeAccess is the only type the API accepts. Other values are
// reserved for tokens minted by an identity service for other audiences.
const TokenTypeAccess TokenType = "access"

// Claims is the verified payload of an access token.
type Claims struct {
	Type      TokenType
	UserID    uuid.UUID
	SessionID *uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// Principal converts verified claims into the request-scoped identity.
func (c *Claims) Principal() reqctx.Principal {
	p := reqctx.Principal{UserID: c.UserID, TokenID: c.TokenID, ExpiresAt: c.ExpiresAt}
	if c.SessionID != nil {
		p.SessionID = *c.SessionID
	}
	return p
}
