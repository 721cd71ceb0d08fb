package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

const (
	claimType    = "typ"
	claimSession = "sid"
)

type Config struct {
	Mode      Mode
	Issuer    string
	Audience  string
	AccessTTL time.Duration
	// Implicit is bound into every token without being transmitted.
	Implicit []byte
}

// Manager issues and verifies v4 PASETO access tokens. The API never hands
// out tokens itself; they are minted by `clinica system token` or by an
// external identity service sharing the key material.
type Manager struct {
	cfg  Config
	keys Keys
	now  func() time.Time
}

func New(cfg Config, keys Keys) (*Manager, error) {
	switch {
	case cfg.Mode != keys.Mode:
		return nil, fmt.Errorf("%w: config mode %q does not match key mode %q", ErrMisconfigured, cfg.Mode, keys.Mode)
	case cfg.Issuer == "":
		return nil, fmt.Errorf("%w: issuer is required", ErrMisconfigured)
	case cfg.Audience == "":
		return nil, fmt.Errorf("%w: audience is required", ErrMisconfigured)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	return &Manager{cfg: cfg, keys: keys, now: time.Now}, nil
}

// CanIssue reports whether the manager holds signing material. A
// verify-only public deployment cannot mint tokens.
func (m *Manager) CanIssue() bool {
	if m.cfg.Mode == ModeLocal {
		return m.keys.Symmetric != nil
	}
	return m.keys.Secret != nil
}

// IssueAccess mints an access token for a staff member. ttl <= 0 uses the
// configured access TTL; sessionID binds the token to a revocable session.
func (m *Manager) IssueAccess(userID uuid.UUID, sessionID *uuid.UUID, ttl time.Duration) (string, error) {
	if !m.CanIssue() {
		return "", fmt.Errorf("%w: no signing key for mode %q", ErrMisconfigured, m.cfg.Mode)
	}
	if ttl <= 0 {
		ttl = m.cfg.AccessTTL
	}

	now := m.now()
	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetJti(newTokenID())
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(ttl))
	tok.SetSubject(userID.String())
	tok.SetString(claimType, string(TokenTypeAccess))
	if sessionID != nil {
		tok.SetString(claimSession, sessionID.String())
	}

	if m.cfg.Mode == ModeLocal {
		return tok.V4Encrypt(*m.keys.Symmetric, m.cfg.Implicit), nil
	}
	return tok.V4Sign(*m.keys.Secret, m.cfg.Implicit), nil
}

// Verify checks signature, issuer, audience and validity window against the
// current clock and returns the decoded claims.
func (m *Manager) Verify(raw string) (*Claims, error) {
	p := paseto.NewParserWithoutExpiryCheck()
	p.AddRule(paseto.IssuedBy(m.cfg.Issuer))
	p.AddRule(paseto.ForAudience(m.cfg.Audience))
	p.AddRule(paseto.ValidAt(m.now()))

	tok, err := m.parse(p, raw)
	if err != nil {
		return nil, err
	}
	claims, err := decodeClaims(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (m *Manager) parse(p paseto.Parser, raw string) (*paseto.Token, error) {
	var (
		tok *paseto.Token
		err error
	)
	switch {
	case m.cfg.Mode == ModeLocal && m.keys.Symmetric != nil:
		tok, err = p.ParseV4Local(*m.keys.Symmetric, raw, m.cfg.Implicit)
	case m.cfg.Mode == ModePublic && m.keys.Public != nil:
		tok, err = p.ParseV4Public(*m.keys.Public, raw, m.cfg.Implicit)
	default:
		return nil, fmt.Errorf("%w: no verification key for mode %q", ErrMisconfigured, m.cfg.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return tok, nil
}

func newTokenID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func decodeClaims(tok *paseto.Token) (*Claims, error) {
	jti, err := tok.GetJti()
	if err != nil {
		return nil, err
	}
	sub, err := tok.GetSubject()
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	exp, err := tok.GetExpiration()
	if err != nil {
		return nil, err
	}
	typ, err := tok.GetString(claimType)
	if err != nil {
		return nil, err
	}

	c := &Claims{Type: TokenType(typ), UserID: uid, TokenID: jti, ExpiresAt: exp}
	if raw, err := tok.GetString(claimSession); err == nil {
		sid, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("session id: %w", err)
		}
		c.SessionID = &sid
	}
	return c, nil
}
