package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	pasetotoken "github.com/Alijeyrad/clinica_backend/pkg/paseto"
	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

type TokenVerifier interface {
	Verify(token string) (*pasetotoken.Claims, error)
}

// SessionChecker is satisfied by *redis.Sessions.
type SessionChecker interface {
	Active(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// AuthRequired validates a Bearer PASETO access token. Tokens carrying a
// session id must also have a live session when sessions is non-nil.
// The caller is attached to the request context as a reqctx.Principal.
func AuthRequired(verifier TokenVerifier, sessions SessionChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		if claims.Type != pasetotoken.TokenTypeAccess {
			return fiber.ErrUnauthorized
		}

		if sessions != nil && claims.SessionID != nil {
			live, err := sessions.Active(c.Context(), *claims.SessionID, claims.UserID)
			if err != nil {
				slog.WarnContext(c.Context(), "session lookup failed", "err", err)
				return fiber.ErrServiceUnavailable
			}
			if !live {
				return fiber.ErrUnauthorized
			}
		}

		c.SetContext(reqctx.WithPrincipal(c.Context(), claims.Principal()))
		return c.Next()
	}
}
