package authorize

import (
	"context"
	"log/slog"
	"time"
)

// auditedAuthorizer logs every decision and every role or policy change.
// Denials log at warn so repeated probing stands out.
type auditedAuthorizer struct {
	inner Authorizer
	log   *slog.Logger
}

func WithAudit(inner Authorizer, logger *slog.Logger) Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditedAuthorizer{inner: inner, log: logger.With("component", "authz")}
}

func (a *auditedAuthorizer) Enforce(ctx context.Context, user GroupSubject, obj Resource, act Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, user, obj, act)

	attrs := []any{
		"user", string(user),
		"resource", string(obj),
		"action", string(act),
		"allowed", allowed,
		"took_us", time.Since(start).Microseconds(),
	}
	switch {
	case err != nil:
		a.log.ErrorContext(ctx, "authz decision failed", append(attrs, "err", err)...)
	case allowed:
		a.log.DebugContext(ctx, "authz decision", attrs...)
	default:
		a.log.WarnContext(ctx, "authz denied", attrs...)
	}
	return allowed, err
}

func (a *auditedAuthorizer) MustEnforce(ctx context.Context, user GroupSubject, obj Resource, act Action) error {
	return mustEnforce(ctx, a, user, obj, act)
}

func (a *auditedAuthorizer) Grant(ctx context.Context, user GroupSubject, role Role) (bool, error) {
	changed, err := a.inner.Grant(ctx, user, role)
	a.changed(ctx, "grant", err, "user", string(user), "role", string(role), "changed", changed)
	return changed, err
}

func (a *auditedAuthorizer) Revoke(ctx context.Context, user GroupSubject, role Role) (bool, error) {
	changed, err := a.inner.Revoke(ctx, user, role)
	a.changed(ctx, "revoke", err, "user", string(user), "role", string(role), "changed", changed)
	return changed, err
}

func (a *auditedAuthorizer) Roles(ctx context.Context, user GroupSubject) ([]Role, error) {
	return a.inner.Roles(ctx, user)
}

func (a *auditedAuthorizer) AddPolicy(ctx context.Context, p Policy) (bool, error) {
	changed, err := a.inner.AddPolicy(ctx, p)
	a.changed(ctx, "add_policy", err, "role", string(p.Role), "resource", string(p.Object),
		"action", string(p.Action), "effect", string(p.Effect), "changed", changed)
	return changed, err
}

func (a *auditedAuthorizer) changed(ctx context.Context, op string, err error, attrs ...any) {
	attrs = append([]any{"op", op}, attrs...)
	if err != nil {
		a.log.ErrorContext(ctx, "authz change failed", append(attrs, "err", err)...)
		return
	}
	a.log.InfoContext(ctx, "authz change", attrs...)
}
