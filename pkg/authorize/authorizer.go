package authorize

import (
	"context"
	"errors"
	"fmt"
	"slices"

	casbin "github.com/casbin/casbin/v2"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// Authorizer answers permission questions for the practice's staff and
// manages their roles. The practice is a single tenant, so every rule is
// stored in the sys domain and callers never name one.
type Authorizer interface {
	// Enforce reports whether user may perform act on obj.
	Enforce(ctx context.Context, user GroupSubject, obj Resource, act Action) (bool, error)
	// MustEnforce returns ErrForbidden when Enforce denies.
	MustEnforce(ctx context.Context, user GroupSubject, obj Resource, act Action) error

	Grant(ctx context.Context, user GroupSubject, role Role) (bool, error)
	Revoke(ctx context.Context, user GroupSubject, role Role) (bool, error)
	Roles(ctx context.Context, user GroupSubject) ([]Role, error)

	// AddPolicy stores one role permission row; false means it existed.
	AddPolicy(ctx context.Context, p Policy) (bool, error)
}

type casbinAuthorizer struct {
	e *casbin.DistributedEnforcer
	// bypass is RoleSuperAdmin when superadmins skip policy evaluation.
	bypass Role
}

// NewAuthorizer loads the enforcer's policy and wraps it. With
// superadminBypass, holders of RoleSuperAdmin are allowed everything even
// when no policy row says so.
func NewAuthorizer(e *casbin.DistributedEnforcer, superadminBypass bool) (Authorizer, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	a := &casbinAuthorizer{e: e}
	if superadminBypass {
		a.bypass = RoleSuperAdmin
	}
	return a, nil
}

func (a *casbinAuthorizer) Enforce(_ context.Context, user GroupSubject, obj Resource, act Action) (bool, error) {
	if user == "" {
		return false, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if err := validTarget(obj, act); err != nil {
		return false, err
	}
	if a.bypass != "" && a.e.HasGroupingPolicy(string(user), string(a.bypass), string(DomainSys)) {
		return true, nil
	}
	return a.e.Enforce(string(user), string(DomainSys), string(obj), string(act))
}

func (a *casbinAuthorizer) MustEnforce(ctx context.Context, user GroupSubject, obj Resource, act Action) error {
	return mustEnforce(ctx, a, user, obj, act)
}

func mustEnforce(ctx context.Context, a Authorizer, user GroupSubject, obj Resource, act Action) error {
	ok, err := a.Enforce(ctx, user, obj, act)
	switch {
	case err != nil:
		return err
	case !ok:
		return ErrForbidden
	}
	return nil
}

func (a *casbinAuthorizer) Grant(_ context.Context, user GroupSubject, role Role) (bool, error) {
	if err := validMembership(user, role); err != nil {
		return false, err
	}
	return a.e.AddGroupingPolicy(string(user), string(role), string(DomainSys))
}

func (a *casbinAuthorizer) Revoke(_ context.Context, user GroupSubject, role Role) (bool, error) {
	if err := validMembership(user, role); err != nil {
		return false, err
	}
	return a.e.RemoveGroupingPolicy(string(user), string(role), string(DomainSys))
}

func (a *casbinAuthorizer) Roles(_ context.Context, user GroupSubject) ([]Role, error) {
	if user == "" {
		return nil, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	names := a.e.GetRolesForUserInDomain(string(user), string(DomainSys))
	out := make([]Role, 0, len(names))
	for _, n := range names {
		out = append(out, Role(n))
	}
	slices.Sort(out)
	return out, nil
}

func (a *casbinAuthorizer) AddPolicy(_ context.Context, p Policy) (bool, error) {
	if err := p.validate(); err != nil {
		return false, err
	}
	return a.e.AddPolicy(p.row()...)
}

func validMembership(user GroupSubject, role Role) error {
	if user == "" {
		return fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if _, ok := KnownRoles[role]; !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgs, role)
	}
	return nil
}

func validTarget(obj Resource, act Action) error {
	if _, ok := KnownResources[obj]; !ok && obj != WildcardResource {
		return fmt.Errorf("%w: unknown resource %q", ErrInvalidArgs, obj)
	}
	if _, ok := KnownActions[act]; !ok && act != WildcardAction {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidArgs, act)
	}
	return nil
}
