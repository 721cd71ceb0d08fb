package authorize

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

// createTestEnforcer builds an enforcer on the built-in model with an empty
// file-backed policy.
func createTestEnforcer(t *testing.T) *casbin.DistributedEnforcer {
	t.Helper()

	policyPath := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(policyPath, nil, 0o644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}

	m, err := LoadModel("")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	e, err := casbin.NewDistributedEnforcer(m, fileadapter.NewAdapter(policyPath))
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}
	e.EnableAutoSave(false)
	return e
}

func seeded(t *testing.T, bypass bool) Authorizer {
	t.Helper()
	auth, err := NewAuthorizer(createTestEnforcer(t), bypass)
	if err != nil {
		t.Fatal(err)
	}
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatal(err)
	}
	return auth
}

func TestNewAuthorizer(t *testing.T) {
	if _, err := NewAuthorizer(nil, true); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("nil enforcer: err = %v", err)
	}
}

func TestRoleMatrix(t *testing.T) {
	auth := seeded(t, true)
	ctx := context.Background()

	users := map[Role]GroupSubject{}
	for role := range KnownRoles {
		sub := GroupSubject(uuid.NewString())
		if _, err := auth.Grant(ctx, sub, role); err != nil {
			t.Fatal(err)
		}
		users[role] = sub
	}

	tests := []struct {
		role  Role
		obj   Resource
		act   Action
		allow bool
	}{
		{RoleSuperAdmin, ResourceRBAC, ActionGrant, true},
		{RoleAdmin, ResourcePayroll, ActionPay, true},
		{RoleAdmin, ResourceEmployee, ActionCreate, true},
		{RoleAdmin, ResourceRBAC, ActionGrant, false},
		{RoleReceptionist, ResourceAppointment, ActionCreate, true},
		{RoleReceptionist, ResourcePatient, ActionUpdate, true},
		{RoleReceptionist, ResourceAvailability, ActionRead, true},
		{RoleReceptionist, ResourceAvailability, ActionUpdate, false},
		{RoleReceptionist, ResourcePayroll, ActionRead, false},
		{RoleProfessional, ResourceAppointment, ActionUpdate, true},
		{RoleProfessional, ResourceAppointment, ActionCreate, false},
		{RoleProfessional, ResourceAvailability, ActionUpdate, true},
		{RoleProfessional, ResourcePatient, ActionCreate, false},
		{RoleAccountant, ResourcePayroll, ActionExecute, true},
		{RoleAccountant, ResourcePayroll, ActionClose, true},
		{RoleAccountant, ResourcePatient, ActionRead, false},
		{RoleProfessional, ResourceClinicalRecord, ActionCreate, true},
		{RoleProfessional, ResourceClinicalSession, ActionUpdate, true},
		{RoleProfessional, ResourceConfidentialNote, ActionCreate, true},
		{RoleProfessional, ResourceConfidentialNote, ActionUpdate, false},
		{RoleProfessional, ResourcePatientTask, ActionCreate, true},
		{RoleAdmin, ResourceClinicalRecord, ActionUpdate, true},
		{RoleAdmin, ResourceConfidentialNote, ActionList, true},
		{RoleAdmin, ResourceConfidentialNote, ActionCreate, false},
		{RoleReceptionist, ResourcePatientTask, ActionList, true},
		{RoleReceptionist, ResourcePatientTask, ActionCreate, false},
		{RoleReceptionist, ResourceClinicalRecord, ActionRead, false},
		{RoleReceptionist, ResourceConfidentialNote, ActionRead, false},
		{RoleAccountant, ResourceClinicalSession, ActionList, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+" "+string(tt.obj)+" "+string(tt.act), func(t *testing.T) {
			got, err := auth.Enforce(ctx, users[tt.role], tt.obj, tt.act)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.allow {
				t.Errorf("Enforce = %v, want %v", got, tt.allow)
			}
		})
	}

	t.Run("no role", func(t *testing.T) {
		got, err := auth.Enforce(ctx, GroupSubject(uuid.NewString()), ResourceArea, ActionRead)
		if err != nil || got {
			t.Errorf("Enforce = %v, %v", got, err)
		}
	})
}

func TestSuperadminBypassDisabled(t *testing.T) {
	auth, err := NewAuthorizer(createTestEnforcer(t), false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	sub := GroupSubject(uuid.NewString())
	if _, err := auth.Grant(ctx, sub, RoleSuperAdmin); err != nil {
		t.Fatal(err)
	}
	// No policies seeded: without the bypass the role grants nothing.
	if ok, _ := auth.Enforce(ctx, sub, ResourcePatient, ActionRead); ok {
		t.Error("superadmin allowed without policy or bypass")
	}
}

func TestEnforceInvalidArgs(t *testing.T) {
	auth := seeded(t, true)
	ctx := context.Background()
	sub := GroupSubject(uuid.NewString())

	tests := []struct {
		name string
		sub  GroupSubject
		obj  Resource
		act  Action
	}{
		{"empty subject", "", ResourcePatient, ActionRead},
		{"unknown resource", sub, "wallet", ActionRead},
		{"unknown action", sub, ResourcePatient, "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.Enforce(ctx, tt.sub, tt.obj, tt.act); !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("err = %v, want ErrInvalidArgs", err)
			}
		})
	}

	if err := auth.MustEnforce(ctx, sub, ResourcePatient, ActionRead); !errors.Is(err, ErrForbidden) {
		t.Errorf("MustEnforce without role: err = %v", err)
	}
}

func TestGrantRevokeRoles(t *testing.T) {
	auth := seeded(t, true)
	ctx := context.Background()
	sub := GroupSubject(uuid.NewString())

	if _, err := auth.Grant(ctx, sub, "role:sys:janitor"); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown role: err = %v", err)
	}
	for _, r := range []Role{RoleReceptionist, RoleAccountant} {
		if _, err := auth.Grant(ctx, sub, r); err != nil {
			t.Fatal(err)
		}
	}
	roles, err := auth.Roles(ctx, sub)
	if err != nil || len(roles) != 2 || roles[0] != RoleAccountant || roles[1] != RoleReceptionist {
		t.Fatalf("roles = %v, %v", roles, err)
	}
	if removed, err := auth.Revoke(ctx, sub, RoleAccountant); err != nil || !removed {
		t.Fatalf("revoke = %v, %v", removed, err)
	}
	if removed, _ := auth.Revoke(ctx, sub, RoleAccountant); removed {
		t.Error("second revoke reported a change")
	}
	if ok, _ := auth.Enforce(ctx, sub, ResourcePayroll, ActionRead); ok {
		t.Error("removed role still grants access")
	}
}

func TestPolicies(t *testing.T) {
	auth := seeded(t, true)
	ctx := context.Background()

	bad := Policy{Role: RoleAdmin, Object: ResourcePatient, Action: ActionRead, Effect: "maybe"}
	if _, err := auth.AddPolicy(ctx, bad); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("bad effect: err = %v", err)
	}

	sub := GroupSubject(uuid.NewString())
	if _, err := auth.Grant(ctx, sub, RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if ok, _ := auth.Enforce(ctx, sub, ResourcePayroll, ActionPay); !ok {
		t.Fatal("admin cannot pay payroll before the deny row")
	}

	// An explicit deny beats the admin's manage grant.
	deny := Policy{Role: RoleAdmin, Object: ResourcePayroll, Action: ActionPay, Effect: EffectDeny}
	if added, err := auth.AddPolicy(ctx, deny); err != nil || !added {
		t.Fatalf("add deny = %v, %v", added, err)
	}
	if ok, _ := auth.Enforce(ctx, sub, ResourcePayroll, ActionPay); ok {
		t.Error("deny rule ignored")
	}
	if added, _ := auth.AddPolicy(ctx, deny); added {
		t.Error("duplicate policy reported as added")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{" Receptionist ", RoleReceptionist, true},
		{"role:sys:accountant", RoleAccountant, true},
		{"owner", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseRole(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestSubjectFromContext(t *testing.T) {
	if _, err := SubjectFromContext(context.Background()); !errors.Is(err, ErrNoSubjectInContext) {
		t.Errorf("err = %v", err)
	}
	id := uuid.New()
	ctx := reqctx.WithPrincipal(context.Background(), reqctx.Principal{UserID: id})
	sub, err := SubjectFromContext(ctx)
	if err != nil || sub != GroupSubject(id.String()) {
		t.Errorf("SubjectFromContext = %q, %v", sub, err)
	}
}

func TestAuditedAuthorizer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	auth := WithAudit(seeded(t, true), logger)
	ctx := context.Background()
	sub := GroupSubject(uuid.NewString())

	if _, err := auth.Grant(ctx, sub, RoleReceptionist); err != nil {
		t.Fatal(err)
	}
	if err := auth.MustEnforce(ctx, sub, ResourcePayroll, ActionRead); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	out := buf.String()
	for _, want := range []string{`"msg":"authz change"`, `"op":"grant"`, `"msg":"authz denied"`, `"resource":"payroll"`} {
		if !strings.Contains(out, want) {
			t.Errorf("audit log missing %s", want)
		}
	}
}
