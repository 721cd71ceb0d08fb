package authorize

import (
	"context"
	"fmt"
	"log/slog"
)

func allow(role Role, obj Resource, acts ...Action) []Policy {
	out := make([]Policy, 0, len(acts))
	for _, act := range acts {
		out = append(out, Policy{Role: role, Object: obj, Action: act, Effect: EffectAllow})
	}
	return out
}

// DefaultPolicies is the baseline role matrix of a practice.
func DefaultPolicies() []Policy {
	var ps []Policy
	add := func(p []Policy) { ps = append(ps, p...) }

	add(allow(RoleSuperAdmin, WildcardResource, WildcardAction))

	// Admin runs the practice but cannot hand out roles.
	for _, r := range []Resource{
		ResourceAppointment, ResourceAvailability, ResourcePatient, ResourceEmployee,
		ResourceArea, ResourceSpecialty, ResourcePayroll, ResourceSystem,
		ResourceClinicalRecord, ResourceClinicalSession, ResourcePatientTask,
	} {
		add(allow(RoleAdmin, r, ActionManage))
	}
	// Confidential notes are written by the treating professional only.
	add(allow(RoleAdmin, ResourceConfidentialNote, ActionRead, ActionList))

	add(allow(RoleReceptionist, ResourceAppointment, ActionManage))
	add(allow(RoleReceptionist, ResourcePatient, ActionManage))
	add(allow(RoleReceptionist, ResourceAvailability, ActionRead))
	add(allow(RoleReceptionist, ResourceEmployee, ActionRead, ActionList))
	add(allow(RoleReceptionist, ResourceArea, ActionRead, ActionList))
	add(allow(RoleReceptionist, ResourceSpecialty, ActionRead, ActionList))
	add(allow(RoleReceptionist, ResourcePatientTask, ActionRead, ActionList))

	add(allow(RoleProfessional, ResourceAppointment, ActionRead, ActionList, ActionUpdate))
	add(allow(RoleProfessional, ResourceAvailability, ActionManage))
	add(allow(RoleProfessional, ResourcePatient, ActionRead, ActionList))
	add(allow(RoleProfessional, ResourceEmployee, ActionRead, ActionList))
	add(allow(RoleProfessional, ResourceArea, ActionRead, ActionList))
	add(allow(RoleProfessional, ResourceSpecialty, ActionRead, ActionList))
	add(allow(RoleProfessional, ResourceClinicalRecord, ActionManage))
	add(allow(RoleProfessional, ResourceClinicalSession, ActionManage))
	add(allow(RoleProfessional, ResourcePatientTask, ActionManage))
	add(allow(RoleProfessional, ResourceConfidentialNote, ActionCreate, ActionRead, ActionList))

	add(allow(RoleAccountant, ResourcePayroll, ActionManage))
	add(allow(RoleAccountant, ResourceEmployee, ActionRead, ActionList))

	return ps
}

// SeedDefaultPolicies installs DefaultPolicies, keeping rows that exist.
func SeedDefaultPolicies(ctx context.Context, auth Authorizer) error {
	policies := DefaultPolicies()
	added := 0
	for _, p := range policies {
		ok, err := auth.AddPolicy(ctx, p)
		if err != nil {
			return fmt.Errorf("seed %s %s:%s: %w", p.Role, p.Object, p.Action, err)
		}
		if ok {
			added++
		}
	}
	slog.InfoContext(ctx, "seeded default RBAC policies", "count", len(policies), "added", added)
	return nil
}
