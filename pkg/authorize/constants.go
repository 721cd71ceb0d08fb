package authorize

import (
	"fmt"
	"strings"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionList   Action = "list"

	// ActionManage grants every action on the resource except grant.
	ActionManage Action = "manage"

	// Payroll lifecycle
	ActionExecute Action = "execute"
	ActionClose   Action = "close"
	ActionPay     Action = "pay"

	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionList: {},
	ActionManage: {}, ActionExecute: {}, ActionClose: {}, ActionPay: {},
	ActionGrant: {}, ActionRevoke: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	ResourceAppointment      Resource = "appointment"
	ResourceAvailability     Resource = "availability"
	ResourcePatient          Resource = "patient"
	ResourceEmployee         Resource = "employee"
	ResourceArea             Resource = "area"
	ResourceSpecialty        Resource = "specialty"
	ResourcePayroll          Resource = "payroll"
	ResourceClinicalRecord   Resource = "clinical_record"
	ResourceClinicalSession  Resource = "clinical_session"
	ResourceConfidentialNote Resource = "confidential_note"
	ResourcePatientTask      Resource = "patient_task"
	ResourceRBAC             Resource = "rbac"
	ResourceSystem           Resource = "system"

	WildcardResource Resource = "*"
)

var KnownResources = map[Resource]struct{}{
	ResourceAppointment: {}, ResourceAvailability: {}, ResourcePatient: {},
	ResourceEmployee: {}, ResourceArea: {}, ResourceSpecialty: {},
	ResourcePayroll: {}, ResourceClinicalRecord: {}, ResourceClinicalSession: {},
	ResourceConfidentialNote: {}, ResourcePatientTask: {},
	ResourceRBAC: {}, ResourceSystem: {},
}

// ----------------------------
// Roles
// ----------------------------

const (
	RoleSuperAdmin   Role = "role:sys:superadmin"
	RoleAdmin        Role = "role:sys:admin"
	RoleReceptionist Role = "role:sys:receptionist"
	RoleProfessional Role = "role:sys:professional"
	RoleAccountant   Role = "role:sys:accountant"
)

var KnownRoles = map[Role]struct{}{
	RoleSuperAdmin:   {},
	RoleAdmin:        {},
	RoleReceptionist: {},
	RoleProfessional: {},
	RoleAccountant:   {},
}

// ParseRole accepts either the full role id or its short name ("admin").
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	r := Role(s)
	if !strings.HasPrefix(s, "role:") {
		r = Role("role:sys:" + s)
	}
	_, ok := KnownRoles[r]
	return r, ok
}

// ----------------------------
// Policy rows
// ----------------------------

// DomainSys is the only domain. The model keeps a domain column so the
// stored rows stay compatible with casbin's domain RBAC helpers.
const DomainSys Domain = "sys"

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a staff member's user id.
type GroupSubject string

// Policy is a p row: role, resource, action, effect. A deny row beats any
// allow for the same request.
type Policy struct {
	Role   Role
	Object Resource
	Action Action
	Effect PolicyEffect
}

func (p Policy) validate() error {
	if _, ok := KnownRoles[p.Role]; !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgs, p.Role)
	}
	if err := validTarget(p.Object, p.Action); err != nil {
		return err
	}
	if p.Effect != EffectAllow && p.Effect != EffectDeny {
		return fmt.Errorf("%w: invalid effect %q", ErrInvalidArgs, p.Effect)
	}
	return nil
}

func (p Policy) row() []any {
	return []any{string(p.Role), string(DomainSys), string(p.Object), string(p.Action), string(p.Effect)}
}
