package domain

// OrgRole is the role a user holds within one organization, distinct
// from the user's legacy global role code.
type OrgRole string

const (
	RoleSuperAdmin  OrgRole = "SUPER_ADMIN"
	RoleCenterAdmin OrgRole = "CENTER_ADMIN"
	RoleSchoolAdmin OrgRole = "SCHOOL_ADMIN"
	RoleTeacher     OrgRole = "TEACHER"
	RoleStudent     OrgRole = "STUDENT"
	RoleUser        OrgRole = "USER"
)

// roleRanks is the fixed role hierarchy. Built once, never mutated.
var roleRanks = map[OrgRole]int{
	RoleSuperAdmin:  6,
	RoleCenterAdmin: 5,
	RoleSchoolAdmin: 4,
	RoleTeacher:     3,
	RoleStudent:     2,
	RoleUser:        1,
}

// Rank returns the hierarchy rank of the role; unknown roles rank 0.
func (r OrgRole) Rank() int { return roleRanks[r] }

// Valid reports whether r is one of the six defined role codes.
func (r OrgRole) Valid() bool { return roleRanks[r] > 0 }

// IsAtLeast reports whether r ranks at or above other.
func (r OrgRole) IsAtLeast(other OrgRole) bool { return r.Rank() >= other.Rank() }

func (r OrgRole) String() string { return string(r) }

// CanAssign reports whether a user holding assigner may grant (or revoke)
// target within an organization. This is deliberately not a rank
// comparison: who may hand out the admin roles is pinned per target role,
// so e.g. a SCHOOL_ADMIN can never mint a CENTER_ADMIN.
func CanAssign(assigner, target OrgRole) bool {
	switch target {
	case RoleSuperAdmin:
		return assigner == RoleSuperAdmin
	case RoleCenterAdmin:
		return assigner == RoleSuperAdmin
	case RoleSchoolAdmin:
		return assigner == RoleSuperAdmin || assigner == RoleCenterAdmin
	case RoleTeacher:
		return assigner == RoleSuperAdmin || assigner == RoleCenterAdmin || assigner == RoleSchoolAdmin
	case RoleStudent, RoleUser:
		return assigner.IsAtLeast(RoleTeacher)
	default:
		return false
	}
}
