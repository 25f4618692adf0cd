package domain

import "testing"

func TestRoleRank(t *testing.T) {
	cases := []struct {
		role OrgRole
		rank int
	}{
		{RoleSuperAdmin, 6},
		{RoleCenterAdmin, 5},
		{RoleSchoolAdmin, 4},
		{RoleTeacher, 3},
		{RoleStudent, 2},
		{RoleUser, 1},
		{OrgRole("MODERATOR"), 0},
		{OrgRole(""), 0},
	}
	for _, c := range cases {
		if got := c.role.Rank(); got != c.rank {
			t.Errorf("Rank(%q) = %d, want %d", c.role, got, c.rank)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []OrgRole{RoleSuperAdmin, RoleCenterAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleUser} {
		if !r.Valid() {
			t.Errorf("Valid(%q) = false, want true", r)
		}
	}
	if OrgRole("ADMIN").Valid() {
		t.Error(`Valid("ADMIN") = true, want false`)
	}
}

func TestIsAtLeast(t *testing.T) {
	if !RoleSuperAdmin.IsAtLeast(RoleUser) {
		t.Error("SUPER_ADMIN should be at least USER")
	}
	if !RoleTeacher.IsAtLeast(RoleTeacher) {
		t.Error("TEACHER should be at least TEACHER")
	}
	if RoleStudent.IsAtLeast(RoleTeacher) {
		t.Error("STUDENT should not be at least TEACHER")
	}
}

func TestCanAssign(t *testing.T) {
	cases := []struct {
		assigner OrgRole
		target   OrgRole
		want     bool
	}{
		// SUPER_ADMIN and CENTER_ADMIN targets are pinned, not ranked.
		{RoleSuperAdmin, RoleSuperAdmin, true},
		{RoleCenterAdmin, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleCenterAdmin, true},
		{RoleCenterAdmin, RoleCenterAdmin, false},
		{RoleSchoolAdmin, RoleCenterAdmin, false},
		{RoleSuperAdmin, RoleSchoolAdmin, true},
		{RoleCenterAdmin, RoleSchoolAdmin, true},
		{RoleSchoolAdmin, RoleSchoolAdmin, false},
		{RoleSuperAdmin, RoleTeacher, true},
		{RoleCenterAdmin, RoleTeacher, true},
		{RoleSchoolAdmin, RoleTeacher, true},
		{RoleTeacher, RoleTeacher, false},
		{RoleTeacher, RoleStudent, true},
		{RoleSchoolAdmin, RoleStudent, true},
		{RoleStudent, RoleStudent, false},
		{RoleTeacher, RoleUser, true},
		{RoleStudent, RoleUser, false},
		{RoleUser, RoleUser, false},
		{OrgRole(""), RoleUser, false},
		{RoleSuperAdmin, OrgRole("MODERATOR"), false},
	}
	for _, c := range cases {
		if got := CanAssign(c.assigner, c.target); got != c.want {
			t.Errorf("CanAssign(%q, %q) = %v, want %v", c.assigner, c.target, got, c.want)
		}
	}
}

func TestOrgTypeValid(t *testing.T) {
	for _, ty := range []OrgType{OrgTypeEduSystem, OrgTypeCenter, OrgTypeSchool, OrgTypeDepartment, OrgTypeFacility} {
		if !ty.Valid() {
			t.Errorf("Valid(%q) = false, want true", ty)
		}
	}
	if OrgType("CAMPUS").Valid() {
		t.Error(`Valid("CAMPUS") = true, want false`)
	}
}
