package domain

import "time"

// Membership ties a user to an organization with exactly one role at a
// time. At most one row exists per (user, organization), and at most one
// of a user's rows carries IsPrimary.
type Membership struct {
	UserID         UserID
	OrganizationID OrganizationID
	Role           OrgRole
	IsPrimary      bool
	AssignedBy     UserID
	AssignedAt     time.Time
}

// MembershipWithOrg is a membership joined with its organization, for
// listing a user's organizations.
type MembershipWithOrg struct {
	Membership
	Organization Organization
}

// Member is a membership joined with user metadata, for listing an
// organization's members.
type Member struct {
	Membership
	Email    string
	FullName string
}

// RoleCount is the number of members holding one role in an organization.
type RoleCount struct {
	Role  OrgRole
	Count int
}
