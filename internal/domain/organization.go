package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationID is a value object for organization identity.
type OrganizationID struct{ uuid.UUID }

// NewOrganizationID creates a new OrganizationID from uuid.
func NewOrganizationID(id uuid.UUID) OrganizationID { return OrganizationID{UUID: id} }

// String returns the canonical string form.
func (o OrganizationID) String() string { return o.UUID.String() }

// OrgType classifies a node in the organization tree.
type OrgType string

const (
	OrgTypeEduSystem  OrgType = "EDU_SYSTEM"
	OrgTypeCenter     OrgType = "CENTER"
	OrgTypeSchool     OrgType = "SCHOOL"
	OrgTypeDepartment OrgType = "DEPARTMENT"
	OrgTypeFacility   OrgType = "FACILITY"
)

// Valid reports whether t is one of the defined organization types.
func (t OrgType) Valid() bool {
	switch t {
	case OrgTypeEduSystem, OrgTypeCenter, OrgTypeSchool, OrgTypeDepartment, OrgTypeFacility:
		return true
	}
	return false
}

// OrgStatus is the lifecycle state of an organization. Organizations are
// soft-deactivated, never hard-deleted.
type OrgStatus string

const (
	OrgStatusActive   OrgStatus = "ACTIVE"
	OrgStatusInactive OrgStatus = "INACTIVE"
)

// Organization is a node in the organization tree. ParentID is nil for
// root nodes; application logic keeps the parent graph acyclic.
type Organization struct {
	ID        OrganizationID
	ParentID  *OrganizationID
	Name      string
	Type      OrgType
	Status    OrgStatus
	CreatedAt time.Time
}

// Active reports whether the organization is usable.
func (o *Organization) Active() bool { return o.Status == OrgStatusActive }
