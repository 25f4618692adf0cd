package ports

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

// UserRepository defines persistence for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// OrganizationRepository defines persistence for organization tree nodes.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, orgID domain.OrganizationID) (*domain.Organization, error)
	ListChildren(ctx context.Context, parentID domain.OrganizationID) ([]*domain.Organization, error)
	// ChildIDs returns the ids of the direct children of every organization
	// in parents, in one query. Used by the tree resolver.
	ChildIDs(ctx context.Context, parents []domain.OrganizationID) ([]domain.OrganizationID, error)
	SetStatus(ctx context.Context, orgID domain.OrganizationID, status domain.OrgStatus) error
}

// MembershipRepository defines persistence for org-role assignments.
// Upsert and SetPrimary run in a single transaction so the
// one-primary-per-user invariant never has an observable gap.
type MembershipRepository interface {
	// Upsert inserts the membership or updates the existing
	// (user, organization) row in place. When m.IsPrimary is set it clears
	// the primary flag on the user's other rows in the same transaction.
	Upsert(ctx context.Context, m domain.Membership) error
	// Remove deletes the membership row and reports whether one existed.
	Remove(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error)
	// SetPrimary makes the (user, organization) row the user's only
	// primary membership. Returns errors.ErrNotAMember when no row exists.
	SetPrimary(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) error
	Get(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error)
	// IsMember reports whether a membership row exists for
	// (user, organization), regardless of role.
	IsMember(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error)
	// ListForUser returns the user's memberships with org metadata,
	// primary first, then most recently assigned.
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.MembershipWithOrg, error)
	// ListForOrganization returns org members with user metadata,
	// optionally filtered by role.
	ListForOrganization(ctx context.Context, orgID domain.OrganizationID, role *domain.OrgRole) ([]*domain.Member, error)
	Primary(ctx context.Context, userID domain.UserID) (*domain.MembershipWithOrg, error)
	RoleCounts(ctx context.Context, orgID domain.OrganizationID) ([]domain.RoleCount, error)
}

// PermissionRepository defines read/write access to the permission
// catalog, role grants and user overrides.
type PermissionRepository interface {
	// GetUserOverride returns the override row for (user, code) scoped to
	// exactly orgID (nil means the global row), or nil when absent.
	GetUserOverride(ctx context.Context, userID domain.UserID, code string, orgID *domain.OrganizationID) (*domain.UserPermission, error)
	// RoleHasPermission reports whether role_permissions grants code to role.
	RoleHasPermission(ctx context.Context, role domain.OrgRole, code string) (bool, error)
	// ListRolePermissions returns the catalog entries granted to role.
	ListRolePermissions(ctx context.Context, role domain.OrgRole) ([]*domain.Permission, error)
	// ListUserOverrideGrants returns catalog entries granted to the user by
	// override rows matching orgID or the global row. Denying rows are not
	// included.
	ListUserOverrideGrants(ctx context.Context, userID domain.UserID, orgID *domain.OrganizationID) ([]*domain.Permission, error)
	// UpsertUserOverride inserts or replaces the override for
	// (user, code, org).
	UpsertUserOverride(ctx context.Context, up domain.UserPermission) error
	// DeleteUserOverride removes the override and reports whether one existed.
	DeleteUserOverride(ctx context.Context, userID domain.UserID, code string, orgID *domain.OrganizationID) (bool, error)
	ListCatalog(ctx context.Context, module string) ([]*domain.Permission, error)
}

// TokenStore defines storage for hashed refresh tokens.
type TokenStore interface {
	StoreRefreshToken(ctx context.Context, userID domain.UserID, tokenHash string, expiresAt int64) error
	GetRefreshToken(ctx context.Context, tokenHash string) (domain.UserID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}
