package authz

import (
	"context"
	"sort"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

// PermissionChecker resolves a (user, permission, organization) triple to
// a single allow/deny decision. Read-only; every check hits current
// state, no cache.
type PermissionChecker struct {
	users ports.UserRepository
	perms ports.PermissionRepository
}

// NewPermissionChecker creates a PermissionChecker.
func NewPermissionChecker(users ports.UserRepository, perms ports.PermissionRepository) *PermissionChecker {
	return &PermissionChecker{users: users, perms: perms}
}

// HasPermission decides whether userID holds code, optionally scoped to
// orgID. Resolution order, first match wins:
//
//  1. user override, exact-org row before the global (nil-org) row; the
//     override's is_granted is returned as-is, so an override can deny a
//     permission the role would grant;
//  2. role_permissions for the user's legacy global role code;
//  3. SYSTEM_ADMIN escape hatch on that same role;
//  4. deny.
func (c *PermissionChecker) HasPermission(ctx context.Context, userID domain.UserID, code string, orgID *domain.OrganizationID) (bool, error) {
	// Override lookup is two explicit steps so the precedence rule is
	// visible here rather than buried in query ordering.
	if orgID != nil {
		ov, err := c.perms.GetUserOverride(ctx, userID, code, orgID)
		if err != nil {
			return false, err
		}
		if ov != nil {
			return ov.IsGranted, nil
		}
	}
	ov, err := c.perms.GetUserOverride(ctx, userID, code, nil)
	if err != nil {
		return false, err
	}
	if ov != nil {
		return ov.IsGranted, nil
	}

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil || user.IsDeleted {
		return false, nil
	}
	granted, err := c.perms.RoleHasPermission(ctx, user.Code, code)
	if err != nil {
		return false, err
	}
	if granted {
		return true, nil
	}
	return c.perms.RoleHasPermission(ctx, user.Code, domain.SystemAdminCode)
}

// ListUserPermissions returns the deduplicated union of role-derived
// grants and organization-matched override grants, sorted by module then
// code. This is a listing for display: a permission appears when either
// source grants it, which is intentionally broader than HasPermission,
// where an override may deny a role grant.
func (c *PermissionChecker) ListUserPermissions(ctx context.Context, userID domain.UserID, orgID *domain.OrganizationID) ([]*domain.Permission, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var fromRole []*domain.Permission
	if user != nil && !user.IsDeleted {
		fromRole, err = c.perms.ListRolePermissions(ctx, user.Code)
		if err != nil {
			return nil, err
		}
	}
	fromOverrides, err := c.perms.ListUserOverrideGrants(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(fromRole)+len(fromOverrides))
	out := make([]*domain.Permission, 0, len(fromRole)+len(fromOverrides))
	for _, p := range append(fromRole, fromOverrides...) {
		if seen[p.Code] {
			continue
		}
		seen[p.Code] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
