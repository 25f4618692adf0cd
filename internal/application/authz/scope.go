package authz

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

// ScopeChecker decides whether a user's admin-level memberships cover a
// target organization.
type ScopeChecker struct {
	memberships ports.MembershipRepository
	tree        *TreeResolver
}

// NewScopeChecker creates a ScopeChecker.
func NewScopeChecker(memberships ports.MembershipRepository, tree *TreeResolver) *ScopeChecker {
	return &ScopeChecker{memberships: memberships, tree: tree}
}

// Covers reports whether userID holds SUPER_ADMIN or CENTER_ADMIN in
// some organization that equals target or is an ancestor of it. Every
// admin-level membership is tried; one hit suffices. No admin-level
// memberships means false — the gate fails closed.
func (s *ScopeChecker) Covers(ctx context.Context, userID domain.UserID, target domain.OrganizationID) (bool, error) {
	memberships, err := s.memberships.ListForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, m := range memberships {
		if m.Role != domain.RoleSuperAdmin && m.Role != domain.RoleCenterAdmin {
			continue
		}
		ok, err := s.tree.IsDescendantOrSelf(ctx, m.OrganizationID, target)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
