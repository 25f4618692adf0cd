package middleware

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

type contextKey string

const (
	authContextKey      contextKey = "auth"
	targetOrgContextKey contextKey = "target_org"
)

type authInfo struct {
	userID domain.UserID
	role   domain.OrgRole
}

// WithAuth injects the authenticated user into the context.
func WithAuth(ctx context.Context, userID domain.UserID, role domain.OrgRole) context.Context {
	return context.WithValue(ctx, authContextKey, authInfo{userID: userID, role: role})
}

// AuthFromContext returns the authenticated user id and legacy role code.
// ok is false when the request was not authenticated.
func AuthFromContext(ctx context.Context) (userID domain.UserID, role domain.OrgRole, ok bool) {
	v := ctx.Value(authContextKey)
	if v == nil {
		return domain.UserID{}, "", false
	}
	info, ok := v.(authInfo)
	return info.userID, info.role, ok
}

// WithTargetOrg injects the scope-checked target organization id.
func WithTargetOrg(ctx context.Context, orgID domain.OrganizationID) context.Context {
	return context.WithValue(ctx, targetOrgContextKey, orgID)
}

// TargetOrgFromContext returns the target organization set by the scope
// gate, or ok=false outside scope-gated routes.
func TargetOrgFromContext(ctx context.Context) (domain.OrganizationID, bool) {
	v := ctx.Value(targetOrgContextKey)
	if v == nil {
		return domain.OrganizationID{}, false
	}
	id, ok := v.(domain.OrganizationID)
	return id, ok
}
