package permission

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

// RemoveOverrideInput deletes one override row, restoring role-derived
// resolution for that permission.
type RemoveOverrideInput struct {
	ActorID        domain.UserID
	UserID         domain.UserID
	PermissionCode string
	OrgID          *domain.OrganizationID
}

// RemoveOverride deletes a per-user permission override.
type RemoveOverride struct {
	checker *authz.PermissionChecker
	perms   ports.PermissionRepository
	tasks   ports.TaskEnqueuer
}

// NewRemoveOverride creates the use case.
func NewRemoveOverride(checker *authz.PermissionChecker, perms ports.PermissionRepository, tasks ports.TaskEnqueuer) *RemoveOverride {
	return &RemoveOverride{checker: checker, perms: perms, tasks: tasks}
}

// Execute checks PERMISSION_MANAGE, then deletes the override. Deleting
// an absent row reports false, not an error.
func (uc *RemoveOverride) Execute(ctx context.Context, input RemoveOverrideInput) (bool, error) {
	allowed, err := uc.checker.HasPermission(ctx, input.ActorID, domain.PermissionManageCode, input.OrgID)
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, domerrors.ErrForbidden
	}
	removed, err := uc.perms.DeleteUserOverride(ctx, input.UserID, input.PermissionCode, input.OrgID)
	if err != nil {
		return false, err
	}
	if removed {
		_ = uc.tasks.EnqueueOverrideChanged(ctx, input.UserID.String(), input.PermissionCode, false)
	}
	return removed, nil
}
