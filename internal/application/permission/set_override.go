package permission

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

// SetOverrideInput grants or denies one permission for one user,
// optionally scoped to an organization.
type SetOverrideInput struct {
	ActorID        domain.UserID
	UserID         domain.UserID
	PermissionCode string
	OrgID          *domain.OrganizationID
	IsGranted      bool
}

// SetOverride writes a per-user permission override.
type SetOverride struct {
	checker *authz.PermissionChecker
	perms   ports.PermissionRepository
	tasks   ports.TaskEnqueuer
}

// NewSetOverride creates the use case.
func NewSetOverride(checker *authz.PermissionChecker, perms ports.PermissionRepository, tasks ports.TaskEnqueuer) *SetOverride {
	return &SetOverride{checker: checker, perms: perms, tasks: tasks}
}

// Execute checks the actor holds PERMISSION_MANAGE in the target scope,
// then upserts the (user, code, org) override row.
func (uc *SetOverride) Execute(ctx context.Context, input SetOverrideInput) error {
	allowed, err := uc.checker.HasPermission(ctx, input.ActorID, domain.PermissionManageCode, input.OrgID)
	if err != nil {
		return err
	}
	if !allowed {
		return domerrors.ErrForbidden
	}
	if err := uc.perms.UpsertUserOverride(ctx, domain.UserPermission{
		UserID:         input.UserID,
		PermissionCode: input.PermissionCode,
		OrganizationID: input.OrgID,
		IsGranted:      input.IsGranted,
	}); err != nil {
		return err
	}
	_ = uc.tasks.EnqueueOverrideChanged(ctx, input.UserID.String(), input.PermissionCode, input.IsGranted)
	return nil
}
