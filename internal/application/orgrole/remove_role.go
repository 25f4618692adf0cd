package orgrole

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

// RemoveRoleInput carries one role revocation request.
type RemoveRoleInput struct {
	RequesterID domain.UserID
	UserID      domain.UserID
	OrgID       domain.OrganizationID
}

// RemoveRole revokes a user's membership in an organization. Revoking a
// role requires the same authority as granting it.
type RemoveRole struct {
	memberships ports.MembershipRepository
	tasks       ports.TaskEnqueuer
}

// NewRemoveRole creates the use case.
func NewRemoveRole(memberships ports.MembershipRepository, tasks ports.TaskEnqueuer) *RemoveRole {
	return &RemoveRole{memberships: memberships, tasks: tasks}
}

// Execute returns whether a membership row was actually removed.
// Removing an absent membership is reported as false, not an error.
func (uc *RemoveRole) Execute(ctx context.Context, input RemoveRoleInput) (bool, error) {
	existing, err := uc.memberships.Get(ctx, input.UserID, input.OrgID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	requester, err := uc.memberships.Get(ctx, input.RequesterID, input.OrgID)
	if err != nil {
		return false, err
	}
	var requesterRole domain.OrgRole
	if requester != nil {
		requesterRole = requester.Role
	}
	if !domain.CanAssign(requesterRole, existing.Role) {
		return false, domerrors.ErrForbidden
	}
	removed, err := uc.memberships.Remove(ctx, input.UserID, input.OrgID)
	if err != nil {
		return false, err
	}
	if removed {
		_ = uc.tasks.EnqueueRoleChanged(ctx, input.UserID.String(), input.OrgID.String(), existing.Role.String(), "role.revoked")
	}
	return removed, nil
}
