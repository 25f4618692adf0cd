package orgrole

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

// AssignRoleInput carries one role assignment request.
type AssignRoleInput struct {
	AssignerID domain.UserID
	UserID     domain.UserID
	OrgID      domain.OrganizationID
	Role       domain.OrgRole
	IsPrimary  bool
}

// AssignRole grants a user a role within an organization. Re-assignment
// updates the existing membership row in place.
type AssignRole struct {
	memberships ports.MembershipRepository
	tasks       ports.TaskEnqueuer
}

// NewAssignRole creates the use case.
func NewAssignRole(memberships ports.MembershipRepository, tasks ports.TaskEnqueuer) *AssignRole {
	return &AssignRole{memberships: memberships, tasks: tasks}
}

// Execute validates the role, checks the assigner's own role in the
// organization against the assignment policy, then writes the membership.
// Validation and authorization both happen before any write. The
// returned bool is true when a new membership row was created, false
// when an existing one was updated in place.
func (uc *AssignRole) Execute(ctx context.Context, input AssignRoleInput) (bool, error) {
	if !input.Role.Valid() {
		return false, domerrors.ErrInvalidRole
	}
	assigner, err := uc.memberships.Get(ctx, input.AssignerID, input.OrgID)
	if err != nil {
		return false, err
	}
	var assignerRole domain.OrgRole
	if assigner != nil {
		assignerRole = assigner.Role
	}
	if !domain.CanAssign(assignerRole, input.Role) {
		return false, domerrors.ErrForbidden
	}
	existed, err := uc.memberships.IsMember(ctx, input.UserID, input.OrgID)
	if err != nil {
		return false, err
	}
	if err := uc.memberships.Upsert(ctx, domain.Membership{
		UserID:         input.UserID,
		OrganizationID: input.OrgID,
		Role:           input.Role,
		IsPrimary:      input.IsPrimary,
		AssignedBy:     input.AssignerID,
	}); err != nil {
		return false, err
	}
	_ = uc.tasks.EnqueueRoleChanged(ctx, input.UserID.String(), input.OrgID.String(), input.Role.String(), "role.assigned")
	return !existed, nil
}
