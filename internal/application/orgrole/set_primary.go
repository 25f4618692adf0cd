package orgrole

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

// SetPrimary switches which of a user's organizations is flagged primary.
type SetPrimary struct {
	memberships ports.MembershipRepository
}

// NewSetPrimary creates the use case.
func NewSetPrimary(memberships ports.MembershipRepository) *SetPrimary {
	return &SetPrimary{memberships: memberships}
}

// Execute flags (userID, orgID) as the user's primary organization.
// Returns errors.ErrNotAMember when the user has no membership there.
// Clearing the previous primary and setting the new one happen in one
// transaction inside the repository.
func (uc *SetPrimary) Execute(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) error {
	return uc.memberships.SetPrimary(ctx, userID, orgID)
}
