package orgrole

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

// memMembershipRepo mirrors the postgres repository's invariants in
// memory: one row per (user, org), at most one primary per user.
// Writes advance an artificial clock so assignment recency is
// deterministic in tests.
type memMembershipRepo struct {
	rows []*domain.Membership
	now  time.Time
}

func (f *memMembershipRepo) tick() time.Time {
	if f.now.IsZero() {
		f.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *memMembershipRepo) find(userID domain.UserID, orgID domain.OrganizationID) *domain.Membership {
	for _, m := range f.rows {
		if m.UserID == userID && m.OrganizationID == orgID {
			return m
		}
	}
	return nil
}

func (f *memMembershipRepo) Upsert(ctx context.Context, m domain.Membership) error {
	if m.IsPrimary {
		for _, row := range f.rows {
			if row.UserID == m.UserID {
				row.IsPrimary = false
			}
		}
	}
	m.AssignedAt = f.tick()
	if existing := f.find(m.UserID, m.OrganizationID); existing != nil {
		existing.Role = m.Role
		existing.IsPrimary = m.IsPrimary
		existing.AssignedBy = m.AssignedBy
		existing.AssignedAt = m.AssignedAt
		return nil
	}
	cp := m
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *memMembershipRepo) Remove(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error) {
	for i, m := range f.rows {
		if m.UserID == userID && m.OrganizationID == orgID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *memMembershipRepo) SetPrimary(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) error {
	target := f.find(userID, orgID)
	if target == nil {
		return domerrors.ErrNotAMember
	}
	for _, m := range f.rows {
		if m.UserID == userID {
			m.IsPrimary = false
		}
	}
	target.IsPrimary = true
	return nil
}

func (f *memMembershipRepo) Get(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error) {
	m := f.find(userID, orgID)
	if m == nil {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *memMembershipRepo) IsMember(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error) {
	return f.find(userID, orgID) != nil, nil
}

// ListForUser orders like the SQL listing: primary first, then most
// recently assigned.
func (f *memMembershipRepo) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.MembershipWithOrg, error) {
	var out []*domain.MembershipWithOrg
	for _, m := range f.rows {
		if m.UserID == userID {
			out = append(out, &domain.MembershipWithOrg{Membership: *m})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].AssignedAt.After(out[j].AssignedAt)
	})
	return out, nil
}

func (f *memMembershipRepo) ListForOrganization(ctx context.Context, orgID domain.OrganizationID, role *domain.OrgRole) ([]*domain.Member, error) {
	var out []*domain.Member
	for _, m := range f.rows {
		if m.OrganizationID == orgID && (role == nil || m.Role == *role) {
			out = append(out, &domain.Member{Membership: *m})
		}
	}
	return out, nil
}

func (f *memMembershipRepo) Primary(ctx context.Context, userID domain.UserID) (*domain.MembershipWithOrg, error) {
	for _, m := range f.rows {
		if m.UserID == userID && m.IsPrimary {
			return &domain.MembershipWithOrg{Membership: *m}, nil
		}
	}
	return nil, nil
}

func (f *memMembershipRepo) RoleCounts(ctx context.Context, orgID domain.OrganizationID) ([]domain.RoleCount, error) {
	counts := map[domain.OrgRole]int{}
	for _, m := range f.rows {
		if m.OrganizationID == orgID {
			counts[m.Role]++
		}
	}
	var out []domain.RoleCount
	for r, n := range counts {
		out = append(out, domain.RoleCount{Role: r, Count: n})
	}
	return out, nil
}

type recordingEnqueuer struct {
	events []string
}

func (f *recordingEnqueuer) EnqueueRoleChanged(ctx context.Context, userID, orgID, role, event string) error {
	f.events = append(f.events, event)
	return nil
}

func (f *recordingEnqueuer) EnqueueOverrideChanged(ctx context.Context, userID, code string, granted bool) error {
	f.events = append(f.events, "override.changed")
	return nil
}

func newUserID() domain.UserID           { return domain.NewUserID(uuid.New()) }
func newOrgID() domain.OrganizationID    { return domain.NewOrganizationID(uuid.New()) }
