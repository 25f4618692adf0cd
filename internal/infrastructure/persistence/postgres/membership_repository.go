package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	domerrors "github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain/errors"
)

const (
	clearOtherPrimariesSQL = `UPDATE organization_memberships SET is_primary = FALSE
		WHERE user_id = $1 AND organization_id <> $2 AND is_primary`

	upsertMembershipSQL = `INSERT INTO organization_memberships
		(user_id, organization_id, role_in_org, is_primary, assigned_by, assigned_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET
			role_in_org = EXCLUDED.role_in_org,
			is_primary = EXCLUDED.is_primary,
			assigned_by = EXCLUDED.assigned_by,
			assigned_date = EXCLUDED.assigned_date`

	deleteMembershipSQL = `DELETE FROM organization_memberships
		WHERE user_id = $1 AND organization_id = $2`

	lockMembershipSQL = `SELECT 1 FROM organization_memberships
		WHERE user_id = $1 AND organization_id = $2 FOR UPDATE`

	clearAllPrimariesSQL = `UPDATE organization_memberships SET is_primary = FALSE
		WHERE user_id = $1 AND is_primary`

	setPrimarySQL = `UPDATE organization_memberships SET is_primary = TRUE
		WHERE user_id = $1 AND organization_id = $2`

	getMembershipSQL = `SELECT user_id, organization_id, role_in_org, is_primary, assigned_by, assigned_date
		FROM organization_memberships WHERE user_id = $1 AND organization_id = $2`

	memberExistsSQL = `SELECT EXISTS (
		SELECT 1 FROM organization_memberships
		WHERE user_id = $1 AND organization_id = $2)`

	listUserMembershipsSQL = `SELECT om.user_id, om.organization_id, om.role_in_org, om.is_primary,
			om.assigned_by, om.assigned_date,
			o.parent_id, o.name, o.type, o.status, o.created_at
		FROM organization_memberships om
		JOIN organizations o ON o.organization_id = om.organization_id
		WHERE om.user_id = $1
		ORDER BY om.is_primary DESC, om.assigned_date DESC`

	primaryMembershipSQL = `SELECT om.user_id, om.organization_id, om.role_in_org, om.is_primary,
			om.assigned_by, om.assigned_date,
			o.parent_id, o.name, o.type, o.status, o.created_at
		FROM organization_memberships om
		JOIN organizations o ON o.organization_id = om.organization_id
		WHERE om.user_id = $1 AND om.is_primary
		LIMIT 1`

	listOrgMembersSQL = `SELECT om.user_id, om.organization_id, om.role_in_org, om.is_primary,
			om.assigned_by, om.assigned_date, u.email, u.full_name
		FROM organization_memberships om
		JOIN users u ON u.user_id = om.user_id
		WHERE om.organization_id = $1 AND ($2::text IS NULL OR om.role_in_org = $2)
		ORDER BY om.assigned_date DESC`

	roleCountsSQL = `SELECT role_in_org, COUNT(*) FROM organization_memberships
		WHERE organization_id = $1
		GROUP BY role_in_org
		ORDER BY COUNT(*) DESC`
)

// MembershipRepository persists org-role assignments. Every mutation that
// touches the primary flag runs in one transaction, so the
// one-primary-per-user invariant has no observable gap; concurrent
// primary switches for the same user serialize on the row locks.
type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

func (r *MembershipRepository) Upsert(ctx context.Context, m domain.Membership) error {
	if m.AssignedAt.IsZero() {
		m.AssignedAt = time.Now()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if m.IsPrimary {
		if _, err := tx.Exec(ctx, clearOtherPrimariesSQL, m.UserID.UUID, m.OrganizationID.UUID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, upsertMembershipSQL,
		m.UserID.UUID, m.OrganizationID.UUID, string(m.Role), m.IsPrimary, m.AssignedBy.UUID, m.AssignedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *MembershipRepository) Remove(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteMembershipSQL, userID.UUID, orgID.UUID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MembershipRepository) SetPrimary(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	var one int
	if err := tx.QueryRow(ctx, lockMembershipSQL, userID.UUID, orgID.UUID).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return domerrors.ErrNotAMember
		}
		return err
	}
	if _, err := tx.Exec(ctx, clearAllPrimariesSQL, userID.UUID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, setPrimarySQL, userID.UUID, orgID.UUID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *MembershipRepository) Get(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error) {
	var m domain.Membership
	var uid, oid, assignedBy uuid.UUID
	var role string
	err := r.pool.QueryRow(ctx, getMembershipSQL, userID.UUID, orgID.UUID).
		Scan(&uid, &oid, &role, &m.IsPrimary, &assignedBy, &m.AssignedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	m.UserID = domain.NewUserID(uid)
	m.OrganizationID = domain.NewOrganizationID(oid)
	m.Role = domain.OrgRole(role)
	m.AssignedBy = domain.NewUserID(assignedBy)
	return &m, nil
}

func (r *MembershipRepository) IsMember(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, memberExistsSQL, userID.UUID, orgID.UUID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *MembershipRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.MembershipWithOrg, error) {
	rows, err := r.pool.Query(ctx, listUserMembershipsSQL, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.MembershipWithOrg
	for rows.Next() {
		mo, err := scanMembershipWithOrg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mo)
	}
	return out, rows.Err()
}

func (r *MembershipRepository) Primary(ctx context.Context, userID domain.UserID) (*domain.MembershipWithOrg, error) {
	rows, err := r.pool.Query(ctx, primaryMembershipSQL, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMembershipWithOrg(rows)
}

func (r *MembershipRepository) ListForOrganization(ctx context.Context, orgID domain.OrganizationID, role *domain.OrgRole) ([]*domain.Member, error) {
	var roleFilter *string
	if role != nil {
		s := string(*role)
		roleFilter = &s
	}
	rows, err := r.pool.Query(ctx, listOrgMembersSQL, orgID.UUID, roleFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Member
	for rows.Next() {
		var m domain.Member
		var uid, oid, assignedBy uuid.UUID
		var roleStr string
		if err := rows.Scan(&uid, &oid, &roleStr, &m.IsPrimary, &assignedBy, &m.AssignedAt, &m.Email, &m.FullName); err != nil {
			return nil, err
		}
		m.UserID = domain.NewUserID(uid)
		m.OrganizationID = domain.NewOrganizationID(oid)
		m.Role = domain.OrgRole(roleStr)
		m.AssignedBy = domain.NewUserID(assignedBy)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *MembershipRepository) RoleCounts(ctx context.Context, orgID domain.OrganizationID) ([]domain.RoleCount, error) {
	rows, err := r.pool.Query(ctx, roleCountsSQL, orgID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.RoleCount
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		out = append(out, domain.RoleCount{Role: domain.OrgRole(role), Count: count})
	}
	return out, rows.Err()
}

func scanMembershipWithOrg(rows pgx.Rows) (*domain.MembershipWithOrg, error) {
	var mo domain.MembershipWithOrg
	var uid, oid, assignedBy uuid.UUID
	var parentID *uuid.UUID
	var role, orgType, orgStatus string
	if err := rows.Scan(&uid, &oid, &role, &mo.IsPrimary, &assignedBy, &mo.AssignedAt,
		&parentID, &mo.Organization.Name, &orgType, &orgStatus, &mo.Organization.CreatedAt); err != nil {
		return nil, err
	}
	mo.UserID = domain.NewUserID(uid)
	mo.OrganizationID = domain.NewOrganizationID(oid)
	mo.Role = domain.OrgRole(role)
	mo.AssignedBy = domain.NewUserID(assignedBy)
	mo.Organization.ID = domain.NewOrganizationID(oid)
	if parentID != nil {
		p := domain.NewOrganizationID(*parentID)
		mo.Organization.ParentID = &p
	}
	mo.Organization.Type = domain.OrgType(orgType)
	mo.Organization.Status = domain.OrgStatus(orgStatus)
	return &mo, nil
}

var _ ports.MembershipRepository = (*MembershipRepository)(nil)
