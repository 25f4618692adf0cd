package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

const (
	createOrganizationSQL = `INSERT INTO organizations
		(organization_id, parent_id, name, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	getOrganizationSQL = `SELECT organization_id, parent_id, name, type, status, created_at
		FROM organizations WHERE organization_id = $1`

	listChildrenSQL = `SELECT organization_id, parent_id, name, type, status, created_at
		FROM organizations WHERE parent_id = $1 ORDER BY created_at`

	childIDsSQL = `SELECT organization_id FROM organizations
		WHERE parent_id = ANY($1::uuid[])`

	setOrgStatusSQL = `UPDATE organizations SET status = $1 WHERE organization_id = $2`
)

// OrganizationRepository persists organization tree nodes.
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	if org.ID.UUID == (uuid.UUID{}) {
		org.ID = domain.NewOrganizationID(uuid.New())
	}
	if org.Status == "" {
		org.Status = domain.OrgStatusActive
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now()
	}
	var parentID *uuid.UUID
	if org.ParentID != nil {
		parentID = &org.ParentID.UUID
	}
	_, err := r.pool.Exec(ctx, createOrganizationSQL,
		org.ID.UUID, parentID, org.Name, string(org.Type), string(org.Status), org.CreatedAt)
	return err
}

func (r *OrganizationRepository) GetByID(ctx context.Context, orgID domain.OrganizationID) (*domain.Organization, error) {
	rows, err := r.pool.Query(ctx, getOrganizationSQL, orgID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanOrganization(rows)
}

func (r *OrganizationRepository) ListChildren(ctx context.Context, parentID domain.OrganizationID) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx, listChildrenSQL, parentID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrganizationRepository) ChildIDs(ctx context.Context, parents []domain.OrganizationID) ([]domain.OrganizationID, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	ids := make([]string, len(parents))
	for i, p := range parents {
		ids[i] = p.String()
	}
	rows, err := r.pool.Query(ctx, childIDsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.OrganizationID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, domain.NewOrganizationID(id))
	}
	return out, rows.Err()
}

func (r *OrganizationRepository) SetStatus(ctx context.Context, orgID domain.OrganizationID, status domain.OrgStatus) error {
	_, err := r.pool.Exec(ctx, setOrgStatusSQL, string(status), orgID.UUID)
	return err
}

func scanOrganization(rows pgx.Rows) (*domain.Organization, error) {
	var o domain.Organization
	var id uuid.UUID
	var parentID *uuid.UUID
	var orgType, status string
	if err := rows.Scan(&id, &parentID, &o.Name, &orgType, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ID = domain.NewOrganizationID(id)
	if parentID != nil {
		p := domain.NewOrganizationID(*parentID)
		o.ParentID = &p
	}
	o.Type = domain.OrgType(orgType)
	o.Status = domain.OrgStatus(status)
	return &o, nil
}

var _ ports.OrganizationRepository = (*OrganizationRepository)(nil)
