package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

const (
	getExactOverrideSQL = `SELECT user_id, permission_code, organization_id, is_granted
		FROM user_permissions
		WHERE user_id = $1 AND permission_code = $2 AND organization_id = $3`

	getGlobalOverrideSQL = `SELECT user_id, permission_code, organization_id, is_granted
		FROM user_permissions
		WHERE user_id = $1 AND permission_code = $2 AND organization_id IS NULL`

	roleHasPermissionSQL = `SELECT EXISTS(
		SELECT 1 FROM role_permissions WHERE role_in_org = $1 AND permission_code = $2)`

	listRolePermissionsSQL = `SELECT p.code, p.module, p.name
		FROM role_permissions rp
		JOIN permissions p ON p.code = rp.permission_code
		WHERE rp.role_in_org = $1`

	listOverrideGrantsSQL = `SELECT p.code, p.module, p.name
		FROM user_permissions up
		JOIN permissions p ON p.code = up.permission_code
		WHERE up.user_id = $1 AND up.is_granted
			AND (up.organization_id IS NULL OR up.organization_id = $2)`

	listGlobalOverrideGrantsSQL = `SELECT p.code, p.module, p.name
		FROM user_permissions up
		JOIN permissions p ON p.code = up.permission_code
		WHERE up.user_id = $1 AND up.is_granted AND up.organization_id IS NULL`

	upsertOverrideSQL = `INSERT INTO user_permissions
		(user_id, permission_code, organization_id, is_granted)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, permission_code, organization_id) DO UPDATE SET
			is_granted = EXCLUDED.is_granted`

	deleteExactOverrideSQL = `DELETE FROM user_permissions
		WHERE user_id = $1 AND permission_code = $2 AND organization_id = $3`

	deleteGlobalOverrideSQL = `DELETE FROM user_permissions
		WHERE user_id = $1 AND permission_code = $2 AND organization_id IS NULL`

	listCatalogSQL = `SELECT code, module, name FROM permissions
		WHERE ($1::text IS NULL OR module = $1)
		ORDER BY module, code`
)

// PermissionRepository persists the permission catalog, role grants and
// per-user overrides. A unique constraint covers
// (user_id, permission_code, organization_id) so at most one override row
// can match a lookup.
type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) GetUserOverride(ctx context.Context, userID domain.UserID, code string, orgID *domain.OrganizationID) (*domain.UserPermission, error) {
	var row pgx.Row
	if orgID != nil {
		row = r.pool.QueryRow(ctx, getExactOverrideSQL, userID.UUID, code, orgID.UUID)
	} else {
		row = r.pool.QueryRow(ctx, getGlobalOverrideSQL, userID.UUID, code)
	}
	var up domain.UserPermission
	var uid uuid.UUID
	var oid *uuid.UUID
	if err := row.Scan(&uid, &up.PermissionCode, &oid, &up.IsGranted); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	up.UserID = domain.NewUserID(uid)
	if oid != nil {
		o := domain.NewOrganizationID(*oid)
		up.OrganizationID = &o
	}
	return &up, nil
}

func (r *PermissionRepository) RoleHasPermission(ctx context.Context, role domain.OrgRole, code string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, roleHasPermissionSQL, string(role), code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PermissionRepository) ListRolePermissions(ctx context.Context, role domain.OrgRole) ([]*domain.Permission, error) {
	rows, err := r.pool.Query(ctx, listRolePermissionsSQL, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func (r *PermissionRepository) ListUserOverrideGrants(ctx context.Context, userID domain.UserID, orgID *domain.OrganizationID) ([]*domain.Permission, error) {
	var rows pgx.Rows
	var err error
	if orgID != nil {
		rows, err = r.pool.Query(ctx, listOverrideGrantsSQL, userID.UUID, orgID.UUID)
	} else {
		rows, err = r.pool.Query(ctx, listGlobalOverrideGrantsSQL, userID.UUID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func (r *PermissionRepository) UpsertUserOverride(ctx context.Context, up domain.UserPermission) error {
	var oid *uuid.UUID
	if up.OrganizationID != nil {
		oid = &up.OrganizationID.UUID
	}
	_, err := r.pool.Exec(ctx, upsertOverrideSQL, up.UserID.UUID, up.PermissionCode, oid, up.IsGranted)
	return err
}

func (r *PermissionRepository) DeleteUserOverride(ctx context.Context, userID domain.UserID, code string, orgID *domain.OrganizationID) (bool, error) {
	if orgID != nil {
		t, err := r.pool.Exec(ctx, deleteExactOverrideSQL, userID.UUID, code, orgID.UUID)
		if err != nil {
			return false, err
		}
		return t.RowsAffected() > 0, nil
	}
	t, err := r.pool.Exec(ctx, deleteGlobalOverrideSQL, userID.UUID, code)
	if err != nil {
		return false, err
	}
	return t.RowsAffected() > 0, nil
}

func (r *PermissionRepository) ListCatalog(ctx context.Context, module string) ([]*domain.Permission, error) {
	var moduleFilter *string
	if module != "" {
		moduleFilter = &module
	}
	rows, err := r.pool.Query(ctx, listCatalogSQL, moduleFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func scanPermissions(rows pgx.Rows) ([]*domain.Permission, error) {
	var out []*domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.Code, &p.Module, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

var _ ports.PermissionRepository = (*PermissionRepository)(nil)
