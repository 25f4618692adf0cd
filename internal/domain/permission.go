package domain

// SystemAdminCode is the sentinel permission: a role granted it passes
// every permission check regardless of the requested code.
const SystemAdminCode = "SYSTEM_ADMIN"

// PermissionManageCode guards grant/revoke of user-level overrides.
const PermissionManageCode = "PERMISSION_MANAGE"

// UserViewCode guards listing and inspecting other users' accounts.
const UserViewCode = "USER_VIEW"

// Permission is a named capability in the static catalog.
type Permission struct {
	Code   string
	Module string
	Name   string
}

// RolePermission statically entitles a role code to a permission,
// independent of organization.
type RolePermission struct {
	Role           OrgRole
	PermissionCode string
}

// UserPermission is a per-user override. OrganizationID nil means the
// row applies globally; an exact-org row takes precedence over the
// global one. IsGranted false actively denies a permission the user's
// role would otherwise grant.
type UserPermission struct {
	UserID         UserID
	PermissionCode string
	OrganizationID *OrganizationID
	IsGranted      bool
}
