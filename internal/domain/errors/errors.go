package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrInvalidRole          = errors.New("role is not one of the defined role codes")
	ErrNotAMember           = errors.New("user has no membership in this organization")
	ErrForbidden            = errors.New("not allowed by role or permission policy")
	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrUserExists           = errors.New("user already exists with this email")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired refresh token")
)
