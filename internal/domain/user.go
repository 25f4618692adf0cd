package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// User is an account. Code is the legacy global role code used by
// role-derived permission resolution; org-scoped roles live in
// organization memberships. Users are soft-deleted via IsDeleted.
type User struct {
	ID           UserID
	Email        string
	FullName     string
	PasswordHash string
	Code         OrgRole
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
