package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http/middleware"
)

// UsersHandler handles /users/*.
type UsersHandler struct {
	users       ports.UserRepository
	memberships ports.MembershipRepository
	checker     *authz.PermissionChecker
}

// NewUsersHandler creates a handler for user endpoints.
func NewUsersHandler(users ports.UserRepository, memberships ports.MembershipRepository, checker *authz.PermissionChecker) *UsersHandler {
	return &UsersHandler{users: users, memberships: memberships, checker: checker}
}

// UserResponse is the JSON shape for a user account.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
}

// UserOrgResponse is one entry in a user's organization listing.
type UserOrgResponse struct {
	Organization OrgResponse `json:"organization"`
	Role         string      `json:"role_in_org"`
	IsPrimary    bool        `json:"is_primary"`
	AssignedAt   string      `json:"assigned_date"`
}

func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FullName:  u.FullName,
		Code:      u.Code.String(),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func userOrgResponse(m *domain.MembershipWithOrg) UserOrgResponse {
	return UserOrgResponse{
		Organization: orgResponse(&m.Organization),
		Role:         m.Role.String(),
		IsPrimary:    m.IsPrimary,
		AssignedAt:   m.AssignedAt.Format(time.RFC3339),
	}
}

// Me returns the authenticated user's account.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if user == nil || user.IsDeleted {
		writeErr(w, http.StatusNotFound, "", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(user))
}

// MyOrganizations lists the caller's memberships, primary first.
func (h *UsersHandler) MyOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	memberships, err := h.memberships.ListForUser(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]UserOrgResponse, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, userOrgResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"organizations": items})
}

// MyPrimaryOrganization returns the caller's primary membership, or 404
// when none is flagged.
func (h *UsersHandler) MyPrimaryOrganization(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	m, err := h.memberships.Primary(r.Context(), userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if m == nil {
		writeErr(w, http.StatusNotFound, "", "no primary organization")
		return
	}
	writeJSON(w, http.StatusOK, userOrgResponse(m))
}

// MyPermissions lists the caller's effective permission codes, resolved
// against ?org_id when given.
func (h *UsersHandler) MyPermissions(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	orgID, ok := parseOptionalOrgQuery(w, r)
	if !ok {
		return
	}
	perms, err := h.checker.ListUserPermissions(r.Context(), userID, orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"permissions": permissionItems(perms)})
}

// List returns a page of user accounts. Requires the USER_VIEW permission.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	allowed, err := h.checker.HasPermission(r.Context(), userID, domain.UserViewCode, nil)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if !allowed {
		writeErr(w, http.StatusForbidden, "", "forbidden")
		return
	}
	limit := 50
	offset := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}
	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userResponse(u))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": items})
}
