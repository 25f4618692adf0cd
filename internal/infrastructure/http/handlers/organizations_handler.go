package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/orgrole"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http/middleware"
)

// OrganizationsHandler handles /organizations/*. Requires JWT; the
// admin-level routes additionally sit behind the org-scope gate.
type OrganizationsHandler struct {
	orgs        ports.OrganizationRepository
	memberships ports.MembershipRepository
	scope       *authz.ScopeChecker
	assignUC    *orgrole.AssignRole
	removeUC    *orgrole.RemoveRole
	setPrimary  *orgrole.SetPrimary
}

// NewOrganizationsHandler creates a handler for organization endpoints.
func NewOrganizationsHandler(orgs ports.OrganizationRepository, memberships ports.MembershipRepository, scope *authz.ScopeChecker, assignUC *orgrole.AssignRole, removeUC *orgrole.RemoveRole, setPrimary *orgrole.SetPrimary) *OrganizationsHandler {
	return &OrganizationsHandler{
		orgs:        orgs,
		memberships: memberships,
		scope:       scope,
		assignUC:    assignUC,
		removeUC:    removeUC,
		setPrimary:  setPrimary,
	}
}

// OrgResponse is the JSON shape for an organization.
type OrgResponse struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parent_id,omitempty"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// MemberResponse is the JSON shape for an organization member.
type MemberResponse struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role_in_org"`
	IsPrimary  bool   `json:"is_primary"`
	AssignedAt string `json:"assigned_date"`
}

func orgResponse(o *domain.Organization) OrgResponse {
	resp := OrgResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Type:      string(o.Type),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
	if o.ParentID != nil {
		p := o.ParentID.String()
		resp.ParentID = &p
	}
	return resp
}

// Create creates an organization. A child org requires admin scope over
// its parent; a root org requires the SUPER_ADMIN legacy role code.
func (h *OrganizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, roleCode, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	var body struct {
		Name     string `json:"name" validate:"required,max=255"`
		Type     string `json:"type" validate:"required"`
		ParentID string `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "name and type required")
		return
	}
	orgType := domain.OrgType(body.Type)
	if !orgType.Valid() {
		writeErr(w, http.StatusBadRequest, "", "invalid organization type")
		return
	}
	org := &domain.Organization{
		Name:   body.Name,
		Type:   orgType,
		Status: domain.OrgStatusActive,
	}
	if body.ParentID != "" {
		parentUUID, err := uuid.Parse(body.ParentID)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "", "invalid parent_id")
			return
		}
		parentID := domain.NewOrganizationID(parentUUID)
		covered, err := h.scope.Covers(r.Context(), userID, parentID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "", "internal error")
			return
		}
		if !covered {
			writeErr(w, http.StatusForbidden, "", "parent organization out of scope")
			return
		}
		parent, err := h.orgs.GetByID(r.Context(), parentID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "", "internal error")
			return
		}
		if parent == nil {
			writeErr(w, http.StatusNotFound, "", "parent organization not found")
			return
		}
		org.ParentID = &parentID
	} else if roleCode != domain.RoleSuperAdmin {
		writeErr(w, http.StatusForbidden, "", "only SUPER_ADMIN may create a root organization")
		return
	}
	if err := h.orgs.Create(r.Context(), org); err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, orgResponse(org))
}

// Get returns one organization. Scope-gated.
func (h *OrganizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.TargetOrgFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "organization id required")
		return
	}
	org, err := h.orgs.GetByID(r.Context(), orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if org == nil {
		writeErr(w, http.StatusNotFound, "", "organization not found")
		return
	}
	writeJSON(w, http.StatusOK, orgResponse(org))
}

// ListChildren returns direct children of an organization. Scope-gated.
func (h *OrganizationsHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.TargetOrgFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "organization id required")
		return
	}
	children, err := h.orgs.ListChildren(r.Context(), orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]OrgResponse, 0, len(children))
	for _, o := range children {
		items = append(items, orgResponse(o))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"organizations": items})
}

// SetStatus flips an organization's status (soft deactivate/reactivate). Scope-gated.
func (h *OrganizationsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.TargetOrgFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "organization id required")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	status := domain.OrgStatus(body.Status)
	if status != domain.OrgStatusActive && status != domain.OrgStatusInactive {
		writeErr(w, http.StatusBadRequest, "", "status must be ACTIVE or INACTIVE")
		return
	}
	if err := h.orgs.SetStatus(r.Context(), orgID, status); err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

// ListMembers returns members of an organization, optionally filtered by
// ?role=. Scope-gated.
func (h *OrganizationsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.TargetOrgFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "organization id required")
		return
	}
	var roleFilter *domain.OrgRole
	if s := r.URL.Query().Get("role"); s != "" {
		role := domain.OrgRole(s)
		if !role.Valid() {
			writeErr(w, http.StatusBadRequest, ErrCodeInvalidRole, "invalid role filter")
			return
		}
		roleFilter = &role
	}
	members, err := h.memberships.ListForOrganization(r.Context(), orgID, roleFilter)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, MemberResponse{
			UserID:     m.UserID.String(),
			Email:      m.Email,
			FullName:   m.FullName,
			Role:       m.Role.String(),
			IsPrimary:  m.IsPrimary,
			AssignedAt: m.AssignedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": items})
}

// RoleStats returns member counts per role. Scope-gated.
func (h *OrganizationsHandler) RoleStats(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.TargetOrgFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusBadRequest, "", "organization id required")
		return
	}
	counts, err := h.memberships.RoleCounts(r.Context(), orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	type stat struct {
		Role  string `json:"role_in_org"`
		Count int    `json:"count"`
	}
	items := make([]stat, 0, len(counts))
	for _, c := range counts {
		items = append(items, stat{Role: c.Role.String(), Count: c.Count})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": items})
}

// AssignRole grants a role in the organization. The assigner's own role
// in the org is checked against the assignment policy inside the use case.
func (h *OrganizationsHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	orgID, ok := parseOrgParam(w, r)
	if !ok {
		return
	}
	var body struct {
		UserID    string `json:"user_id"`
		Role      string `json:"role_in_org"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if body.UserID == "" || body.Role == "" {
		writeErr(w, http.StatusBadRequest, "", "user_id and role_in_org required")
		return
	}
	targetUUID, err := uuid.Parse(body.UserID)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user_id")
		return
	}
	created, err := h.assignUC.Execute(r.Context(), orgrole.AssignRoleInput{
		AssignerID: actorID,
		UserID:     domain.NewUserID(targetUUID),
		OrgID:      orgID,
		Role:       domain.OrgRole(body.Role),
		IsPrimary:  body.IsPrimary,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	// 201 only for a brand-new membership; re-assignment updates in place.
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"message": "role assigned"})
}

// RemoveRole revokes a user's membership in the organization.
func (h *OrganizationsHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	orgID, ok := parseOrgParam(w, r)
	if !ok {
		return
	}
	targetStr := chi.URLParam(r, "user_id")
	targetUUID, err := uuid.Parse(targetStr)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user_id")
		return
	}
	removed, err := h.removeUC.Execute(r.Context(), orgrole.RemoveRoleInput{
		RequesterID: actorID,
		UserID:      domain.NewUserID(targetUUID),
		OrgID:       orgID,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// GetMemberRole returns one user's role in the organization, or 404.
func (h *OrganizationsHandler) GetMemberRole(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseOrgParam(w, r)
	if !ok {
		return
	}
	targetStr := chi.URLParam(r, "user_id")
	targetUUID, err := uuid.Parse(targetStr)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user_id")
		return
	}
	m, err := h.memberships.Get(r.Context(), domain.NewUserID(targetUUID), orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if m == nil {
		writeErr(w, http.StatusNotFound, ErrCodeNotAMember, "no membership in this organization")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role_in_org": m.Role.String(),
		"is_primary":  m.IsPrimary,
	})
}

// SetPrimary flags the organization as the caller's primary one.
func (h *OrganizationsHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	orgID, ok := parseOrgParam(w, r)
	if !ok {
		return
	}
	if err := h.setPrimary.Execute(r.Context(), userID, orgID); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "primary organization updated"})
}

func parseOrgParam(w http.ResponseWriter, r *http.Request) (domain.OrganizationID, bool) {
	orgIDStr := chi.URLParam(r, "org_id")
	if orgIDStr == "" {
		writeErr(w, http.StatusBadRequest, "", "organization id required")
		return domain.OrganizationID{}, false
	}
	orgUUID, err := uuid.Parse(orgIDStr)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid organization id")
		return domain.OrganizationID{}, false
	}
	return domain.NewOrganizationID(orgUUID), true
}
