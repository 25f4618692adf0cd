package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/permission"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http/middleware"
)

// PermissionsHandler handles the permission catalog, effective-permission
// lookups and user-level overrides.
type PermissionsHandler struct {
	perms    ports.PermissionRepository
	checker  *authz.PermissionChecker
	setUC    *permission.SetOverride
	removeUC *permission.RemoveOverride
}

// NewPermissionsHandler creates a handler for permission endpoints.
func NewPermissionsHandler(perms ports.PermissionRepository, checker *authz.PermissionChecker, setUC *permission.SetOverride, removeUC *permission.RemoveOverride) *PermissionsHandler {
	return &PermissionsHandler{perms: perms, checker: checker, setUC: setUC, removeUC: removeUC}
}

// PermissionResponse is the JSON shape for a catalog entry.
type PermissionResponse struct {
	Code   string `json:"code"`
	Module string `json:"module"`
	Name   string `json:"name"`
}

func permissionItems(perms []*domain.Permission) []PermissionResponse {
	items := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		items = append(items, PermissionResponse{Code: p.Code, Module: p.Module, Name: p.Name})
	}
	return items
}

// Catalog lists the permission catalog, optionally filtered by ?module=.
func (h *PermissionsHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	perms, err := h.perms.ListCatalog(r.Context(), r.URL.Query().Get("module"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"permissions": permissionItems(perms)})
}

// Check reports whether the caller holds one permission code, resolved
// against ?org_id when given.
func (h *PermissionsHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeErr(w, http.StatusBadRequest, "", "code required")
		return
	}
	orgID, ok := parseOptionalOrgQuery(w, r)
	if !ok {
		return
	}
	allowed, err := h.checker.HasPermission(r.Context(), userID, code, orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"code": code, "granted": allowed})
}

// UserPermissions lists another user's effective permissions. The caller
// needs PERMISSION_MANAGE in the requested scope, unless asking about
// themselves.
func (h *PermissionsHandler) UserPermissions(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	targetID, ok := parseUserParam(w, r)
	if !ok {
		return
	}
	orgID, ok := parseOptionalOrgQuery(w, r)
	if !ok {
		return
	}
	if targetID != actorID {
		allowed, err := h.checker.HasPermission(r.Context(), actorID, domain.PermissionManageCode, orgID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "", "internal error")
			return
		}
		if !allowed {
			writeErr(w, http.StatusForbidden, "", "forbidden")
			return
		}
	}
	perms, err := h.checker.ListUserPermissions(r.Context(), targetID, orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"permissions": permissionItems(perms)})
}

// SetOverride grants or denies one permission for one user.
func (h *PermissionsHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	targetID, ok := parseUserParam(w, r)
	if !ok {
		return
	}
	var body struct {
		PermissionCode string  `json:"permission_code"`
		OrgID          *string `json:"organization_id"`
		IsGranted      bool    `json:"is_granted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if body.PermissionCode == "" {
		writeErr(w, http.StatusBadRequest, "", "permission_code required")
		return
	}
	orgID, ok := parseOptionalOrgField(w, body.OrgID)
	if !ok {
		return
	}
	err := h.setUC.Execute(r.Context(), permission.SetOverrideInput{
		ActorID:        actorID,
		UserID:         targetID,
		PermissionCode: body.PermissionCode,
		OrgID:          orgID,
		IsGranted:      body.IsGranted,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "override set"})
}

// RemoveOverride deletes one override row, restoring role-derived
// resolution for that permission.
func (h *PermissionsHandler) RemoveOverride(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	targetID, ok := parseUserParam(w, r)
	if !ok {
		return
	}
	code := chi.URLParam(r, "code")
	if code == "" {
		writeErr(w, http.StatusBadRequest, "", "permission code required")
		return
	}
	orgID, ok := parseOptionalOrgQuery(w, r)
	if !ok {
		return
	}
	removed, err := h.removeUC.Execute(r.Context(), permission.RemoveOverrideInput{
		ActorID:        actorID,
		UserID:         targetID,
		PermissionCode: code,
		OrgID:          orgID,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func parseUserParam(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	s := chi.URLParam(r, "user_id")
	id, err := uuid.Parse(s)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user_id")
		return domain.UserID{}, false
	}
	return domain.NewUserID(id), true
}

func parseOptionalOrgQuery(w http.ResponseWriter, r *http.Request) (*domain.OrganizationID, bool) {
	s := r.URL.Query().Get("org_id")
	if s == "" {
		return nil, true
	}
	id, err := uuid.Parse(s)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid org_id")
		return nil, false
	}
	orgID := domain.NewOrganizationID(id)
	return &orgID, true
}

func parseOptionalOrgField(w http.ResponseWriter, s *string) (*domain.OrganizationID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid organization_id")
		return nil, false
	}
	orgID := domain.NewOrganizationID(id)
	return &orgID, true
}
