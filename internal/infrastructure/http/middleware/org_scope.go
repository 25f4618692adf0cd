package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

// OrgScope gates a route on the acting user's admin authority over the
// target organization: the user must hold SUPER_ADMIN or CENTER_ADMIN in
// an organization equal to or above the target in the tree. The target
// org id is taken from the {org_id} URL parameter; a missing or
// malformed id is a 400, an uncovered target a 403. The gate fails
// closed on any resolution error.
func OrgScope(scope *authz.ScopeChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _, ok := AuthFromContext(r.Context())
			if !ok {
				writeErr(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
				return
			}
			orgIDStr := chi.URLParam(r, "org_id")
			if orgIDStr == "" {
				writeErr(w, http.StatusBadRequest, "invalid_request", "organization id required")
				return
			}
			orgID, err := uuid.Parse(orgIDStr)
			if err != nil {
				writeErr(w, http.StatusBadRequest, "invalid_request", "invalid organization id")
				return
			}
			target := domain.NewOrganizationID(orgID)
			covered, err := scope.Covers(r.Context(), userID, target)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
			if !covered {
				RecordAuthzDecision("org_scope", "deny")
				writeErr(w, http.StatusForbidden, "forbidden", "organization out of scope")
				return
			}
			RecordAuthzDecision("org_scope", "allow")
			next.ServeHTTP(w, r.WithContext(WithTargetOrg(r.Context(), target)))
		})
	}
}
