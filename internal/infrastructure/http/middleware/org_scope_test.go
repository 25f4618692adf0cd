package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/authz"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

type stubMembershipRepo struct {
	byUser map[domain.UserID][]*domain.MembershipWithOrg
}

func (s *stubMembershipRepo) Upsert(ctx context.Context, m domain.Membership) error { return nil }
func (s *stubMembershipRepo) Remove(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error) {
	return false, nil
}
func (s *stubMembershipRepo) SetPrimary(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) error {
	return nil
}
func (s *stubMembershipRepo) Get(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error) {
	return nil, nil
}
func (s *stubMembershipRepo) IsMember(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (bool, error) {
	for _, m := range s.byUser[userID] {
		if m.OrganizationID == orgID {
			return true, nil
		}
	}
	return false, nil
}
func (s *stubMembershipRepo) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.MembershipWithOrg, error) {
	return s.byUser[userID], nil
}
func (s *stubMembershipRepo) ListForOrganization(ctx context.Context, orgID domain.OrganizationID, role *domain.OrgRole) ([]*domain.Member, error) {
	return nil, nil
}
func (s *stubMembershipRepo) Primary(ctx context.Context, userID domain.UserID) (*domain.MembershipWithOrg, error) {
	return nil, nil
}
func (s *stubMembershipRepo) RoleCounts(ctx context.Context, orgID domain.OrganizationID) ([]domain.RoleCount, error) {
	return nil, nil
}

type stubOrgRepo struct {
	children map[domain.OrganizationID][]domain.OrganizationID
}

func (s *stubOrgRepo) Create(ctx context.Context, org *domain.Organization) error { return nil }
func (s *stubOrgRepo) GetByID(ctx context.Context, orgID domain.OrganizationID) (*domain.Organization, error) {
	return nil, nil
}
func (s *stubOrgRepo) ListChildren(ctx context.Context, parentID domain.OrganizationID) ([]*domain.Organization, error) {
	return nil, nil
}
func (s *stubOrgRepo) ChildIDs(ctx context.Context, parents []domain.OrganizationID) ([]domain.OrganizationID, error) {
	var out []domain.OrganizationID
	for _, p := range parents {
		out = append(out, s.children[p]...)
	}
	return out, nil
}
func (s *stubOrgRepo) SetStatus(ctx context.Context, orgID domain.OrganizationID, status domain.OrgStatus) error {
	return nil
}

func scopedRouter(t *testing.T, scope *authz.ScopeChecker) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/organizations/{org_id}", func(r chi.Router) {
		r.Use(OrgScope(scope))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, ok := TargetOrgFromContext(r.Context())
			require.True(t, ok)
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestOrgScope(t *testing.T) {
	admin := domain.NewUserID(uuid.New())
	outsider := domain.NewUserID(uuid.New())
	center := domain.NewOrganizationID(uuid.New())
	school := domain.NewOrganizationID(uuid.New())

	orgs := &stubOrgRepo{children: map[domain.OrganizationID][]domain.OrganizationID{
		center: {school},
	}}
	memberships := &stubMembershipRepo{byUser: map[domain.UserID][]*domain.MembershipWithOrg{
		admin: {{Membership: domain.Membership{
			UserID:         admin,
			OrganizationID: center,
			Role:           domain.RoleCenterAdmin,
		}}},
		outsider: {{Membership: domain.Membership{
			UserID:         outsider,
			OrganizationID: school,
			Role:           domain.RoleTeacher,
		}}},
	}}
	scope := authz.NewScopeChecker(memberships, authz.NewTreeResolver(orgs))
	router := scopedRouter(t, scope)

	get := func(userID *domain.UserID, orgID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/organizations/"+orgID+"/", nil)
		if userID != nil {
			req = req.WithContext(WithAuth(req.Context(), *userID, domain.RoleUser))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("no auth is 401", func(t *testing.T) {
		rec := get(nil, school.String())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed org id is 400", func(t *testing.T) {
		rec := get(&admin, "not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("center admin covers descendant school", func(t *testing.T) {
		rec := get(&admin, school.String())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("center admin covers own org", func(t *testing.T) {
		rec := get(&admin, center.String())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("teacher membership does not grant scope", func(t *testing.T) {
		rec := get(&outsider, school.String())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin does not cover unrelated org", func(t *testing.T) {
		rec := get(&admin, uuid.NewString())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
