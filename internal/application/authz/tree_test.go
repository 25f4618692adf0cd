package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

// fakeOrgRepo serves the tree resolver from an in-memory parent->children
// adjacency.
type fakeOrgRepo struct {
	children map[domain.OrganizationID][]domain.OrganizationID
}

func (f *fakeOrgRepo) Create(ctx context.Context, org *domain.Organization) error { return nil }
func (f *fakeOrgRepo) GetByID(ctx context.Context, orgID domain.OrganizationID) (*domain.Organization, error) {
	return nil, nil
}
func (f *fakeOrgRepo) ListChildren(ctx context.Context, parentID domain.OrganizationID) ([]*domain.Organization, error) {
	return nil, nil
}
func (f *fakeOrgRepo) ChildIDs(ctx context.Context, parents []domain.OrganizationID) ([]domain.OrganizationID, error) {
	var out []domain.OrganizationID
	for _, p := range parents {
		out = append(out, f.children[p]...)
	}
	return out, nil
}
func (f *fakeOrgRepo) SetStatus(ctx context.Context, orgID domain.OrganizationID, status domain.OrgStatus) error {
	return nil
}

func orgID() domain.OrganizationID { return domain.NewOrganizationID(uuid.New()) }

func TestIsDescendantOrSelf(t *testing.T) {
	a, b, c, other := orgID(), orgID(), orgID(), orgID()
	repo := &fakeOrgRepo{children: map[domain.OrganizationID][]domain.OrganizationID{
		a: {b},
		b: {c},
	}}
	tree := NewTreeResolver(repo)
	ctx := context.Background()

	got, err := tree.IsDescendantOrSelf(ctx, a, c)
	require.NoError(t, err)
	assert.True(t, got, "C is a transitive descendant of A")

	got, err = tree.IsDescendantOrSelf(ctx, c, a)
	require.NoError(t, err)
	assert.False(t, got, "containment is directional")

	got, err = tree.IsDescendantOrSelf(ctx, b, b)
	require.NoError(t, err)
	assert.True(t, got, "a node contains itself")

	got, err = tree.IsDescendantOrSelf(ctx, a, other)
	require.NoError(t, err)
	assert.False(t, got, "absent candidate is never found")
}

func TestIsDescendantOrSelfCyclicTree(t *testing.T) {
	a, b := orgID(), orgID()
	repo := &fakeOrgRepo{children: map[domain.OrganizationID][]domain.OrganizationID{
		a: {b},
		b: {a},
	}}
	tree := NewTreeResolver(repo)

	got, err := tree.IsDescendantOrSelf(context.Background(), a, orgID())
	require.NoError(t, err, "cyclic tree must terminate, not error")
	assert.False(t, got)
}
