package authz

import (
	"context"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/ports"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/domain"
)

// maxTreeDepth bounds the downward walk. The organization tree is
// shallow in practice; the cap only matters if stored parent links
// ever form a cycle.
const maxTreeDepth = 32

// TreeResolver answers ancestor/descendant questions over the
// organization tree.
type TreeResolver struct {
	orgs ports.OrganizationRepository
}

// NewTreeResolver creates a TreeResolver over the organization repository.
func NewTreeResolver(orgs ports.OrganizationRepository) *TreeResolver {
	return &TreeResolver{orgs: orgs}
}

// IsDescendantOrSelf reports whether candidate equals ancestor or lies
// below it in the tree. It walks the tree breadth-first, one query per
// level, with a visited set so a cyclic tree terminates instead of
// looping. An id absent from the tree is simply never found.
func (t *TreeResolver) IsDescendantOrSelf(ctx context.Context, ancestor, candidate domain.OrganizationID) (bool, error) {
	if ancestor == candidate {
		return true, nil
	}
	visited := map[domain.OrganizationID]bool{ancestor: true}
	frontier := []domain.OrganizationID{ancestor}
	for depth := 0; depth < maxTreeDepth && len(frontier) > 0; depth++ {
		children, err := t.orgs.ChildIDs(ctx, frontier)
		if err != nil {
			return false, err
		}
		frontier = frontier[:0]
		for _, id := range children {
			if id == candidate {
				return true, nil
			}
			if visited[id] {
				continue
			}
			visited[id] = true
			frontier = append(frontier, id)
		}
	}
	return false, nil
}
