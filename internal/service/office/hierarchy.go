package office

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
)

// HierarchyResolver expands an office into the set of offices below it.
type HierarchyResolver struct {
	repo office.OfficeRepository
}

func NewHierarchyResolver(repo office.OfficeRepository) *HierarchyResolver {
	return &HierarchyResolver{repo: repo}
}

// DescendantIDs returns every office reachable downward from rootID,
// excluding rootID, in depth-first pre-order. Offices already seen are
// skipped, so a corrupted parent chain cannot loop.
func (h *HierarchyResolver) DescendantIDs(ctx context.Context, rootID string) ([]string, error) {
	visited := map[string]bool{rootID: true}
	var out []string

	stack := []string{rootID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current != rootID {
			out = append(out, current)
		}

		children, err := h.repo.ListChildIDs(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("failed to list child offices of %s: %w", current, err)
		}

		// Push in reverse so the first child is expanded first.
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			if visited[child] {
				slog.Warn("Office hierarchy cycle detected", "office_id", current, "child_id", child)
				continue
			}
			visited[child] = true
			stack = append(stack, child)
		}
	}

	return out, nil
}

// VisibleOfficeIDs is rootID followed by its descendants.
func (h *HierarchyResolver) VisibleOfficeIDs(ctx context.Context, rootID string) ([]string, error) {
	desc, err := h.DescendantIDs(ctx, rootID)
	if err != nil {
		return nil, err
	}
	return append([]string{rootID}, desc...), nil
}

// ScopeFor returns the offices an actor may see. Admins get nil (no
// restriction); actors without an office get an empty, non-nil set.
func (h *HierarchyResolver) ScopeFor(ctx context.Context, actor user.Actor) ([]string, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	if actor.OfficeID == nil || *actor.OfficeID == "" {
		return []string{}, nil
	}
	return h.VisibleOfficeIDs(ctx, *actor.OfficeID)
}

// InScope reports whether officeID is visible under scope as returned by ScopeFor.
func InScope(scope []string, officeID *string) bool {
	if scope == nil {
		return true
	}
	if officeID == nil {
		return false
	}
	for _, id := range scope {
		if id == *officeID {
			return true
		}
	}
	return false
}
