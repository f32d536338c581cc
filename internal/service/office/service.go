package office

import (
	"context"
	"errors"
	"fmt"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
	"github.com/mengistu3137/jimma-zone-erp/internal/domain/user"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
)

type OfficeServiceImpl struct {
	officeRepo office.OfficeRepository
	hierarchy  *HierarchyResolver
}

func NewOfficeService(officeRepo office.OfficeRepository, hierarchy *HierarchyResolver) office.OfficeService {
	return &OfficeServiceImpl{officeRepo: officeRepo, hierarchy: hierarchy}
}

// List implements office.OfficeService.
func (s *OfficeServiceImpl) List(ctx context.Context, filter office.OfficeFilter) (office.ListOfficeResponse, error) {
	if err := filter.Validate(); err != nil {
		return office.ListOfficeResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return office.ListOfficeResponse{}, err
	}

	scope, err := s.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return office.ListOfficeResponse{}, err
	}
	filter.IDs = scope

	offices, total, err := s.officeRepo.List(ctx, filter)
	if err != nil {
		return office.ListOfficeResponse{}, fmt.Errorf("failed to list offices: %w", err)
	}

	resp := office.ListOfficeResponse{
		Meta:    pagination.NewMeta(filter.Params, total),
		Offices: make([]office.OfficeResponse, 0, len(offices)),
	}
	for _, o := range offices {
		resp.Offices = append(resp.Offices, office.ToResponse(o))
	}
	return resp, nil
}

// Hierarchy implements office.OfficeService.
func (s *OfficeServiceImpl) Hierarchy(ctx context.Context, officeID string) (office.OfficeNode, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return office.OfficeNode{}, err
	}

	scope, err := s.hierarchy.ScopeFor(ctx, actor)
	if err != nil {
		return office.OfficeNode{}, err
	}
	if !InScope(scope, &officeID) {
		return office.OfficeNode{}, office.ErrOutsideScope
	}

	root, err := s.officeRepo.GetByID(ctx, officeID)
	if err != nil {
		if errors.Is(err, office.ErrOfficeNotFound) {
			return office.OfficeNode{}, err
		}
		return office.OfficeNode{}, fmt.Errorf("failed to get office: %w", err)
	}

	ids, err := s.hierarchy.DescendantIDs(ctx, officeID)
	if err != nil {
		return office.OfficeNode{}, err
	}
	descendants, err := s.officeRepo.ListByIDs(ctx, ids)
	if err != nil {
		return office.OfficeNode{}, fmt.Errorf("failed to load offices: %w", err)
	}

	children := make(map[string][]office.Office)
	for _, o := range descendants {
		if o.ParentID != nil {
			children[*o.ParentID] = append(children[*o.ParentID], o)
		}
	}

	return buildNode(root, children, map[string]bool{}), nil
}

func buildNode(o office.Office, children map[string][]office.Office, seen map[string]bool) office.OfficeNode {
	seen[o.ID] = true
	node := office.OfficeNode{OfficeResponse: office.ToResponse(o), Children: []office.OfficeNode{}}
	for _, c := range children[o.ID] {
		if seen[c.ID] {
			continue
		}
		node.Children = append(node.Children, buildNode(c, children, seen))
	}
	return node
}
