package memory

import (
	"context"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/office"
)

type OfficeRepository struct {
	s *Store
}

func (r *OfficeRepository) GetByID(ctx context.Context, id string) (office.Office, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.officeByID(id)
	if !ok {
		return office.Office{}, office.ErrOfficeNotFound
	}
	return o, nil
}

func (r *OfficeRepository) ListChildIDs(ctx context.Context, parentID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for _, o := range r.s.offices {
		if o.DeletedAt == nil && o.ParentID != nil && *o.ParentID == parentID {
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

func (r *OfficeRepository) ListByIDs(ctx context.Context, ids []string) ([]office.Office, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []office.Office{}
	for _, o := range r.s.offices {
		id := o.ID
		if o.DeletedAt == nil && inIDs(ids, &id) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OfficeRepository) List(ctx context.Context, filter office.OfficeFilter) ([]office.Office, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []office.Office
	for _, o := range r.s.offices {
		id := o.ID
		if o.DeletedAt != nil || !inIDs(filter.IDs, &id) {
			continue
		}
		if filter.Search != nil && !containsFold(o.Name, *filter.Search) {
			continue
		}
		matched = append(matched, o)
	}
	return page(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}
