package office

import "context"

type OfficeRepository interface {
	GetByID(ctx context.Context, id string) (Office, error)

	// ListChildIDs returns ids of non-deleted offices whose parent is parentID.
	ListChildIDs(ctx context.Context, parentID string) ([]string, error)

	// ListByIDs returns non-deleted offices, keyed lookups used for tree assembly.
	ListByIDs(ctx context.Context, ids []string) ([]Office, error)

	List(ctx context.Context, filter OfficeFilter) ([]Office, int64, error)
}
