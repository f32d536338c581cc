package office

import "context"

type OfficeService interface {
	// List returns offices visible to the caller.
	List(ctx context.Context, filter OfficeFilter) (ListOfficeResponse, error)

	// Hierarchy returns the nested tree rooted at officeID.
	Hierarchy(ctx context.Context, officeID string) (OfficeNode, error)
}
