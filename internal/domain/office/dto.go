package office

import (
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/pagination"
	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/validator"
)

type OfficeFilter struct {
	Search *string `json:"search,omitempty"`

	// IDs restricts results to the caller's visible offices. Nil means unrestricted.
	IDs []string `json:"-"`

	pagination.Params
}

func (f *OfficeFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	return errs.Err()
}

type OfficeResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  *string  `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ParentID  *string  `json:"parent_id,omitempty"`
}

type ListOfficeResponse struct {
	pagination.Meta
	Offices []OfficeResponse `json:"offices"`
}

// OfficeNode is an office with its nested children.
type OfficeNode struct {
	OfficeResponse
	Children []OfficeNode `json:"children"`
}

func ToResponse(o Office) OfficeResponse {
	return OfficeResponse{
		ID:        o.ID,
		Name:      o.Name,
		Location:  o.Location,
		Latitude:  o.Latitude,
		Longitude: o.Longitude,
		ParentID:  o.ParentID,
	}
}
