package office

import (
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/pkg/geo"
)

// Office is a node in the office forest. ParentID nil marks a root.
type Office struct {
	ID        string
	Name      string
	Location  *string
	Latitude  *float64
	Longitude *float64
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Coordinates returns the office GPS point, if one is recorded.
func (o Office) Coordinates() (geo.Point, bool) {
	if o.Latitude == nil || o.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Latitude: *o.Latitude, Longitude: *o.Longitude}, true
}
