package entity

import "github.com/google/uuid"

// PropertyLocation is the declared position of a property. Either coordinate may be unset.
type PropertyLocation struct {
	PropertyID uuid.UUID `json:"property_id"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
}

func (l *PropertyLocation) Coordinates() (lat, lng float64, ok bool) {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return 0, 0, false
	}

	return *l.Lat, *l.Lng, true
}
