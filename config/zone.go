package config

import (
	"fmt"

	"github.com/azvmotors/fleetcore/core/geofence"
	"github.com/azvmotors/fleetcore/core/model"
)

// ZoneConfig holds the ordered vertex list of the serviceable polygon. It is
// read once at startup; the built polygon is immutable afterwards.
type ZoneConfig struct {
	Vertices []VertexConfig `json:"vertices"`
}

type VertexConfig struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the polygon is buildable.
func (c ZoneConfig) Validate() error {
	if len(c.Vertices) < 3 {
		return fmt.Errorf("zone: at least 3 vertices required, got %d", len(c.Vertices))
	}
	return nil
}

// Polygon builds the service-zone polygon.
func (c ZoneConfig) Polygon() (geofence.Polygon, error) {
	vs := make([]model.Coordinates, 0, len(c.Vertices))
	for _, v := range c.Vertices {
		vs = append(vs, model.Coordinates{Lat: v.Lat, Lng: v.Lng})
	}
	return geofence.New(vs)
}
