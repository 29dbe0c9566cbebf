package geofence

import (
	"fmt"

	"github.com/azvmotors/fleetcore/core/model"
)

// Polygon is the service-zone boundary: an ordered, closed sequence of
// vertices. The closing edge from the last vertex back to the first is
// implicit, so the first vertex must not be duplicated. The polygon is
// assumed simple (non-self-intersecting), is loaded once at startup and is
// immutable afterwards, which makes it safe for unsynchronized concurrent
// reads.
type Polygon struct {
	vertices []model.Coordinates
}

// New validates the vertex list and builds a Polygon. At least three
// vertices are required.
func New(vertices []model.Coordinates) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, fmt.Errorf("geofence: polygon needs at least 3 vertices, got %d", len(vertices))
	}
	vs := make([]model.Coordinates, len(vertices))
	copy(vs, vertices)
	return Polygon{vertices: vs}, nil
}

// Vertices returns a copy of the polygon boundary.
func (p Polygon) Vertices() []model.Coordinates {
	vs := make([]model.Coordinates, len(p.vertices))
	copy(vs, p.vertices)
	return vs
}

// Contains applies the even-odd ray casting rule: a horizontal ray is cast
// from the point toward +infinity longitude and the inside flag toggles on
// every edge crossing. The verdict does not depend on the winding direction
// of the polygon. A point exactly on a vertex or edge gets whatever the
// even-odd formula yields; the behavior is consistent but deliberately not
// special-cased.
func (p Polygon) Contains(lat, lng float64) bool {
	inside := false
	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p.vertices[i], p.vertices[j]
		if (vi.Lat > lat) != (vj.Lat > lat) &&
			lng < (vj.Lng-vi.Lng)*(lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lng {
			inside = !inside
		}
	}
	return inside
}

// ContainsPoint is a convenience wrapper over Contains.
func (p Polygon) ContainsPoint(c model.Coordinates) bool {
	return p.Contains(c.Lat, c.Lng)
}
