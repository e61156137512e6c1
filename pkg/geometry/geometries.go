package geometry

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Geometries is an ordered collection of intersectables tested by linear scan
type Geometries struct {
	items []Intersectable
}

// NewGeometries creates a collection holding items
func NewGeometries(items ...Intersectable) *Geometries {
	g := &Geometries{}
	g.Add(items...)
	return g
}

// Add appends items to the collection
func (g *Geometries) Add(items ...Intersectable) {
	g.items = append(g.items, items...)
}

// Len returns the number of direct members
func (g *Geometries) Len() int {
	return len(g.items)
}

// Intersect returns the union of all member intersections in member order.
// It returns nil when no member is hit.
func (g *Geometries) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	var result []GeoPoint
	for _, item := range g.items {
		result = append(result, item.Intersect(ray, maxDistance)...)
	}
	return result
}
