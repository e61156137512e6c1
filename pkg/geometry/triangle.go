package geometry

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	Surface
	V1, V2, V3 core.Vec3
	plane      *Plane
}

// NewTriangle creates a triangle. Collinear or repeated vertices are rejected.
func NewTriangle(v1, v2, v3 core.Vec3, surface Surface) (*Triangle, error) {
	plane, err := NewPlaneFromPoints(v1, v2, v3, surface)
	if err != nil {
		return nil, err
	}
	return &Triangle{
		Surface: surface,
		V1:      v1,
		V2:      v2,
		V3:      v3,
		plane:   plane,
	}, nil
}

// Normal returns the normal of the triangle's plane
func (t *Triangle) Normal(point core.Vec3) core.Vec3 {
	return t.plane.Normal(point)
}

// Intersect finds where ray crosses the triangle's plane and keeps the point
// only when it lies strictly inside. Hits on an edge or vertex are rejected.
func (t *Triangle) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	dist, ok := t.plane.distance(ray, maxDistance)
	if !ok {
		return nil
	}

	v1 := t.V1.Subtract(ray.Origin)
	v2 := t.V2.Subtract(ray.Origin)
	v3 := t.V3.Subtract(ray.Origin)

	s1 := core.AlignZero(ray.Direction.Dot(v1.Cross(v2).Normalize()))
	if s1 == 0 {
		return nil
	}
	s2 := core.AlignZero(ray.Direction.Dot(v2.Cross(v3).Normalize()))
	if s2 == 0 || (s1 > 0) != (s2 > 0) {
		return nil
	}
	s3 := core.AlignZero(ray.Direction.Dot(v3.Cross(v1).Normalize()))
	if s3 == 0 || (s1 > 0) != (s3 > 0) {
		return nil
	}

	return []GeoPoint{{Geometry: t, Point: ray.At(dist)}}
}
