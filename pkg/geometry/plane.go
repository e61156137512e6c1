package geometry

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Surface
	Point  core.Vec3 // A point on the plane
	normal core.Vec3 // Unit normal
}

// NewPlane creates a new plane through point with the given normal
func NewPlane(point, normal core.Vec3, surface Surface) (*Plane, error) {
	n, err := core.NewVector(normal.X, normal.Y, normal.Z)
	if err != nil {
		return nil, errors.Wrap(err, "plane normal")
	}
	return &Plane{
		Surface: surface,
		Point:   point,
		normal:  n.Normalize(),
	}, nil
}

// NewPlaneFromPoints creates the plane through three points.
// The normal is (p2-p1)×(p3-p1), so the winding of the points decides its side.
func NewPlaneFromPoints(p1, p2, p3 core.Vec3, surface Surface) (*Plane, error) {
	n := p2.Subtract(p1).Cross(p3.Subtract(p1))
	if n.IsZero() {
		return nil, errors.Wrapf(ErrDegeneratePlane, "points %v, %v, %v", p1, p2, p3)
	}
	return &Plane{
		Surface: surface,
		Point:   p1,
		normal:  n.Normalize(),
	}, nil
}

// Normal returns the plane normal, which is the same everywhere
func (p *Plane) Normal(core.Vec3) core.Vec3 {
	return p.normal
}

// Intersect returns the single point where ray crosses the plane
func (p *Plane) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	t, ok := p.distance(ray, maxDistance)
	if !ok {
		return nil
	}
	return []GeoPoint{{Geometry: p, Point: ray.At(t)}}
}

// distance solves t = n·(p0-q0) / n·v. Rays starting on the plane or running
// parallel to it never hit.
func (p *Plane) distance(ray core.Ray, maxDistance float64) (float64, bool) {
	if ray.Origin == p.Point {
		return 0, false
	}
	numerator := core.AlignZero(p.normal.Dot(p.Point.Subtract(ray.Origin)))
	if numerator == 0 {
		return 0, false
	}
	denominator := core.AlignZero(p.normal.Dot(ray.Direction))
	if denominator == 0 {
		return 0, false
	}
	t := numerator / denominator
	if !inRange(t, maxDistance) {
		return 0, false
	}
	return t, true
}
