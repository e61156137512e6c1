package core

import (
	"golang.org/x/exp/slices"
)

// Delta is how far a secondary ray origin is pushed along the surface normal
const Delta = 0.1

// Ray represents a ray with an origin and a unit direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing its direction
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewRayOffset creates a ray whose origin is moved by Delta along normal, on
// the side of the surface the direction points to. A direction tangent to the
// surface leaves the origin where it is.
func NewRayOffset(origin, direction, normal Vec3) Ray {
	nd := AlignZero(normal.Dot(direction))
	switch {
	case nd > 0:
		origin = origin.Add(normal.Multiply(Delta))
	case nd < 0:
		origin = origin.Subtract(normal.Multiply(Delta))
	}
	return NewRay(origin, direction)
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// ClosestPoint returns the point nearest to the ray origin. The second result
// is false when points is empty.
func (r Ray) ClosestPoint(points []Vec3) (Vec3, bool) {
	if len(points) == 0 {
		return Vec3{}, false
	}
	return slices.MinFunc(points, func(a, b Vec3) int {
		return CompareDistance(r.Origin, a, b)
	}), true
}

// CompareDistance orders a and b by their squared distance from origin
func CompareDistance(origin, a, b Vec3) int {
	da, db := origin.DistanceSquared(a), origin.DistanceSquared(b)
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	}
	return 0
}
