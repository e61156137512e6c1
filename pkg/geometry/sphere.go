package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Sphere represents a sphere shape
type Sphere struct {
	Surface
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, surface Surface) (*Sphere, error) {
	if core.AlignZero(radius) <= 0 {
		return nil, errors.Wrapf(ErrInvalidRadius, "sphere radius %v", radius)
	}
	return &Sphere{
		Surface: surface,
		Center:  center,
		Radius:  radius,
	}, nil
}

// Normal returns the outward normal from the center through point
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Intersect returns up to two points, nearest first
func (s *Sphere) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	// A ray from the center leaves through exactly one point
	if ray.Origin == s.Center {
		if !inRange(s.Radius, maxDistance) {
			return nil
		}
		return []GeoPoint{{Geometry: s, Point: ray.At(s.Radius)}}
	}

	u := s.Center.Subtract(ray.Origin)
	tm := ray.Direction.Dot(u)
	d := math.Sqrt(math.Max(0, u.LengthSquared()-tm*tm))
	if core.AlignZero(d-s.Radius) >= 0 {
		return nil
	}
	th := math.Sqrt(s.Radius*s.Radius - d*d)

	var points []GeoPoint
	for _, t := range [2]float64{tm - th, tm + th} {
		if inRange(t, maxDistance) {
			points = append(points, GeoPoint{Geometry: s, Point: ray.At(t)})
		}
	}
	return points
}
