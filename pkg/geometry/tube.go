package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Tube is an infinite cylinder around an axis ray
type Tube struct {
	Surface
	Radius float64
	Axis   core.Ray
}

// NewTube creates a tube of the given radius around axis
func NewTube(radius float64, axis core.Ray, surface Surface) (*Tube, error) {
	if core.AlignZero(radius) <= 0 {
		return nil, errors.Wrapf(ErrInvalidRadius, "tube radius %v", radius)
	}
	dir, err := core.NewVector(axis.Direction.X, axis.Direction.Y, axis.Direction.Z)
	if err != nil {
		return nil, errors.Wrap(err, "tube axis")
	}
	return &Tube{
		Surface: surface,
		Radius:  radius,
		Axis:    core.NewRay(axis.Origin, dir),
	}, nil
}

// Normal points from the projection of point onto the axis out to point.
// A point level with the axis origin takes its normal from the origin itself.
func (tb *Tube) Normal(point core.Vec3) core.Vec3 {
	t := core.AlignZero(tb.Axis.Direction.Dot(point.Subtract(tb.Axis.Origin)))
	if t == 0 {
		return point.Subtract(tb.Axis.Origin).Normalize()
	}
	return point.Subtract(tb.Axis.At(t)).Normalize()
}

// Intersect returns up to two points on the lateral surface, nearest first.
// Rays parallel to the axis or tangent to the surface do not hit.
func (tb *Tube) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	var points []GeoPoint
	for _, t := range tb.lateral(ray) {
		if inRange(t, maxDistance) {
			points = append(points, GeoPoint{Geometry: tb, Point: ray.At(t)})
		}
	}
	return points
}

// lateral solves the quadratic for the ray parameters where ray meets the
// infinite surface, smallest first
func (tb *Tube) lateral(ray core.Ray) []float64 {
	v := tb.Axis.Direction
	dq := ray.Origin.Subtract(tb.Axis.Origin)
	dPerp := ray.Direction.Subtract(v.Multiply(ray.Direction.Dot(v)))
	qPerp := dq.Subtract(v.Multiply(dq.Dot(v)))

	a := dPerp.LengthSquared()
	if core.IsZero(a) {
		return nil
	}
	b := 2 * dPerp.Dot(qPerp)
	c := qPerp.LengthSquared() - tb.Radius*tb.Radius

	discriminant := core.AlignZero(b*b - 4*a*c)
	if discriminant <= 0 {
		return nil
	}
	sqrtD := math.Sqrt(discriminant)
	return []float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)}
}
