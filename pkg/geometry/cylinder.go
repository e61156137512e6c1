package geometry

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Cylinder represents a finite tube closed by two caps
type Cylinder struct {
	Tube
	Height float64

	// Cached derived values
	top  core.Vec3 // Center of the far cap
	caps [2]*Plane // Base and top cap planes
}

// NewCylinder creates a cylinder whose base cap is centered on the axis origin
func NewCylinder(radius float64, axis core.Ray, height float64, surface Surface) (*Cylinder, error) {
	tube, err := NewTube(radius, axis, surface)
	if err != nil {
		return nil, err
	}
	if core.AlignZero(height) <= 0 {
		return nil, errors.Wrapf(ErrInvalidHeight, "cylinder height %v", height)
	}

	c := &Cylinder{Tube: *tube, Height: height}
	c.top = c.Axis.At(height)
	for i, center := range [2]core.Vec3{c.Axis.Origin, c.top} {
		// The direction is known to be non-zero here
		c.caps[i], _ = NewPlane(center, c.Axis.Direction, surface)
	}
	return c, nil
}

// Normal returns the axis direction on either cap and the tube normal elsewhere
func (c *Cylinder) Normal(point core.Vec3) core.Vec3 {
	if c.onCap(point, c.Axis.Origin) || c.onCap(point, c.top) {
		return c.Axis.Direction
	}
	return c.Tube.Normal(point)
}

func (c *Cylinder) onCap(point, center core.Vec3) bool {
	return point.DistanceSquared(center) < c.Radius*c.Radius
}

// Intersect returns hits on the lateral surface strictly between the caps and
// hits on the cap discs strictly inside the radius, nearest first
func (c *Cylinder) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	var points []GeoPoint
	for _, t := range c.lateral(ray) {
		if !inRange(t, maxDistance) {
			continue
		}
		p := ray.At(t)
		h := core.AlignZero(c.Axis.Direction.Dot(p.Subtract(c.Axis.Origin)))
		if h > 0 && core.AlignZero(h-c.Height) < 0 {
			points = append(points, GeoPoint{Geometry: c, Point: p})
		}
	}

	for i, center := range [2]core.Vec3{c.Axis.Origin, c.top} {
		t, ok := c.caps[i].distance(ray, maxDistance)
		if !ok {
			continue
		}
		p := ray.At(t)
		if c.onCap(p, center) {
			points = append(points, GeoPoint{Geometry: c, Point: p})
		}
	}

	if len(points) > 1 {
		sortByDistance(ray.Origin, points)
	}
	return points
}
