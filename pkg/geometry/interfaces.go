package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	// ErrInvalidRadius is returned for a radius that is not positive
	ErrInvalidRadius = errors.New("radius must be positive")
	// ErrInvalidHeight is returned for a cylinder height that is not positive
	ErrInvalidHeight = errors.New("height must be positive")
	// ErrDegeneratePlane is returned when three points do not span a plane
	ErrDegeneratePlane = errors.New("points do not define a plane")
)

// Intersectable is anything a ray can be tested against
type Intersectable interface {
	// Intersect returns the points where ray meets the object no farther than
	// maxDistance from the ray origin. It returns nil when there are none.
	Intersect(ray core.Ray, maxDistance float64) []GeoPoint
}

// Geometry is a shape with a surface that can be shaded
type Geometry interface {
	Intersectable
	// Normal returns the unit normal at a point on the surface
	Normal(point core.Vec3) core.Vec3
	Emission() core.Vec3
	Material() material.Material
}

// GeoPoint is an intersection point together with the shape it lies on
type GeoPoint struct {
	Geometry Geometry
	Point    core.Vec3
}

// Intersections returns every intersection of ray with i regardless of distance
func Intersections(i Intersectable, ray core.Ray) []GeoPoint {
	return i.Intersect(ray, math.Inf(1))
}

// Closest returns the point nearest to the ray origin
func Closest(ray core.Ray, points []GeoPoint) (GeoPoint, bool) {
	if len(points) == 0 {
		return GeoPoint{}, false
	}
	return slices.MinFunc(points, func(a, b GeoPoint) int {
		return core.CompareDistance(ray.Origin, a.Point, b.Point)
	}), true
}

// sortByDistance orders points nearest-first from origin
func sortByDistance(origin core.Vec3, points []GeoPoint) {
	slices.SortFunc(points, func(a, b GeoPoint) int {
		return core.CompareDistance(origin, a.Point, b.Point)
	})
}

// Surface holds the shading attributes shared by every shape.
// The zero value is a black, non-emissive surface with the zero material.
type Surface struct {
	emission core.Vec3
	material material.Material
}

// NewSurface creates a surface with the given emission and material
func NewSurface(emission core.Vec3, mat material.Material) Surface {
	return Surface{emission: emission, material: mat}
}

// Emission returns the color the surface emits
func (s Surface) Emission() core.Vec3 {
	return s.emission
}

// Material returns the Phong coefficients of the surface
func (s Surface) Material() material.Material {
	return s.material
}

// inRange reports whether t lies strictly in front of the ray origin and no
// farther than maxDistance
func inRange(t, maxDistance float64) bool {
	return core.AlignZero(t) > 0 && core.AlignZero(t-maxDistance) <= 0
}
