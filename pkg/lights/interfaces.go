package lights

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"pgregory.net/rand"
)

// Light is a source that illuminates surfaces and casts shadows
type Light interface {
	// Intensity returns the light arriving at point
	Intensity(point core.Vec3) core.Vec3

	// Direction returns the unit vector from the light toward point.
	// The second result is false when the direction is undefined, which
	// happens when point coincides with a positional light.
	Direction(point core.Vec3) (core.Vec3, bool)

	// Distance returns how far point is from the light, +Inf for lights at infinity
	Distance(point core.Vec3) float64

	// SampleDirections returns count directions from the light toward point for
	// soft shadows. The first element is always the un-jittered Direction.
	// It returns nil when the direction is undefined.
	SampleDirections(point core.Vec3, count int, random *rand.Rand) []core.Vec3
}
