package core

import (
	"math"

	"pgregory.net/rand"
)

// NewRandom creates a random generator seeded from the given values.
// Render workers seed one generator per pixel so output does not depend on
// the order in which pixels are scheduled.
func NewRandom(seeds ...uint64) *rand.Rand {
	return rand.New(seeds...)
}

// SampleDisc maps two uniform samples in [0, 1) to a point in a disc of the
// given radius using polar coordinates. The radial offset is radius·sqrt(u2)
// so that points are spread evenly over the disc area.
func SampleDisc(radius, u1, u2 float64) (x, y float64) {
	theta := 2 * math.Pi * u1
	r := radius * math.Sqrt(u2)
	return r * math.Cos(theta), r * math.Sin(theta)
}

// SampleDiscAround returns a random point in the disc of the given radius
// centered at center and spanned by the unit vectors u and v
func SampleDiscAround(center, u, v Vec3, radius float64, random *rand.Rand) Vec3 {
	x, y := SampleDisc(radius, random.Float64(), random.Float64())
	return center.Add(u.Multiply(x)).Add(v.Multiply(y))
}
