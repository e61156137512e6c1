package lights

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
	"pgregory.net/rand"
)

// DirectionalLight is a light at infinity shining along a fixed direction
type DirectionalLight struct {
	intensity core.Vec3
	direction core.Vec3
}

// NewDirectionalLight creates a directional light
func NewDirectionalLight(intensity, direction core.Vec3) (*DirectionalLight, error) {
	dir, err := core.NewVector(direction.X, direction.Y, direction.Z)
	if err != nil {
		return nil, errors.Wrap(err, "directional light direction")
	}
	return &DirectionalLight{intensity: intensity, direction: dir.Normalize()}, nil
}

// Intensity is the same at every point
func (d *DirectionalLight) Intensity(core.Vec3) core.Vec3 {
	return d.intensity
}

// Direction is the same at every point
func (d *DirectionalLight) Direction(core.Vec3) (core.Vec3, bool) {
	return d.direction, true
}

// Distance is always infinite
func (d *DirectionalLight) Distance(core.Vec3) float64 {
	return math.Inf(1)
}

// SampleDirections returns the single fixed direction whatever count is
func (d *DirectionalLight) SampleDirections(core.Vec3, int, *rand.Rand) []core.Vec3 {
	return []core.Vec3{d.direction}
}
