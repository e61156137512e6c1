package lights

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// SpotLight is a point light whose intensity falls off with the cosine of the
// angle from its beam direction, reaching zero at 90 degrees
type SpotLight struct {
	PointLight
	beam core.Vec3
}

// NewSpotLight creates a spot light aimed along direction
func NewSpotLight(intensity, position, direction core.Vec3, opts ...PointOption) (*SpotLight, error) {
	beam, err := core.NewVector(direction.X, direction.Y, direction.Z)
	if err != nil {
		return nil, errors.Wrap(err, "spot light direction")
	}
	return &SpotLight{
		PointLight: *NewPointLight(intensity, position, opts...),
		beam:       beam.Normalize(),
	}, nil
}

// Beam returns the unit beam direction
func (s *SpotLight) Beam() core.Vec3 {
	return s.beam
}

// Intensity returns the attenuated point light intensity scaled by the beam
// cosine. Points where the direction is undefined receive nothing.
func (s *SpotLight) Intensity(point core.Vec3) core.Vec3 {
	l, ok := s.Direction(point)
	if !ok {
		return core.Vec3{}
	}
	return s.PointLight.Intensity(point).Multiply(math.Max(0, s.beam.Dot(l)))
}
