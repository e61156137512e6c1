package lights

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// AmbientLight is a constant fill light with no position or direction
type AmbientLight struct {
	intensity core.Vec3
}

// AmbientNone contributes nothing
var AmbientNone = AmbientLight{}

// NewAmbientLight scales the base intensity ia by the attenuation ka per channel
func NewAmbientLight(ia, ka core.Vec3) AmbientLight {
	return AmbientLight{intensity: ia.MultiplyVec(ka)}
}

// NewAmbientLightScalar scales the base intensity ia by a single attenuation ka
func NewAmbientLightScalar(ia core.Vec3, ka float64) AmbientLight {
	return AmbientLight{intensity: ia.Multiply(ka)}
}

// Intensity returns the ambient contribution everywhere in the scene
func (a AmbientLight) Intensity() core.Vec3 {
	return a.intensity
}
