package material

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Material holds the Phong coefficients of a surface.
// The zero value is a matte black surface that neither reflects nor transmits.
type Material struct {
	Kd        core.Vec3 // Diffuse attenuation
	Ks        core.Vec3 // Specular attenuation
	Kt        core.Vec3 // Transparency (refraction) attenuation
	Kr        core.Vec3 // Reflection attenuation
	Shininess int
}

// New returns the zero material
func New() Material {
	return Material{}
}

// WithKd returns a copy with the diffuse coefficient set
func (m Material) WithKd(kd core.Vec3) Material {
	m.Kd = kd
	return m
}

// WithKdScalar sets the same diffuse coefficient on every channel
func (m Material) WithKdScalar(kd float64) Material {
	return m.WithKd(core.Gray(kd))
}

// WithKs returns a copy with the specular coefficient set
func (m Material) WithKs(ks core.Vec3) Material {
	m.Ks = ks
	return m
}

// WithKsScalar sets the same specular coefficient on every channel
func (m Material) WithKsScalar(ks float64) Material {
	return m.WithKs(core.Gray(ks))
}

// WithKt returns a copy with the transparency coefficient set
func (m Material) WithKt(kt core.Vec3) Material {
	m.Kt = kt
	return m
}

// WithKtScalar sets the same transparency coefficient on every channel
func (m Material) WithKtScalar(kt float64) Material {
	return m.WithKt(core.Gray(kt))
}

// WithKr returns a copy with the reflection coefficient set
func (m Material) WithKr(kr core.Vec3) Material {
	m.Kr = kr
	return m
}

// WithKrScalar sets the same reflection coefficient on every channel
func (m Material) WithKrScalar(kr float64) Material {
	return m.WithKr(core.Gray(kr))
}

// WithShininess returns a copy with the specular exponent set
func (m Material) WithShininess(shininess int) Material {
	m.Shininess = shininess
	return m
}

// IsOpaque reports whether light passing through the surface is attenuated
// below threshold in every channel
func (m Material) IsOpaque(threshold float64) bool {
	return m.Kt.LowerThan(threshold)
}
