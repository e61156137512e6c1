package lights

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"pgregory.net/rand"
)

// DefaultRadius is the radius of the disc sampled around a positional light
// when soft shadows are enabled
const DefaultRadius = 10.0

// PointLight is an omnidirectional light at a position whose intensity falls
// off as 1/(kc + kl·d + kq·d²)
type PointLight struct {
	intensity  core.Vec3
	Position   core.Vec3
	kc, kl, kq float64
	radius     float64
}

// PointOption configures a point or spot light
type PointOption func(*PointLight)

// WithKc sets the constant attenuation factor
func WithKc(kc float64) PointOption {
	return func(p *PointLight) { p.kc = kc }
}

// WithKl sets the linear attenuation factor
func WithKl(kl float64) PointOption {
	return func(p *PointLight) { p.kl = kl }
}

// WithKq sets the quadratic attenuation factor
func WithKq(kq float64) PointOption {
	return func(p *PointLight) { p.kq = kq }
}

// WithRadius sets the soft shadow sampling radius
func WithRadius(radius float64) PointOption {
	return func(p *PointLight) { p.radius = radius }
}

// NewPointLight creates a point light with no distance attenuation by default
func NewPointLight(intensity, position core.Vec3, opts ...PointOption) *PointLight {
	p := &PointLight{
		intensity: intensity,
		Position:  position,
		kc:        1,
		radius:    DefaultRadius,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Radius returns the soft shadow sampling radius
func (p *PointLight) Radius() float64 {
	return p.radius
}

// Intensity returns the attenuated intensity at point
func (p *PointLight) Intensity(point core.Vec3) core.Vec3 {
	d := p.Distance(point)
	return p.intensity.Divide(p.kc + p.kl*d + p.kq*d*d)
}

// Direction returns the unit vector from the light to point
func (p *PointLight) Direction(point core.Vec3) (core.Vec3, bool) {
	l := point.Subtract(p.Position)
	if l.IsZero() {
		return core.Vec3{}, false
	}
	return l.Normalize(), true
}

// Distance returns the distance from the light to point
func (p *PointLight) Distance(point core.Vec3) float64 {
	return point.Distance(p.Position)
}

// SampleDirections jitters the light position over a disc of the light's
// radius facing point and returns the directions from each jittered position
func (p *PointLight) SampleDirections(point core.Vec3, count int, random *rand.Rand) []core.Vec3 {
	l0, ok := p.Direction(point)
	if !ok {
		return nil
	}
	if count <= 1 || core.IsZero(p.radius) {
		return []core.Vec3{l0}
	}

	u := l0.Orthogonal()
	v := l0.Cross(u)

	directions := make([]core.Vec3, 1, count)
	directions[0] = l0
	for i := 1; i < count; i++ {
		q := core.SampleDiscAround(p.Position, u, v, p.radius, random)
		l := point.Subtract(q)
		if l.IsZero() {
			directions = append(directions, l0)
			continue
		}
		directions = append(directions, l.Normalize())
	}
	return directions
}
