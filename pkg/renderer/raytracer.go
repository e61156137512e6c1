package renderer

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"pgregory.net/rand"
)

const (
	// DefaultMaxLevel is the default recursion depth for reflection and refraction
	DefaultMaxLevel = 10
	// DefaultMinContribution is the attenuation below which a branch is not traced
	DefaultMinContribution = 0.001
	// DefaultShadowSamples is the default number of directions per soft shadow
	DefaultShadowSamples = 100
)

// RayTracer computes the color seen along primary rays.
// Implementations must be safe for concurrent use; all randomness comes from
// the supplied generator.
type RayTracer interface {
	TraceRay(ray core.Ray, random *rand.Rand) core.Vec3
	// TraceBeam returns the mean color of rays
	TraceBeam(rays []core.Ray, random *rand.Rand) core.Vec3
}

// SimpleRayTracer is a Whitted style tracer: Phong local shading with shadow
// rays plus recursive reflection and refraction
type SimpleRayTracer struct {
	scene           *scene.Scene
	softShadows     bool
	shadowSamples   int
	maxLevel        int
	minContribution float64
}

// Option configures a SimpleRayTracer
type Option func(*SimpleRayTracer)

// WithSoftShadows averages shadow rays over a disc around each positional light
func WithSoftShadows(enabled bool) Option {
	return func(rt *SimpleRayTracer) { rt.softShadows = enabled }
}

// WithShadowSamples sets the number of shadow rays per light for soft shadows
func WithShadowSamples(n int) Option {
	return func(rt *SimpleRayTracer) { rt.shadowSamples = n }
}

// WithMaxLevel sets the recursion depth; level 1 disables reflection and refraction
func WithMaxLevel(level int) Option {
	return func(rt *SimpleRayTracer) { rt.maxLevel = level }
}

// WithMinContribution sets the attenuation threshold that ends recursion
func WithMinContribution(k float64) Option {
	return func(rt *SimpleRayTracer) { rt.minContribution = k }
}

// NewSimpleRayTracer creates a tracer for s
func NewSimpleRayTracer(s *scene.Scene, opts ...Option) *SimpleRayTracer {
	rt := &SimpleRayTracer{
		scene:           s,
		shadowSamples:   DefaultShadowSamples,
		maxLevel:        DefaultMaxLevel,
		minContribution: DefaultMinContribution,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.maxLevel < 1 {
		rt.maxLevel = 1
	}
	if rt.shadowSamples < 1 {
		rt.shadowSamples = 1
	}
	return rt
}

// TraceRay returns the background for a miss, otherwise the shaded color of
// the closest hit plus the ambient light
func (rt *SimpleRayTracer) TraceRay(ray core.Ray, random *rand.Rand) core.Vec3 {
	hit, ok := rt.closest(ray)
	if !ok {
		return rt.scene.Background
	}
	return rt.scene.Ambient.Intensity().Add(rt.calcColor(hit, ray, rt.maxLevel, core.Gray(1), random))
}

// TraceBeam averages TraceRay over rays
func (rt *SimpleRayTracer) TraceBeam(rays []core.Ray, random *rand.Rand) core.Vec3 {
	if len(rays) == 0 {
		return rt.scene.Background
	}
	var sum core.Vec3
	for _, ray := range rays {
		sum = sum.Add(rt.TraceRay(ray, random))
	}
	return sum.Divide(float64(len(rays)))
}

// closest hit uses a brute force scan of the scene's geometry
func (rt *SimpleRayTracer) closest(ray core.Ray) (geometry.GeoPoint, bool) {
	return geometry.Closest(ray, geometry.Intersections(rt.scene.Geometries, ray))
}

func (rt *SimpleRayTracer) calcColor(gp geometry.GeoPoint, ray core.Ray, level int, k core.Vec3, random *rand.Rand) core.Vec3 {
	color := rt.calcLocalEffects(gp, ray, k, random)
	if level <= 1 {
		return color
	}
	return color.Add(rt.calcGlobalEffects(gp, ray, level, k, random))
}

func (rt *SimpleRayTracer) calcLocalEffects(gp geometry.GeoPoint, ray core.Ray, k core.Vec3, random *rand.Rand) core.Vec3 {
	color := gp.Geometry.Emission()
	n := gp.Geometry.Normal(gp.Point)
	v := ray.Direction
	nv := core.AlignZero(n.Dot(v))
	if nv == 0 {
		return color
	}

	mat := gp.Geometry.Material()
	for _, light := range rt.scene.Lights {
		l, ok := light.Direction(gp.Point)
		if !ok {
			continue
		}
		nl := core.AlignZero(n.Dot(l))
		if nl*nv <= 0 {
			continue
		}
		ktr := rt.shadow(gp, light, l, n, random)
		if ktr.MultiplyVec(k).LowerThan(rt.minContribution) {
			continue
		}
		iL := light.Intensity(gp.Point).MultiplyVec(ktr)
		diffuse := mat.Kd.Multiply(math.Abs(nl))
		specular := rt.calcSpecular(mat.Ks, mat.Shininess, n, l, nl, v)
		color = color.Add(iL.MultiplyVec(diffuse.Add(specular)))
	}
	return color
}

func (rt *SimpleRayTracer) calcSpecular(ks core.Vec3, shininess int, n, l core.Vec3, nl float64, v core.Vec3) core.Vec3 {
	r := l.Subtract(n.Multiply(2 * nl))
	coefficient := math.Max(0, -core.AlignZero(v.Dot(r)))
	return ks.Multiply(math.Pow(coefficient, float64(shininess)))
}

// shadow returns the fraction of light that reaches the hit point: the
// transparency toward l, or its mean over a bundle of jittered directions
func (rt *SimpleRayTracer) shadow(gp geometry.GeoPoint, light lights.Light, l, n core.Vec3, random *rand.Rand) core.Vec3 {
	if !rt.softShadows {
		return rt.transparency(gp, light, l, n)
	}
	directions := light.SampleDirections(gp.Point, rt.shadowSamples, random)
	if len(directions) == 0 {
		return rt.transparency(gp, light, l, n)
	}
	var sum core.Vec3
	for _, dir := range directions {
		sum = sum.Add(rt.transparency(gp, light, dir, n))
	}
	return sum.Divide(float64(len(directions)))
}

// transparency multiplies the kT of every blocker between the hit point and
// the light along -l. An opaque blocker casts a full shadow.
func (rt *SimpleRayTracer) transparency(gp geometry.GeoPoint, light lights.Light, l, n core.Vec3) core.Vec3 {
	shadowRay := core.NewRayOffset(gp.Point, l.Negate(), n)
	blockers := rt.scene.Geometries.Intersect(shadowRay, light.Distance(gp.Point))

	ktr := core.Gray(1)
	for _, b := range blockers {
		mat := b.Geometry.Material()
		if mat.IsOpaque(rt.minContribution) {
			return core.Vec3{}
		}
		ktr = ktr.MultiplyVec(mat.Kt)
		if ktr.LowerThan(rt.minContribution) {
			return core.Vec3{}
		}
	}
	return ktr
}

func (rt *SimpleRayTracer) calcGlobalEffects(gp geometry.GeoPoint, ray core.Ray, level int, k core.Vec3, random *rand.Rand) core.Vec3 {
	mat := gp.Geometry.Material()
	n := gp.Geometry.Normal(gp.Point)
	v := ray.Direction

	reflected := core.NewRayOffset(gp.Point, v.Reflect(n), n)
	refracted := core.NewRayOffset(gp.Point, v, n)

	return rt.calcGlobalEffect(reflected, level, k, mat.Kr, random).
		Add(rt.calcGlobalEffect(refracted, level, k, mat.Kt, random))
}

func (rt *SimpleRayTracer) calcGlobalEffect(ray core.Ray, level int, k, kx core.Vec3, random *rand.Rand) core.Vec3 {
	kkx := k.MultiplyVec(kx)
	if kkx.LowerThan(rt.minContribution) {
		return core.Vec3{}
	}
	hit, ok := rt.closest(ray)
	if !ok {
		return rt.scene.Background.MultiplyVec(kx)
	}
	if core.IsZero(hit.Geometry.Normal(hit.Point).Dot(ray.Direction)) {
		return core.Vec3{}
	}
	return rt.calcColor(hit, ray, level-1, kkx, random).MultiplyVec(kx)
}
