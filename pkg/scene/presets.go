package scene

import (
	"sort"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/pkg/errors"
)

// ErrUnknownPreset is returned by Lookup for a name that is not registered
var ErrUnknownPreset = errors.New("unknown scene preset")

// View is the camera setup a preset was composed for
type View struct {
	Location core.Vec3
	To, Up   core.Vec3
	Distance float64 // View plane distance
	Width    float64 // View plane width
	Height   float64 // View plane height
	Columns  int     // Recommended image width in pixels
	Rows     int     // Recommended image height in pixels
}

// Preset is a ready-made scene and the view it is meant to be rendered from
type Preset struct {
	Scene *Scene
	View  View
}

// SceneInfo describes a registered preset
type SceneInfo struct {
	ID          string
	Description string
}

// presetFunc builds a preset; opts are applied to every positional light
// after the preset's own settings
type presetFunc func(opts ...lights.PointOption) (*Preset, error)

type presetEntry struct {
	description string
	build       presetFunc
}

var registry = map[string]presetEntry{
	"single-sphere":      {"emissive sphere lit by a point light in front of it", newSingleSphere},
	"two-spheres":        {"transparent sphere around a smaller red sphere under a spot light", newTwoSpheres},
	"mirrors":            {"nested spheres between two facing mirrors", newMirrors},
	"transparent-shadow": {"two triangles shadowed by a partially transparent sphere", newTransparentShadow},
	"mega":               {"reflective and transparent spheres over triangles with two lights", newMega},
	"pillars":            {"cylinders standing on a plane under a directional light", newPillars},
}

// Lookup builds the preset registered under name.
// opts override the settings of every point and spot light in the preset.
func Lookup(name string, opts ...lights.PointOption) (*Preset, error) {
	entry, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	p, err := entry.build(opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "build preset %q", name)
	}
	return p, nil
}

// Presets lists the registered presets sorted by ID
func Presets() []SceneInfo {
	infos := make([]SceneInfo, 0, len(registry))
	for id, entry := range registry {
		infos = append(infos, SceneInfo{ID: id, Description: entry.description})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// builder accumulates shapes and lights, keeping the first construction error
type builder struct {
	scene *Scene
	opts  []lights.PointOption
	err   error
}

func newBuilder(name string, opts []lights.PointOption) *builder {
	return &builder{scene: New(name), opts: opts}
}

func (b *builder) keep(item geometry.Intersectable, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.scene.AddGeometries(item)
}

func (b *builder) sphere(center core.Vec3, radius float64, s geometry.Surface) {
	sp, err := geometry.NewSphere(center, radius, s)
	b.keep(sp, err)
}

func (b *builder) triangle(p1, p2, p3 core.Vec3, s geometry.Surface) {
	tr, err := geometry.NewTriangle(p1, p2, p3, s)
	b.keep(tr, err)
}

func (b *builder) plane(point, normal core.Vec3, s geometry.Surface) {
	pl, err := geometry.NewPlane(point, normal, s)
	b.keep(pl, err)
}

func (b *builder) cylinder(radius float64, axis core.Ray, height float64, s geometry.Surface) {
	c, err := geometry.NewCylinder(radius, axis, height, s)
	b.keep(c, err)
}

func (b *builder) point(intensity, position core.Vec3, opts ...lights.PointOption) {
	b.scene.AddLights(lights.NewPointLight(intensity, position, append(opts, b.opts...)...))
}

func (b *builder) spot(intensity, position, direction core.Vec3, opts ...lights.PointOption) {
	if b.err != nil {
		return
	}
	sl, err := lights.NewSpotLight(intensity, position, direction, append(opts, b.opts...)...)
	if err != nil {
		b.err = err
		return
	}
	b.scene.AddLights(sl)
}

func (b *builder) directional(intensity, direction core.Vec3) {
	if b.err != nil {
		return
	}
	dl, err := lights.NewDirectionalLight(intensity, direction)
	if err != nil {
		b.err = err
		return
	}
	b.scene.AddLights(dl)
}

func (b *builder) preset(view View) (*Preset, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Preset{Scene: b.scene, View: view}, nil
}

var (
	white = core.Gray(255)
	blue  = core.NewColor(0, 0, 255)
	red   = core.NewColor(255, 0, 0)
)

// frontView looks down -z from z = distance at a square view plane
func frontView(distance, size float64, pixels int) View {
	return View{
		Location: core.NewVec3(0, 0, distance),
		To:       core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		Distance: distance,
		Width:    size,
		Height:   size,
		Columns:  pixels,
		Rows:     pixels,
	}
}

func newSingleSphere(opts ...lights.PointOption) (*Preset, error) {
	b := newBuilder("single-sphere", opts)
	b.sphere(core.NewVec3(0, 0, -50), 50, geometry.NewSurface(
		core.Gray(100),
		material.New().WithKdScalar(0.5).WithKsScalar(0.5).WithShininess(100),
	))
	b.point(core.Gray(500), core.NewVec3(0, 0, 200), lights.WithKl(0.0005), lights.WithKq(0.00005))
	return b.preset(frontView(1000, 150, 500))
}

func newTwoSpheres(opts ...lights.PointOption) (*Preset, error) {
	b := newBuilder("two-spheres", opts)
	b.sphere(core.NewVec3(0, 0, -50), 50, geometry.NewSurface(
		blue,
		material.New().WithKdScalar(0.4).WithKsScalar(0.3).WithShininess(100).WithKtScalar(0.3),
	))
	b.sphere(core.NewVec3(0, 0, -50), 25, geometry.NewSurface(
		red,
		material.New().WithKdScalar(0.5).WithKsScalar(0.5).WithShininess(100),
	))
	b.spot(core.NewColor(1000, 600, 0), core.NewVec3(-100, -100, 500), core.NewVec3(-1, -1, -2),
		lights.WithKl(0.0004), lights.WithKq(0.0000006))
	return b.preset(frontView(1000, 150, 500))
}

func newMirrors(opts ...lights.PointOption) (*Preset, error) {
	b := newBuilder("mirrors", opts)
	b.scene.Ambient = lights.NewAmbientLightScalar(white, 0.1)

	b.sphere(core.NewVec3(-950, -900, -1000), 400, geometry.NewSurface(
		core.NewColor(0, 50, 100),
		material.New().WithKdScalar(0.25).WithKsScalar(0.25).WithShininess(20).WithKt(core.NewVec3(0.5, 0, 0)),
	))
	b.sphere(core.NewVec3(-950, -900, -1000), 200, geometry.NewSurface(
		core.NewColor(100, 50, 20),
		material.New().WithKdScalar(0.25).WithKsScalar(0.25).WithShininess(20),
	))
	b.triangle(core.NewVec3(1500, -1500, -1500), core.NewVec3(-1500, 1500, -1500), core.NewVec3(670, 670, 3000),
		geometry.NewSurface(core.Gray(20), material.New().WithKrScalar(1)))
	b.triangle(core.NewVec3(1500, -1500, -1500), core.NewVec3(-1500, 1500, -1500), core.NewVec3(-1500, -1500, -2000),
		geometry.NewSurface(core.Gray(20), material.New().WithKr(core.NewVec3(0.5, 0, 0.4))))

	b.spot(core.NewColor(1020, 400, 400), core.NewVec3(-750, -750, -150), core.NewVec3(-1, -1, -4),
		lights.WithKl(0.00001), lights.WithKq(0.000005))
	return b.preset(frontView(10000, 2500, 500))
}

func newTransparentShadow(opts ...lights.PointOption) (*Preset, error) {
	b := newBuilder("transparent-shadow", opts)
	b.scene.Ambient = lights.NewAmbientLightScalar(white, 0.15)

	triangle := material.New().WithKdScalar(0.5).WithKsScalar(0.5).WithShininess(60)
	b.triangle(core.NewVec3(-150, -150, -115), core.NewVec3(150, -150, -135), core.NewVec3(75, 75, -150),
		geometry.NewSurface(core.Zero, triangle))
	b.triangle(core.NewVec3(-150, -150, -115), core.NewVec3(-70, 70, -140), core.NewVec3(75, 75, -150),
		geometry.NewSurface(core.Zero, triangle))
	b.sphere(core.NewVec3(60, 50, -50), 30, geometry.NewSurface(
		blue,
		material.New().WithKdScalar(0.2).WithKsScalar(0.2).WithShininess(30).WithKtScalar(0.6),
	))

	b.spot(core.NewColor(700, 400, 400), core.NewVec3(60, 50, 0), core.NewVec3(0, 0, -1),
		lights.WithKl(4e-5), lights.WithKq(2e-7))
	return b.preset(frontView(1000, 200, 600))
}

func newMega(opts ...lights.PointOption) (*Preset, error) {
	b := newBuilder("mega", opts)
	b.scene.Ambient = lights.NewAmbientLightScalar(white, 0.15)

	b.sphere(core.NewVec3(-40, 30, 0), 30, geometry.NewSurface(
		core.Zero,
		material.New().WithKdScalar(0.3).WithKsScalar(0.5).WithShininess(10).WithKtScalar(0.5).WithKrScalar(0.5),
	))
	b.sphere(core.NewVec3(60, 0, 0), 35, geometry.NewSurface(
		core.NewColor(252, 148, 3),
		material.New().WithKdScalar(0.6).WithKsScalar(0.2).WithShininess(3).WithKrScalar(0.4).WithKtScalar(0.2),
	))
	b.sphere(core.NewVec3(-15, -40, 10), 25, geometry.NewSurface(
		core.NewColor(252, 3, 252),
		material.New().WithKdScalar(0.3).WithKsScalar(0.7).WithShininess(5).WithKrScalar(0.7).WithKtScalar(0.2),
	))

	triangle := material.New().WithKdScalar(0.5).WithKsScalar(0.5).WithShininess(60)
	b.triangle(core.NewVec3(-150, -150, -115), core.NewVec3(150, -150, -135), core.NewVec3(75, -75, -150),
		geometry.NewSurface(core.Zero, triangle))
	b.triangle(core.NewVec3(-150, -150, -115), core.NewVec3(-70, -70, -140), core.NewVec3(75, -75, -150),
		geometry.NewSurface(core.Zero, triangle))

	b.spot(core.NewColor(700, 400, 400), core.NewVec3(60, 50, 0), core.NewVec3(0, 0, -1),
		lights.WithKl(4e-5), lights.WithKq(2e-7))
	b.point(core.NewColor(100, 200, 200), core.NewVec3(60, 50, 100),
		lights.WithKl(4e-5), lights.WithKq(2e-7))
	return b.preset(frontView(1000, 200, 600))
}

func newPillars(opts ...lights.PointOption) (*Preset, error) {
	b := newBuilder("pillars", opts)
	b.scene.Ambient = lights.NewAmbientLightScalar(white, 0.1)
	b.scene.Background = core.NewColor(20, 20, 40)

	b.plane(core.NewVec3(0, -60, 0), core.NewVec3(0, 1, 0), geometry.NewSurface(
		core.Gray(10),
		material.New().WithKdScalar(0.5).WithKsScalar(0.2).WithShininess(20).WithKrScalar(0.2),
	))
	up := core.NewVec3(0, 1, 0)
	pillar := material.New().WithKdScalar(0.6).WithKsScalar(0.4).WithShininess(50)
	b.cylinder(20, core.NewRay(core.NewVec3(-60, -60, -100), up), 110, geometry.NewSurface(core.NewColor(120, 30, 30), pillar))
	b.cylinder(15, core.NewRay(core.NewVec3(40, -60, -60), up), 80, geometry.NewSurface(core.NewColor(30, 90, 30), pillar))
	b.sphere(core.NewVec3(40, 35, -60), 15, geometry.NewSurface(
		core.NewColor(30, 30, 120),
		material.New().WithKdScalar(0.3).WithKsScalar(0.6).WithShininess(80).WithKrScalar(0.3),
	))

	b.directional(core.NewColor(200, 180, 160), core.NewVec3(1, -1, -1))
	b.point(core.NewColor(300, 300, 300), core.NewVec3(0, 100, 100), lights.WithKl(0.001), lights.WithKq(0.00001))
	return b.preset(frontView(1000, 250, 500))
}
