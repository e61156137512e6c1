package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// shadowScene is a diffuse floor at z = 0 lit straight down by a directional
// light of intensity 100, with an optional sphere blocking the light above the origin
func shadowScene(t *testing.T, blocker *material.Material) *scene.Scene {
	t.Helper()
	s := scene.New("shadow")
	floor, err := geometry.NewPlane(core.Zero, core.NewVec3(0, 0, 1),
		geometry.NewSurface(core.Zero, material.New().WithKdScalar(1)))
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	s.AddGeometries(floor)
	if blocker != nil {
		sp, err := geometry.NewSphere(core.NewVec3(0, 0, 3), 1, geometry.NewSurface(core.Zero, *blocker))
		if err != nil {
			t.Fatalf("NewSphere: %v", err)
		}
		s.AddGeometries(sp)
	}
	light, err := lights.NewDirectionalLight(core.Gray(100), core.NewVec3(0, 0, -1))
	if err != nil {
		t.Fatalf("NewDirectionalLight: %v", err)
	}
	s.AddLights(light)
	return s
}

// floorRay passes beside the blocker and hits the floor at the origin
var floorRay = core.NewRay(core.NewVec3(5, 0, 5), core.NewVec3(-1, 0, -1))

func TestTraceRay_MissReturnsBackground(t *testing.T) {
	s := scene.New("empty")
	s.Background = core.NewColor(1, 2, 3)
	s.Ambient = lights.NewAmbientLightScalar(core.Gray(255), 0.5)
	rt := NewSimpleRayTracer(s)

	got := rt.TraceRay(core.NewRay(core.Zero, core.NewVec3(0, 0, -1)), core.NewRandom(1))
	if got != s.Background {
		t.Errorf("Expected %v, got %v", s.Background, got)
	}
	if got := rt.TraceBeam(nil, core.NewRandom(1)); got != s.Background {
		t.Errorf("Expected %v for an empty beam, got %v", s.Background, got)
	}
}

func TestTraceRay_Shadows(t *testing.T) {
	half := material.New().WithKtScalar(0.5)
	opaque := material.New().WithKdScalar(1)
	tests := []struct {
		name     string
		blocker  *material.Material
		expected float64
	}{
		{"unblocked", nil, 100},
		// The shadow ray crosses the sphere twice
		{"half transparent blocker", &half, 25},
		{"opaque blocker", &opaque, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewSimpleRayTracer(shadowScene(t, tt.blocker))
			got := rt.TraceRay(floorRay, core.NewRandom(1))
			if !got.AlmostEquals(core.Gray(tt.expected), 1e-9) {
				t.Errorf("Expected %v, got %v", core.Gray(tt.expected), got)
			}
		})
	}
}

func TestTraceRay_AmbientAddedOnce(t *testing.T) {
	s := shadowScene(t, nil)
	s.Ambient = lights.NewAmbientLightScalar(core.Gray(255), 0.1)
	rt := NewSimpleRayTracer(s)

	got := rt.TraceRay(floorRay, core.NewRandom(1))
	expected := core.Gray(100 + 25.5)
	if !got.AlmostEquals(expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestTraceRay_Reflection(t *testing.T) {
	s := scene.New("mirror")
	s.Background = core.NewColor(0, 0, 100)
	mirror, err := geometry.NewPlane(core.Zero, core.NewVec3(0, 0, 1),
		geometry.NewSurface(core.Zero, material.New().WithKrScalar(1)))
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	s.AddGeometries(mirror)

	tests := []struct {
		maxLevel int
		expected core.Vec3
	}{
		{1, core.Zero},
		{2, s.Background},
		{DefaultMaxLevel, s.Background},
	}
	for _, tt := range tests {
		rt := NewSimpleRayTracer(s, WithMaxLevel(tt.maxLevel))
		got := rt.TraceRay(floorRay, core.NewRandom(1))
		if !got.AlmostEquals(tt.expected, 1e-9) {
			t.Errorf("maxLevel=%d: Expected %v, got %v", tt.maxLevel, tt.expected, got)
		}
	}
}

func TestTraceRay_OpaqueIgnoresMaxLevel(t *testing.T) {
	preset, err := scene.Lookup("single-sphere")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	ray := core.NewRay(preset.View.Location, preset.View.To)
	shallow := NewSimpleRayTracer(preset.Scene, WithMaxLevel(1)).TraceRay(ray, core.NewRandom(1))
	deep := NewSimpleRayTracer(preset.Scene, WithMaxLevel(DefaultMaxLevel)).TraceRay(ray, core.NewRandom(1))
	if shallow != deep {
		t.Errorf("Expected %v, got %v", shallow, deep)
	}
}

func TestTraceRay_SingleShadowSampleMatchesHardShadow(t *testing.T) {
	preset, err := scene.Lookup("transparent-shadow")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	v := preset.View
	hard := NewSimpleRayTracer(preset.Scene)
	soft := NewSimpleRayTracer(preset.Scene, WithSoftShadows(true), WithShadowSamples(1))
	c := mustBuild(t, NewBuilder().
		SetLocation(v.Location).
		SetDirection(v.To, v.Up).
		SetVPSize(v.Width, v.Height).
		SetVPDistance(v.Distance).
		SetPixelSink(newMemorySink(8, 8)).
		SetRayTracer(hard))

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			ray := c.ConstructRay(8, 8, j, i)
			h := hard.TraceRay(ray, core.NewRandom(1))
			s := soft.TraceRay(ray, core.NewRandom(1))
			if h != s {
				t.Errorf("pixel (%d, %d): Expected %v, got %v", j, i, h, s)
			}
		}
	}
}

func TestTraceRay_SingleSphereImage(t *testing.T) {
	preset, err := scene.Lookup("single-sphere")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	v := preset.View
	sink := newMemorySink(5, 5)
	c := mustBuild(t, NewBuilder().
		SetLocation(v.Location).
		SetDirection(v.To, v.Up).
		SetVPSize(v.Width, v.Height).
		SetVPDistance(v.Distance).
		SetPixelSink(sink).
		SetRayTracer(NewSimpleRayTracer(preset.Scene)))

	center := c.renderPixelColor(t, 5, 5, 2, 2)
	corner := c.renderPixelColor(t, 5, 5, 0, 0)
	if corner != preset.Scene.Background {
		t.Errorf("Expected corner %v, got %v", preset.Scene.Background, corner)
	}
	if center.X <= corner.X || center.Y <= corner.Y || center.Z <= corner.Z {
		t.Errorf("Expected every channel of center %v above corner %v", center, corner)
	}
	if center.X < 100 {
		t.Errorf("Expected center to include the sphere's emission, got %v", center)
	}
}

func TestTraceRay_MirrorsTerminate(t *testing.T) {
	preset, err := scene.Lookup("mirrors")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	v := preset.View
	c := mustBuild(t, NewBuilder().
		SetLocation(v.Location).
		SetDirection(v.To, v.Up).
		SetVPSize(v.Width, v.Height).
		SetVPDistance(v.Distance).
		SetPixelSink(newMemorySink(6, 6)).
		SetRayTracer(NewSimpleRayTracer(preset.Scene)))

	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			got := c.renderPixelColor(t, 6, 6, j, i)
			for _, ch := range []float64{got.X, got.Y, got.Z} {
				if math.IsNaN(ch) || math.IsInf(ch, 0) || ch < 0 {
					t.Errorf("pixel (%d, %d): Expected a finite color, got %v", j, i, got)
				}
			}
		}
	}
}

func TestTraceRay_Refraction(t *testing.T) {
	s := scene.New("glass")
	s.Background = core.NewColor(0, 0, 200)
	sp, err := geometry.NewSphere(core.Zero, 1, geometry.NewSurface(core.Zero, material.New().WithKtScalar(0.5)))
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	s.AddGeometries(sp)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	tests := []struct {
		maxLevel int
		expected core.Vec3
	}{
		{1, core.Zero},
		// Entering and leaving the sphere each attenuate by Kt
		{2, core.Zero},
		{3, core.NewColor(0, 0, 50)},
		{DefaultMaxLevel, core.NewColor(0, 0, 50)},
	}
	for _, tt := range tests {
		got := NewSimpleRayTracer(s, WithMaxLevel(tt.maxLevel)).TraceRay(ray, core.NewRandom(1))
		if !got.AlmostEquals(tt.expected, 1e-9) {
			t.Errorf("maxLevel=%d: Expected %v, got %v", tt.maxLevel, tt.expected, got)
		}
	}
}

func TestTraceRay_MirrorsSphereVisible(t *testing.T) {
	preset, err := scene.Lookup("mirrors")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	toSphere := core.NewVec3(-950, -900, -1000).Subtract(preset.View.Location)
	ray := core.NewRay(preset.View.Location, toSphere)
	rt := NewSimpleRayTracer(preset.Scene, WithMinContribution(1e-6))

	got := rt.TraceRay(ray, core.NewRandom(1))
	if got.AlmostEquals(preset.Scene.Background, 1) {
		t.Errorf("Expected the sphere to differ from background %v, got %v", preset.Scene.Background, got)
	}
}

func TestTraceRay_EnergyGrowsWithMaxLevel(t *testing.T) {
	preset, err := scene.Lookup("mirrors")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	v := preset.View
	c := mustBuild(t, NewBuilder().
		SetLocation(v.Location).
		SetDirection(v.To, v.Up).
		SetVPSize(v.Width, v.Height).
		SetVPDistance(v.Distance).
		SetPixelSink(newMemorySink(8, 8)).
		SetRayTracer(NewSimpleRayTracer(preset.Scene)))

	previous := -1.0
	for _, level := range []int{1, 2, 3, 5, 10, 20} {
		rt := NewSimpleRayTracer(preset.Scene, WithMaxLevel(level), WithMinContribution(1e-6))
		var sum float64
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				got := rt.TraceRay(c.ConstructRay(8, 8, j, i), core.NewRandom(1))
				sum += got.X + got.Y + got.Z
			}
		}
		if math.IsNaN(sum) || math.IsInf(sum, 0) {
			t.Fatalf("maxLevel=%d: Expected a finite image sum, got %v", level, sum)
		}
		if sum < previous-1e-6 {
			t.Errorf("maxLevel=%d: Expected sum of at least %v, got %v", level, previous, sum)
		}
		previous = sum
	}
}

func TestNewSimpleRayTracer_ClampsOptions(t *testing.T) {
	rt := NewSimpleRayTracer(scene.New("empty"), WithMaxLevel(-3), WithShadowSamples(0))
	if rt.maxLevel != 1 {
		t.Errorf("Expected maxLevel 1, got %d", rt.maxLevel)
	}
	if rt.shadowSamples != 1 {
		t.Errorf("Expected shadowSamples 1, got %d", rt.shadowSamples)
	}
}

func (c *Camera) renderPixelColor(t *testing.T, nX, nY, j, i int) core.Vec3 {
	t.Helper()
	color, n := c.renderPixel(nX, nY, j, i)
	if n < 1 {
		t.Fatalf("pixel (%d, %d): Expected at least one ray, got %d", j, i, n)
	}
	return color
}
