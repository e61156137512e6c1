package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
)

func TestNewPlane_ZeroNormal(t *testing.T) {
	if _, err := NewPlane(core.Zero, core.Zero, Surface{}); !errors.Is(err, core.ErrZeroVector) {
		t.Errorf("Expected ErrZeroVector, got %v", err)
	}
}

func TestNewPlaneFromPoints(t *testing.T) {
	p, err := NewPlaneFromPoints(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1), Surface{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := core.NewVec3(1, 1, 1).Normalize()
	if n := p.Normal(core.Zero); !approxEqualVec(n, expected) {
		t.Errorf("Expected normal %v, got %v", expected, n)
	}

	degenerate := []struct {
		name       string
		p1, p2, p3 core.Vec3
	}{
		{"collinear", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2)},
		{"repeated", core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 3), core.NewVec3(0, 0, 1)},
	}
	for _, tt := range degenerate {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPlaneFromPoints(tt.p1, tt.p2, tt.p3, Surface{}); !errors.Is(err, ErrDegeneratePlane) {
				t.Errorf("Expected ErrDegeneratePlane, got %v", err)
			}
		})
	}
}

func TestPlane_Intersect(t *testing.T) {
	plane, err := NewPlane(core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 1), Surface{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		ray      core.Ray
		expected []core.Vec3
	}{
		{
			name:     "ray crosses plane",
			ray:      core.NewRay(core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0)),
			expected: []core.Vec3{core.NewVec3(1, 0, 0)},
		},
		{
			name:     "oblique ray",
			ray:      core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)),
			expected: []core.Vec3{core.NewVec3(1.0/3, 1.0/3, 1.0/3)},
		},
		{
			name: "ray pointing away",
			ray:  core.NewRay(core.NewVec3(-1, 0, 0), core.NewVec3(-1, 0, 0)),
		},
		{
			name: "ray parallel to plane",
			ray:  core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(1, -1, 0)),
		},
		{
			name: "ray parallel inside plane",
			ray:  core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(1, -1, 0)),
		},
		{
			name: "ray starts on plane",
			ray:  core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		},
		{
			name: "ray starts at plane reference point",
			ray:  core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersections(plane, tt.ray)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d points, got %d: %v", len(tt.expected), len(got), got)
			}
			for i, p := range got {
				if !approxEqualVec(p.Point, tt.expected[i]) {
					t.Errorf("Expected %v, got %v", tt.expected[i], p.Point)
				}
			}
		})
	}
}

func TestPlane_Intersect_MaxDistance(t *testing.T) {
	plane, err := NewPlane(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1), Surface{})
	if err != nil {
		t.Fatal(err)
	}
	ray := core.NewRay(core.Zero, core.NewVec3(0, 0, -1))
	if got := plane.Intersect(ray, 1.5); got != nil {
		t.Errorf("Expected no points beyond max distance, got %v", got)
	}
	if got := plane.Intersect(ray, 2); len(got) != 1 {
		t.Errorf("Expected a point at exactly max distance, got %v", got)
	}
	if got := plane.Intersect(ray, math.Inf(1)); len(got) != 1 {
		t.Errorf("Expected one point, got %v", got)
	}
}
