package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
)

// Scene contains all the elements needed for rendering.
// It is filled in during setup and treated as read-only while rendering.
type Scene struct {
	Name       string
	Background core.Vec3            // Color returned for rays that hit nothing
	Ambient    lights.AmbientLight  // Added once to every visible surface
	Geometries *geometry.Geometries // Objects in the scene
	Lights     []lights.Light       // Lights in the scene
}

// New creates an empty scene with a black background and no ambient light
func New(name string) *Scene {
	return &Scene{
		Name:       name,
		Ambient:    lights.AmbientNone,
		Geometries: geometry.NewGeometries(),
	}
}

// AddGeometries adds shapes to the scene
func (s *Scene) AddGeometries(items ...geometry.Intersectable) {
	s.Geometries.Add(items...)
}

// AddLights adds light sources to the scene
func (s *Scene) AddLights(ls ...lights.Light) {
	s.Lights = append(s.Lights, ls...)
}
