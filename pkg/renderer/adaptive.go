package renderer

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"pgregory.net/rand"
)

// AdaptiveTolerance is the largest per-channel difference, on the 0..255
// scale, for which four corner colors are treated as one flat region
const AdaptiveTolerance = 1.0

// corner addresses a sample position on the finest subdivision grid of a pixel
type corner struct {
	x, y int
}

// adaptiveSampler subdivides one pixel. Positions are kept on an integer grid
// of cells×cells so corners shared by neighbouring regions hit the cache.
type adaptiveSampler struct {
	camera  *Camera
	random  *rand.Rand
	cache   *lru.Cache // corner -> core.Vec3
	cells   int
	left    float64 // Pixel left edge offset along right
	top     float64 // Pixel top edge offset along up
	cellX   float64
	cellY   float64
	samples int
	rays    int
}

// gridCells returns the smallest power of two above samples. A region that
// spans size cells is narrower than 1/samples of the pixel exactly when
// size*samples < gridCells(samples).
func gridCells(samples int) int {
	cells := 1
	for cells <= samples {
		cells *= 2
	}
	return cells
}

// adaptiveSample returns the color of pixel (j, i) and the number of rays traced.
// The corner cache is owned by this call and shared down the recursion.
func (c *Camera) adaptiveSample(nX, nY, j, i int, random *rand.Rand) (core.Vec3, int) {
	xJ, yI, rX, rY := c.pixelCenter(nX, nY, j, i)
	cells := gridCells(c.samples)
	cache, err := lru.New((cells + 1) * (cells + 1))
	if err != nil {
		// Only returned for a non-positive size
		panic(err)
	}
	s := &adaptiveSampler{
		camera:  c,
		random:  random,
		cache:   cache,
		cells:   cells,
		left:    xJ - rX/2,
		top:     yI + rY/2,
		cellX:   rX / float64(cells),
		cellY:   rY / float64(cells),
		samples: c.samples,
	}
	color := s.sample(0, 0, cells)
	return color, s.rays
}

// trace casts a ray through grid position (x, y), counted from the top left
func (s *adaptiveSampler) trace(x, y float64) core.Vec3 {
	s.rays++
	ray := s.camera.rayThrough(s.left+x*s.cellX, s.top-y*s.cellY)
	return s.camera.tracer.TraceRay(ray, s.random)
}

func (s *adaptiveSampler) traceCorner(p corner) core.Vec3 {
	if v, ok := s.cache.Get(p); ok {
		return v.(core.Vec3)
	}
	color := s.trace(float64(p.x), float64(p.y))
	s.cache.Add(p, color)
	return color
}

// sample returns the color of the square region with top left (x, y) and side size
func (s *adaptiveSampler) sample(x, y, size int) core.Vec3 {
	if size*s.samples < s.cells {
		half := float64(size) / 2
		return s.trace(float64(x)+half, float64(y)+half)
	}

	colors := [4]core.Vec3{
		s.traceCorner(corner{x, y}),
		s.traceCorner(corner{x + size, y}),
		s.traceCorner(corner{x, y + size}),
		s.traceCorner(corner{x + size, y + size}),
	}
	flat := true
	for _, col := range colors[1:] {
		if !col.AlmostEquals(colors[0], AdaptiveTolerance) {
			flat = false
			break
		}
	}
	if flat {
		return core.Average(colors[:])
	}

	half := size / 2
	quadrants := []core.Vec3{
		s.sample(x, y, half),
		s.sample(x+half, y, half),
		s.sample(x, y+half, half),
		s.sample(x+half, y+half, half),
	}
	return core.Average(quadrants)
}
