package renderer

import (
	"context"
	"log/slog"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultSamples is the anti-aliasing grid side and the adaptive subdivision limit
const DefaultSamples = 9

var (
	// ErrNotPerpendicular is returned when the forward and up vectors are not perpendicular
	ErrNotPerpendicular = errors.New("camera direction vectors must be perpendicular")
	// ErrInvalidViewPlane is returned for a view plane that is not positive in size
	ErrInvalidViewPlane = errors.New("view plane width and height must be positive")
	// ErrInvalidDistance is returned for a negative view plane distance
	ErrInvalidDistance = errors.New("view plane distance must not be negative")
	// ErrInvalidSampling is returned for a sample count below one
	ErrInvalidSampling = errors.New("sample count must be at least one")
	// ErrInvalidThreads is returned for a negative thread count
	ErrInvalidThreads = errors.New("thread count must not be negative")
)

// MissingFieldError reports a required camera field that was never set
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing rendering data: " + e.Field
}

// Strategy is how a pixel's color is sampled
type Strategy int

const (
	StrategySingle   Strategy = iota // One ray through the pixel center
	StrategyGrid                     // Mean of an n×n grid of rays
	StrategyAdaptive                 // Recursive corner subdivision
)

func (s Strategy) String() string {
	switch s {
	case StrategyGrid:
		return "grid"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return "single"
	}
}

// Camera maps pixels to rays through a view plane and renders them into a sink.
// A built Camera is read-only and may be shared by render workers.
type Camera struct {
	location      core.Vec3
	to, up, right core.Vec3
	width, height float64
	distance      float64
	sink          PixelSink
	tracer        RayTracer
	threads       int
	antiAliasing  bool
	adaptive      bool
	samples       int
	seed          uint64
	logger        *slog.Logger
}

// Builder assembles a Camera. Setters validate their values and the first
// invalid value is reported by Build.
type Builder struct {
	camera      Camera
	hasLocation bool
	hasTo       bool
	hasSize     bool
	hasDistance bool
	err         error
}

// NewBuilder returns a builder with default sampling settings
func NewBuilder() *Builder {
	return &Builder{camera: Camera{samples: DefaultSamples}}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetLocation sets the camera position
func (b *Builder) SetLocation(p core.Vec3) *Builder {
	b.camera.location = p
	b.hasLocation = true
	return b
}

// SetDirection sets the forward and up vectors, which must be perpendicular
func (b *Builder) SetDirection(to, up core.Vec3) *Builder {
	to, err := core.NewVector(to.X, to.Y, to.Z)
	if err != nil {
		return b.fail(errors.Wrap(err, "camera forward"))
	}
	up, err = core.NewVector(up.X, up.Y, up.Z)
	if err != nil {
		return b.fail(errors.Wrap(err, "camera up"))
	}
	to, up = to.Normalize(), up.Normalize()
	if !core.IsZero(to.Dot(up)) {
		return b.fail(errors.Wrapf(ErrNotPerpendicular, "to %v, up %v", to, up))
	}
	b.camera.to, b.camera.up = to, up
	b.hasTo = true
	return b
}

// SetVPSize sets the view plane width and height
func (b *Builder) SetVPSize(width, height float64) *Builder {
	if width <= 0 || height <= 0 {
		return b.fail(errors.Wrapf(ErrInvalidViewPlane, "%vx%v", width, height))
	}
	b.camera.width, b.camera.height = width, height
	b.hasSize = true
	return b
}

// SetVPDistance sets the distance from the camera to the view plane
func (b *Builder) SetVPDistance(distance float64) *Builder {
	if distance < 0 {
		return b.fail(errors.Wrapf(ErrInvalidDistance, "%v", distance))
	}
	b.camera.distance = distance
	b.hasDistance = true
	return b
}

// SetPixelSink sets where rendered pixels are written
func (b *Builder) SetPixelSink(sink PixelSink) *Builder {
	b.camera.sink = sink
	return b
}

// SetRayTracer sets the tracer used for primary rays
func (b *Builder) SetRayTracer(tracer RayTracer) *Builder {
	b.camera.tracer = tracer
	return b
}

// SetThreads sets the number of render workers; 0 renders sequentially
func (b *Builder) SetThreads(threads int) *Builder {
	if threads < 0 {
		return b.fail(errors.Wrapf(ErrInvalidThreads, "%d", threads))
	}
	b.camera.threads = threads
	return b
}

// SetAntiAliasing enables multiple rays per pixel
func (b *Builder) SetAntiAliasing(enabled bool) *Builder {
	b.camera.antiAliasing = enabled
	return b
}

// SetAdaptive selects adaptive supersampling when anti-aliasing is enabled
func (b *Builder) SetAdaptive(enabled bool) *Builder {
	b.camera.adaptive = enabled
	return b
}

// SetSamples sets the grid side for anti-aliasing and the subdivision limit
// for adaptive supersampling
func (b *Builder) SetSamples(samples int) *Builder {
	if samples < 1 {
		return b.fail(errors.Wrapf(ErrInvalidSampling, "%d", samples))
	}
	b.camera.samples = samples
	return b
}

// SetSeed sets the seed for the per-pixel random generators
func (b *Builder) SetSeed(seed uint64) *Builder {
	b.camera.seed = seed
	return b
}

// SetLogger sets the logger for render progress; nil uses slog.Default
func (b *Builder) SetLogger(logger *slog.Logger) *Builder {
	b.camera.logger = logger
	return b
}

// Build validates the configuration and returns the camera
func (b *Builder) Build() (*Camera, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch {
	case !b.hasLocation:
		return nil, &MissingFieldError{Field: "location"}
	case !b.hasTo:
		return nil, &MissingFieldError{Field: "direction"}
	case !b.hasSize:
		return nil, &MissingFieldError{Field: "width/height"}
	case !b.hasDistance:
		return nil, &MissingFieldError{Field: "distance"}
	case b.camera.sink == nil:
		return nil, &MissingFieldError{Field: "pixel sink"}
	case b.camera.tracer == nil:
		return nil, &MissingFieldError{Field: "ray tracer"}
	}

	c := b.camera
	c.right = c.to.Cross(c.up).Normalize()
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return &c, nil
}

// Right returns the derived right vector, forward × up
func (c *Camera) Right() core.Vec3 {
	return c.right
}

// Strategy returns the per-pixel sampling strategy in use
func (c *Camera) Strategy() Strategy {
	switch {
	case !c.antiAliasing:
		return StrategySingle
	case c.adaptive:
		return StrategyAdaptive
	default:
		return StrategyGrid
	}
}

// pixelCenter returns the offsets of pixel (j, i) from the view plane center
// along right and up, and the pixel size
func (c *Camera) pixelCenter(nX, nY, j, i int) (xJ, yI, rX, rY float64) {
	rX = c.width / float64(nX)
	rY = c.height / float64(nY)
	xJ = (float64(j) - float64(nX-1)/2) * rX
	yI = -(float64(i) - float64(nY-1)/2) * rY
	return xJ, yI, rX, rY
}

// rayThrough returns the ray through the view plane point offset by x along
// right and y along up from its center
func (c *Camera) rayThrough(x, y float64) core.Ray {
	p := c.location.Add(c.to.Multiply(c.distance))
	if !core.IsZero(x) {
		p = p.Add(c.right.Multiply(x))
	}
	if !core.IsZero(y) {
		p = p.Add(c.up.Multiply(y))
	}
	dir := p.Subtract(c.location)
	if dir.IsZero() {
		dir = c.to
	}
	return core.NewRay(c.location, dir)
}

// ConstructRay returns the ray through the center of pixel (j, i) of an nX×nY grid
func (c *Camera) ConstructRay(nX, nY, j, i int) core.Ray {
	xJ, yI, _, _ := c.pixelCenter(nX, nY, j, i)
	return c.rayThrough(xJ, yI)
}

// ConstructGridRays returns samples×samples rays through the centers of the
// cells of a regular grid covering pixel (j, i)
func (c *Camera) ConstructGridRays(nX, nY, j, i int) []core.Ray {
	xJ, yI, rX, rY := c.pixelCenter(nX, nY, j, i)
	n := c.samples
	cellX, cellY := rX/float64(n), rY/float64(n)
	left, top := xJ-rX/2, yI+rY/2

	rays := make([]core.Ray, 0, n*n)
	for row := 0; row < n; row++ {
		y := top - (float64(row)+0.5)*cellY
		for col := 0; col < n; col++ {
			x := left + (float64(col)+0.5)*cellX
			rays = append(rays, c.rayThrough(x, y))
		}
	}
	return rays
}

// PrintGrid overwrites every pixel on a row or column that is a multiple of
// interval with color
func (c *Camera) PrintGrid(interval int, color core.Vec3) {
	if interval <= 0 {
		return
	}
	for i := 0; i < c.sink.Rows(); i++ {
		for j := 0; j < c.sink.Columns(); j++ {
			if j%interval == 0 || i%interval == 0 {
				c.sink.WritePixel(j, i, color)
			}
		}
	}
}

// renderPixel computes the color of pixel (j, i) and the number of primary
// rays it took
func (c *Camera) renderPixel(nX, nY, j, i int) (core.Vec3, int) {
	random := core.NewRandom(c.seed, uint64(i), uint64(j))
	switch c.Strategy() {
	case StrategyGrid:
		rays := c.ConstructGridRays(nX, nY, j, i)
		return c.tracer.TraceBeam(rays, random), len(rays)
	case StrategyAdaptive:
		return c.adaptiveSample(nX, nY, j, i, random)
	default:
		return c.tracer.TraceRay(c.ConstructRay(nX, nY, j, i), random), 1
	}
}

// RenderImage renders every pixel of the sink, then flushes it. With zero
// threads pixels are rendered in row-major order on the calling goroutine.
func (c *Camera) RenderImage(ctx context.Context) (RenderStats, error) {
	nX, nY := c.sink.Columns(), c.sink.Rows()
	logger := c.logger.With("render_id", uuid.NewString())
	logger.Info("render started",
		"columns", nX, "rows", nY, "threads", c.threads, "strategy", c.Strategy().String())

	start := time.Now()
	counts := newSampleCounts(nX, nY)
	render := func(task PixelTask) error {
		color, n := c.renderPixel(nX, nY, task.Column, task.Row)
		c.sink.WritePixel(task.Column, task.Row, color)
		counts[task.Row][task.Column] = n
		return nil
	}

	if c.threads == 0 {
		for i := 0; i < nY; i++ {
			if err := ctx.Err(); err != nil {
				return RenderStats{}, errors.Wrap(err, "render cancelled")
			}
			for j := 0; j < nX; j++ {
				if err := render(PixelTask{Column: j, Row: i}); err != nil {
					return RenderStats{}, err
				}
			}
		}
	} else {
		pool := NewWorkerPool(ctx, c.threads, render)
		for i := 0; i < nY; i++ {
			for j := 0; j < nX; j++ {
				pool.Submit(PixelTask{Column: j, Row: i})
			}
		}
		if err := pool.Wait(); err != nil {
			return RenderStats{}, errors.Wrap(err, "render failed")
		}
	}

	stats := counts.stats()
	stats.Duration = time.Since(start)
	logger.Info("render finished",
		"duration", stats.Duration,
		"primary_rays", stats.TotalSamples,
		"min_samples", stats.MinSamples,
		"avg_samples", stats.AverageSamples,
		"max_samples", stats.MaxSamplesUsed)

	if err := c.sink.Flush(ctx); err != nil {
		return stats, errors.Wrap(err, "flush pixel sink")
	}
	logger.Debug("pixel sink flushed")
	return stats, nil
}
