// Package config loads render settings from YAML.
package config

import (
	"bytes"
	"io"
	"os"
	"runtime"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid render config")

// Vector is a YAML three element sequence, e.g. [0, 0, 1000]
type Vector [3]float64

// Vec3 converts v to a core vector
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// RenderConfig is the complete configuration of one render
type RenderConfig struct {
	Scene    string         `yaml:"scene"`
	Output   OutputConfig   `yaml:"output"`
	Image    ImageConfig    `yaml:"image"`
	Camera   CameraConfig   `yaml:"camera"`
	Sampling SamplingConfig `yaml:"sampling"`
}

// OutputConfig names where the image is stored
type OutputConfig struct {
	Name   string `yaml:"name"`   // Blob key; the extension selects PNG or TIFF
	Bucket string `yaml:"bucket"` // gocloud bucket URL; empty writes to the local output directory
}

// ImageConfig sets the image size. Zero keeps the preset's recommendation.
type ImageConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// CameraConfig overrides parts of the preset's view. Unset fields keep the preset value.
type CameraConfig struct {
	Location *Vector  `yaml:"location,omitempty"`
	To       *Vector  `yaml:"to,omitempty"`
	Up       *Vector  `yaml:"up,omitempty"`
	Distance *float64 `yaml:"distance,omitempty"`
	Width    *float64 `yaml:"width,omitempty"`
	Height   *float64 `yaml:"height,omitempty"`
}

// SamplingConfig contains tracing and per-pixel sampling settings
type SamplingConfig struct {
	Threads         int     `yaml:"threads"` // 0 renders sequentially
	AntiAliasing    bool    `yaml:"antiAliasing"`
	Adaptive        bool    `yaml:"adaptive"`
	Samples         int     `yaml:"samples"`
	SoftShadows     bool    `yaml:"softShadows"`
	ShadowSamples   int     `yaml:"shadowSamples"`
	LightRadius     float64 `yaml:"lightRadius"`
	Seed            uint64  `yaml:"seed"`
	MaxLevel        int     `yaml:"maxLevel"`
	MinContribution float64 `yaml:"minContribution"`
}

// Default returns sensible default values
func Default() RenderConfig {
	return RenderConfig{
		Scene:    "single-sphere",
		Output:   OutputConfig{Name: "render.png"},
		Sampling: DefaultSampling(),
	}
}

// DefaultSampling returns the default sampling settings
func DefaultSampling() SamplingConfig {
	return SamplingConfig{
		Threads:         runtime.NumCPU(),
		Samples:         renderer.DefaultSamples,
		ShadowSamples:   renderer.DefaultShadowSamples,
		LightRadius:     lights.DefaultRadius,
		Seed:            1,
		MaxLevel:        renderer.DefaultMaxLevel,
		MinContribution: renderer.DefaultMinContribution,
	}
}

// Load reads the file at path over the defaults and validates the result
func Load(path string) (RenderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RenderConfig{}, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return RenderConfig{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (RenderConfig, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return RenderConfig{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return cfg, nil
}

func invalid(field string, value any) error {
	return errors.Wrapf(ErrInvalidConfig, "%s: %v", field, value)
}

// Validate reports the first setting that cannot be rendered
func (c RenderConfig) Validate() error {
	switch {
	case c.Scene == "":
		return invalid("scene", `""`)
	case c.Output.Name == "":
		return invalid("output.name", `""`)
	case c.Image.Columns < 0:
		return invalid("image.columns", c.Image.Columns)
	case c.Image.Rows < 0:
		return invalid("image.rows", c.Image.Rows)
	}
	if err := c.Camera.validate(); err != nil {
		return err
	}
	return c.Sampling.validate()
}

func (c CameraConfig) validate() error {
	switch {
	case c.Distance != nil && *c.Distance < 0:
		return invalid("camera.distance", *c.Distance)
	case c.Width != nil && *c.Width <= 0:
		return invalid("camera.width", *c.Width)
	case c.Height != nil && *c.Height <= 0:
		return invalid("camera.height", *c.Height)
	case c.To != nil && c.To.Vec3().IsZero():
		return invalid("camera.to", *c.To)
	case c.Up != nil && c.Up.Vec3().IsZero():
		return invalid("camera.up", *c.Up)
	}
	return nil
}

func (s SamplingConfig) validate() error {
	switch {
	case s.Threads < 0:
		return invalid("sampling.threads", s.Threads)
	case s.Samples < 1:
		return invalid("sampling.samples", s.Samples)
	case s.ShadowSamples < 1:
		return invalid("sampling.shadowSamples", s.ShadowSamples)
	case s.LightRadius < 0:
		return invalid("sampling.lightRadius", s.LightRadius)
	case s.MaxLevel < 1:
		return invalid("sampling.maxLevel", s.MaxLevel)
	case s.MinContribution <= 0 || s.MinContribution >= 1:
		return invalid("sampling.minContribution", s.MinContribution)
	}
	return nil
}

// Apply returns v with the configured overrides
func (c CameraConfig) Apply(v scene.View) scene.View {
	if c.Location != nil {
		v.Location = c.Location.Vec3()
	}
	if c.To != nil {
		v.To = c.To.Vec3()
	}
	if c.Up != nil {
		v.Up = c.Up.Vec3()
	}
	if c.Distance != nil {
		v.Distance = *c.Distance
	}
	if c.Width != nil {
		v.Width = *c.Width
	}
	if c.Height != nil {
		v.Height = *c.Height
	}
	return v
}

// Size returns the configured image size, falling back to the view's
func (c ImageConfig) Size(v scene.View) (columns, rows int) {
	columns, rows = c.Columns, c.Rows
	if columns == 0 {
		columns = v.Columns
	}
	if rows == 0 {
		rows = v.Rows
	}
	return columns, rows
}

// TracerOptions maps the settings to ray tracer options
func (s SamplingConfig) TracerOptions() []renderer.Option {
	return []renderer.Option{
		renderer.WithSoftShadows(s.SoftShadows),
		renderer.WithShadowSamples(s.ShadowSamples),
		renderer.WithMaxLevel(s.MaxLevel),
		renderer.WithMinContribution(s.MinContribution),
	}
}

// LightOptions maps the settings to options applied to every positional light
func (s SamplingConfig) LightOptions() []lights.PointOption {
	return []lights.PointOption{lights.WithRadius(s.LightRadius)}
}

// Configure applies the sampling settings to a camera builder
func (s SamplingConfig) Configure(b *renderer.Builder) *renderer.Builder {
	return b.SetThreads(s.Threads).
		SetAntiAliasing(s.AntiAliasing).
		SetAdaptive(s.Adaptive).
		SetSamples(s.Samples).
		SetSeed(s.Seed)
}
