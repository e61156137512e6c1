package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/df07/go-recursive-raytracer/pkg/config"
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/imagesink"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"github.com/pkg/errors"
)

// outputDir is used when the config names no bucket
const outputDir = "output"

var gridColor = core.NewColor(255, 255, 0)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	scene      string
	out        string
	bucket     string
	threads    int
	grid       int
	verbose    bool
	list       bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML render config")
	fs.StringVar(&opts.scene, "scene", "", "Scene preset; overrides the config (see -list)")
	fs.StringVar(&opts.out, "out", "", "Output image name (.png, .tif or .tiff); overrides the config")
	fs.StringVar(&opts.bucket, "bucket", "", "Output bucket URL, e.g. file:///tmp/renders or mem://")
	fs.IntVar(&opts.threads, "threads", -1, "Render threads, 0 for sequential; overrides the config")
	fs.IntVar(&opts.grid, "grid", 0, "Overlay grid lines every N pixels")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&opts.list, "list", false, "List scene presets and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Recursive Raytracer")
		fmt.Fprintln(stderr, "Usage: raytracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// loadConfig reads the config file if one is given and applies flag overrides
func loadConfig(opts options) (config.RenderConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.RenderConfig{}, err
		}
	}
	if opts.scene != "" {
		cfg.Scene = opts.scene
	}
	if opts.out != "" {
		cfg.Output.Name = opts.out
	}
	if opts.bucket != "" {
		cfg.Output.Bucket = opts.bucket
	}
	if opts.threads >= 0 {
		cfg.Sampling.Threads = opts.threads
	}
	return cfg, cfg.Validate()
}

// bucketURL returns the configured bucket, or a file bucket for the local output directory
func bucketURL(cfg config.RenderConfig) (string, error) {
	if cfg.Output.Bucket != "" {
		return cfg.Output.Bucket, nil
	}
	dir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", errors.Wrap(err, "resolve output directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output directory")
	}
	return "file://" + filepath.ToSlash(dir), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.list {
		for _, info := range scene.Presets() {
			fmt.Fprintf(stdout, "  %-20s %s\n", info.ID, info.Description)
		}
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	sampling := cfg.Sampling

	preset, err := scene.Lookup(cfg.Scene, sampling.LightOptions()...)
	if err != nil {
		return err
	}
	view := cfg.Camera.Apply(preset.View)
	columns, rows := cfg.Image.Size(view)

	bucket, err := bucketURL(cfg)
	if err != nil {
		return err
	}
	sink, err := imagesink.New(cfg.Output.Name, columns, rows,
		imagesink.WithBucketURL(bucket), imagesink.WithLogger(logger))
	if err != nil {
		return err
	}

	tracer := renderer.NewSimpleRayTracer(preset.Scene, sampling.TracerOptions()...)
	builder := renderer.NewBuilder().
		SetLocation(view.Location).
		SetDirection(view.To, view.Up).
		SetVPSize(view.Width, view.Height).
		SetVPDistance(view.Distance).
		SetPixelSink(sink).
		SetRayTracer(tracer).
		SetLogger(logger)
	camera, err := sampling.Configure(builder).Build()
	if err != nil {
		return errors.Wrap(err, "build camera")
	}

	logger.Info("rendering", "scene", cfg.Scene, "output", cfg.Output.Name, "bucket", bucket)
	stats, err := camera.RenderImage(ctx)
	if err != nil {
		return err
	}
	if opts.grid > 0 {
		camera.PrintGrid(opts.grid, gridColor)
		if err := sink.Flush(ctx); err != nil {
			return errors.Wrap(err, "flush grid overlay")
		}
	}

	fmt.Fprintf(stdout, "Render completed in %v\n", stats.Duration)
	fmt.Fprintf(stdout, "Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	fmt.Fprintf(stdout, "Render saved as %s/%s\n", bucket, cfg.Output.Name)
	return nil
}
