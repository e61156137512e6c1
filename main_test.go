package main

import (
	"bytes"
	"context"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/config"
	"github.com/df07/go-recursive-raytracer/pkg/imagesink"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"github.com/pkg/errors"
)

func TestRun_ListPresets(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-list"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, info := range scene.Presets() {
		if !strings.Contains(stdout.String(), info.ID) {
			t.Errorf("Expected preset %q in listing, got:\n%s", info.ID, stdout.String())
		}
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-h"}, &stdout, &stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected %v, got %v", flag.ErrHelp, err)
	}
	if !strings.Contains(stderr.String(), "-scene") {
		t.Errorf("Expected usage on stderr, got:\n%s", stderr.String())
	}
}

func TestRun_RendersEveryPreset(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "render.yaml")
	cfgData := "image:\n  columns: 8\n  rows: 8\nsampling:\n  threads: 2\n"
	if err := os.WriteFile(cfgPath, []byte(cfgData), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for _, info := range scene.Presets() {
		t.Run(info.ID, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := []string{
				"-config", cfgPath,
				"-scene", info.ID,
				"-out", info.ID + ".png",
				"-bucket", "file://" + filepath.ToSlash(dir),
			}
			if err := run(context.Background(), args, &stdout, &stderr); err != nil {
				t.Fatalf("run: %v\n%s", err, stderr.String())
			}

			f, err := os.Open(filepath.Join(dir, info.ID+".png"))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
				t.Errorf("Expected 8x8 image, got %v", b)
			}
		})
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	cfg, err := loadConfig(options{scene: "mega", out: "mega.tiff", bucket: "mem://", threads: 0})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Scene != "mega" || cfg.Output.Name != "mega.tiff" || cfg.Output.Bucket != "mem://" {
		t.Errorf("Expected flag overrides, got %+v", cfg)
	}
	if cfg.Sampling.Threads != 0 {
		t.Errorf("Expected 0 threads, got %d", cfg.Sampling.Threads)
	}

	cfg, err = loadConfig(options{threads: -1})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Sampling.Threads != config.DefaultSampling().Threads {
		t.Errorf("Expected default threads, got %d", cfg.Sampling.Threads)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected error
	}{
		{"unknown scene", []string{"-scene", "nonexistent", "-bucket", "mem://"}, scene.ErrUnknownPreset},
		{"bad output", []string{"-out", "render.gif", "-bucket", "mem://"}, imagesink.ErrUnsupportedFormat},
		{"missing config", []string{"-config", "does-not-exist.yaml"}, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}
