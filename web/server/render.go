package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-recursive-raytracer/pkg/config"
	"github.com/df07/go-recursive-raytracer/pkg/imagesink"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"github.com/google/uuid"
)

const defaultScene = "single-sphere"

var defaultSampling = config.DefaultSampling()

type limit struct {
	min, max float64
}

var paramLimits = map[string]limit{
	"width":         {1, 2000},
	"height":        {1, 2000},
	"samples":       {1, 32},
	"shadowSamples": {1, 1000},
	"lightRadius":   {0, 1000},
	"maxLevel":      {1, 50},
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string
	Width    int
	Height   int
	Sampling config.SamplingConfig
}

// parseRenderRequest reads the query over the defaults of the requested preset
func parseRenderRequest(values url.Values, view scene.View) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene"), Sampling: defaultSampling}
	s := &req.Sampling

	var err error
	if req.Width, err = parseIntParam(values, "width", view.Columns); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", view.Rows); err != nil {
		return nil, err
	}
	if s.Samples, err = parseIntParam(values, "samples", s.Samples); err != nil {
		return nil, err
	}
	if s.ShadowSamples, err = parseIntParam(values, "shadowSamples", s.ShadowSamples); err != nil {
		return nil, err
	}
	if s.MaxLevel, err = parseIntParam(values, "maxLevel", s.MaxLevel); err != nil {
		return nil, err
	}
	if s.LightRadius, err = parseFloatParam(values, "lightRadius", s.LightRadius); err != nil {
		return nil, err
	}
	if s.AntiAliasing, err = parseBoolParam(values, "antiAliasing", s.AntiAliasing); err != nil {
		return nil, err
	}
	if s.Adaptive, err = parseBoolParam(values, "adaptive", s.Adaptive); err != nil {
		return nil, err
	}
	if s.SoftShadows, err = parseBoolParam(values, "softShadows", s.SoftShadows); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if l := paramLimits[key]; float64(parsed) < l.min || float64(parsed) > l.max {
		return 0, fmt.Errorf("%s must be between %v and %v, got: %d", key, l.min, l.max, parsed)
	}
	return parsed, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue float64) (float64, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if l := paramLimits[key]; parsed < l.min || parsed > l.max {
		return 0, fmt.Errorf("%s must be between %v and %v, got: %v", key, l.min, l.max, parsed)
	}
	return parsed, nil
}

func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

// handleRender renders the requested preset, stores the PNG under a new key and
// returns it. The render is abandoned when the client disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	name := values.Get("scene")
	if name == "" {
		name = defaultScene
		values.Set("scene", name)
	}
	preset, err := scene.Lookup(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := parseRenderRequest(values, preset.View)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	// Rebuild with the requested light radius
	if preset, err = scene.Lookup(name, req.Sampling.LightOptions()...); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := "renders/" + uuid.NewString() + ".png"
	sink, err := imagesink.New(key, req.Width, req.Height,
		imagesink.WithBucket(s.bucket), imagesink.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := preset.View
	builder := renderer.NewBuilder().
		SetLocation(v.Location).
		SetDirection(v.To, v.Up).
		SetVPSize(v.Width, v.Height).
		SetVPDistance(v.Distance).
		SetPixelSink(sink).
		SetRayTracer(renderer.NewSimpleRayTracer(preset.Scene, req.Sampling.TracerOptions()...)).
		SetLogger(s.logger)
	camera, err := req.Sampling.Configure(builder).Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := camera.RenderImage(r.Context())
	if err != nil {
		s.logger.Error("render failed", "scene", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Render error: "+err.Error())
		return
	}

	data, err := s.bucket.ReadAll(r.Context(), key)
	if err != nil {
		s.logger.Error("read render failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Key", key)
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Write(data)
}
