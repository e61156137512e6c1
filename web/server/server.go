package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Server renders preset scenes over HTTP and keeps every result in a bucket
type Server struct {
	port   int
	bucket *blob.Bucket
	logger *slog.Logger
}

// NewServer creates a new web server storing renders in bucket
func NewServer(port int, bucket *blob.Bucket, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{port: port, bucket: bucket, logger: logger}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("GET /api/render", s.handleRender)
	mux.HandleFunc("GET /api/images/{key...}", s.handleImage)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", "addr", "http://localhost"+addr)
	return http.ListenAndServe(addr, s.Handler())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	type sceneJSON struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}
	var scenes []sceneJSON
	for _, info := range scene.Presets() {
		scenes = append(scenes, sceneJSON{ID: info.ID, Description: info.Description})
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the view of a preset and the accepted parameter ranges
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scene")
	if name == "" {
		name = defaultScene
	}
	preset, err := scene.Lookup(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := preset.View
	limits := make(map[string]map[string]float64, len(paramLimits))
	for key, l := range paramLimits {
		limits[key] = map[string]float64{"min": l.min, "max": l.max}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scene": name,
		"defaults": map[string]any{
			"width":         v.Columns,
			"height":        v.Rows,
			"samples":       defaultSampling.Samples,
			"shadowSamples": defaultSampling.ShadowSamples,
			"lightRadius":   defaultSampling.LightRadius,
			"maxLevel":      defaultSampling.MaxLevel,
		},
		"limits": limits,
	})
}

// handleImage serves a stored render
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	data, err := s.bucket.ReadAll(r.Context(), key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			writeError(w, http.StatusNotFound, "no such image: "+key)
			return
		}
		s.logger.Error("read image", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}
