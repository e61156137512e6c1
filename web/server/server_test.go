package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"gocloud.dev/blob/memblob"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { bucket.Close() })
	ts := httptest.NewServer(NewServer(0, bucket, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("Expected ok status, got %s", body)
	}
}

func TestHandleScenes(t *testing.T) {
	ts := newTestServer(t)
	_, body := get(t, ts, "/api/scenes")

	var scenes []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &scenes); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(scenes) != len(scene.Presets()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.Presets()), len(scenes))
	}
}

func TestHandleSceneConfig(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/scene-config?scene=mirrors")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}
	var cfg struct {
		Scene    string                        `json:"scene"`
		Defaults map[string]float64            `json:"defaults"`
		Limits   map[string]map[string]float64 `json:"limits"`
	}
	if err := json.Unmarshal(body, &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.Scene != "mirrors" || cfg.Defaults["width"] != 500 {
		t.Errorf("Expected mirrors at 500 columns, got %+v", cfg)
	}
	if cfg.Limits["width"]["max"] != 2000 {
		t.Errorf("Expected a width limit of 2000, got %v", cfg.Limits["width"])
	}

	resp, _ = get(t, ts, "/api/scene-config?scene=nonexistent")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandleRender(t *testing.T) {
	ts := newTestServer(t)
	query := url.Values{
		"scene":        {"two-spheres"},
		"width":        {"6"},
		"height":       {"4"},
		"antiAliasing": {"true"},
		"samples":      {"2"},
	}
	resp, body := get(t, ts, "/api/render?"+query.Encode())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Errorf("Expected 6x4 image, got %v", b)
	}
	if got := resp.Header.Get("X-Render-Samples"); got != "96" {
		t.Errorf("Expected 96 primary rays, got %s", got)
	}

	key := resp.Header.Get("X-Render-Key")
	if !strings.HasPrefix(key, "renders/") {
		t.Fatalf("Expected a render key, got %q", key)
	}
	resp, stored := get(t, ts, "/api/images/"+key)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if !bytes.Equal(stored, body) {
		t.Error("Expected the stored image to match the response")
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=nonexistent"},
		{"width too large", "width=5000"},
		{"width not a number", "width=wide"},
		{"bad bool", "adaptive=maybe"},
		{"zero samples", "samples=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, "/api/render?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", resp.StatusCode, body)
			}
		})
	}
}

func TestHandleImage_NotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/api/images/renders/missing.png")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}
