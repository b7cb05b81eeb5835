package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/gt"

	"homehub/internal/standalone"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gt.NoError(t, os.MkdirAll(filepath.Join(dir, "20240320"), 0o755))
	gt.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "20240320", standalone.ContentFile),
		[]byte(`{"joke":"A <b>bold</b> joke","fact":"Water is wet"}`), 0o644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "images", "joke_20240320.png"), []byte("png-bytes"), 0o644))
	return dir
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestIndexRendersLatest(t *testing.T) {
	s := NewServer(seed(t))
	w := get(t, s, "/")
	gt.Equal(t, w.Code, http.StatusOK)
	body := w.Body.String()
	gt.S(t, body).Contains("<strong>fact:</strong> Water is wet")
	gt.S(t, body).Contains("A &lt;b&gt;bold&lt;/b&gt; joke")
	gt.S(t, body).Contains(`<img src="/images/joke_20240320.png"`)
}

func TestIndexEmpty(t *testing.T) {
	s := NewServer(t.TempDir())
	w := get(t, s, "/")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("No content available.")
}

func TestImagesServed(t *testing.T) {
	s := NewServer(seed(t))
	w := get(t, s, "/images/joke_20240320.png")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Body.String(), "png-bytes")

	gt.Equal(t, get(t, s, "/images/missing.png").Code, http.StatusNotFound)
}

func TestAPIContent(t *testing.T) {
	s := NewServer(seed(t))
	w := get(t, s, "/api/content")
	gt.Equal(t, w.Code, http.StatusOK)

	var snap standalone.Snapshot
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	gt.Equal(t, snap.Folder, "20240320")
	gt.Equal(t, snap.Content["fact"], "Water is wet")

	gt.Equal(t, get(t, NewServer(t.TempDir()), "/api/content").Code, http.StatusNotFound)
}

func TestAPIStatus(t *testing.T) {
	w := get(t, NewServer(seed(t)), "/api/status")
	gt.Equal(t, w.Code, http.StatusOK)

	var status struct {
		Status   string `json:"status"`
		Latest   string `json:"latest"`
		Items    int    `json:"items"`
		HasImage bool   `json:"has_image"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	gt.Equal(t, status.Status, "ok")
	gt.Equal(t, status.Items, 2)
	gt.True(t, status.HasImage)
}
