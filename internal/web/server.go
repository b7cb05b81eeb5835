// Package web serves the standalone hub's latest content over HTTP.
package web

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"homehub/internal/standalone"
)

const indexHTML = `<!doctype html>
<title>Daily Content</title>
<h1>Daily Content</h1>
{{if .data}}
  <ul>
  {{range $key, $value := .data}}
    <li><strong>{{$key}}:</strong> {{$value}}</li>
  {{end}}
  </ul>
  {{if .image}}
    <img src="/images/{{.image}}" alt="Daily image" />
  {{end}}
{{else}}
  <p>No content available. Run "homehub hub generate" first.</p>
{{end}}
`

// Server is the hub viewer.
type Server struct {
	dataDir string
	router  *gin.Engine
}

func NewServer(dataDir string) *Server {
	router := gin.Default()
	s := &Server{dataDir: dataDir, router: router}

	router.SetHTMLTemplate(template.Must(template.New("index.html").Parse(indexHTML)))
	router.Static("/images", filepath.Join(dataDir, standalone.ImagesDir))

	router.GET("/", s.handleIndex)

	api := router.Group("/api")
	{
		api.GET("/content", s.handleAPIContent)
		api.GET("/status", s.handleAPIStatus)
	}
	return s
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	snap := standalone.LoadLatest(s.dataDir)
	var data map[string]string
	if len(snap.Content) > 0 {
		data = snap.Content
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"data":  data,
		"image": snap.Image,
	})
}

func (s *Server) handleAPIContent(c *gin.Context) {
	snap := standalone.LoadLatest(s.dataDir)
	if snap.Folder == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no content generated yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleAPIStatus(c *gin.Context) {
	snap := standalone.LoadLatest(s.dataDir)
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"latest":    snap.Folder,
		"items":     len(snap.Content),
		"has_image": snap.Image != "",
	})
}
