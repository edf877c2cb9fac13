// file: internal/server/static.go
// version: 1.1.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed assets
var assetsFS embed.FS

// setupTemplates parses the embedded page templates into the router.
func (s *Server) setupTemplates() {
	tmpl := template.Must(template.ParseFS(assetsFS, "assets/templates/*.tmpl"))
	s.router.SetHTMLTemplate(tmpl)
}

// setupStaticFiles serves the embedded client script and stylesheet.
func (s *Server) setupStaticFiles() {
	static, err := fs.Sub(assetsFS, "assets/static")
	if err != nil {
		// The subtree is embedded at compile time, so this cannot fail at
		// runtime with a well-formed build.
		panic(err)
	}
	s.router.StaticFS("/assets", http.FS(static))

	s.router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
