// Package views embeds the server-rendered pages.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/django/v3"
)

// Layout wraps every page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// NewEngine loads the embedded templates. reload re-reads them on every render.
func NewEngine(reload bool) *django.Engine {
	engine := django.NewPathForwardingFileSystem(http.FS(templates), "/templates", ".html")
	engine.Reload(reload)
	return engine
}
