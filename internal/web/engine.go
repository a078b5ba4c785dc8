// Package web renders the HTML pages served by the HTTP handlers.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/spec-kit/process-desk/internal/domain"
)

//go:embed templates/*.html templates/layouts/*.html
var templateFS embed.FS

// LayoutName is the wrapper every page is rendered into. Pages are named by
// their file name under templates/, without the extension.
const LayoutName = "layouts/main"

// NewEngine returns the fiber view engine over the embedded templates.
func NewEngine() *html.Engine {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(root), ".html")
	for name, fn := range templateFuncs() {
		engine.AddFunc(name, fn)
	}
	return engine
}

func templateFuncs() map[string]interface{} {
	return map[string]interface{}{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"optdate": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return t.Format("02/01/2006")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("02/01/2006 15:04")
		},
		"statuses": domain.ProcessStatuses,
	}
}
