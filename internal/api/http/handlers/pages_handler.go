package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/process-desk/internal/session"
	"github.com/spec-kit/process-desk/internal/web"
)

// PageRenderer draws the content of one menu page.
type PageRenderer func(c *fiber.Ctx, sess *session.Session) error

// PagesHandler maps menu selections to their renderers.
type PagesHandler struct {
	renderers map[string]PageRenderer
}

// NewPagesHandler registers a title-only renderer for every menu page.
// Pages with real content replace theirs through Register.
func NewPagesHandler() *PagesHandler {
	h := &PagesHandler{renderers: make(map[string]PageRenderer)}
	for _, item := range web.Menu("") {
		h.renderers[item.Key] = titleOnly(item.Key, item.Label)
	}
	return h
}

// Register sets the renderer for key.
func (h *PagesHandler) Register(key string, renderer PageRenderer) {
	h.renderers[key] = renderer
}

// Home handles GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	return redirect(c, "/"+web.PageDashboard)
}

// Show handles GET /:page.
func (h *PagesHandler) Show(c *fiber.Ctx) error {
	sess := session.FromContext(c)
	renderer, ok := h.renderers[c.Params("page")]
	if !ok {
		return render(c, fiber.StatusNotFound, "error", web.ErrorView{
			Title:   msgPageNotFound,
			Shell:   shellFor(sess, ""),
			Status:  fiber.StatusNotFound,
			Message: msgPageNotFound,
		})
	}
	return renderer(c, sess)
}

func titleOnly(key, label string) PageRenderer {
	return func(c *fiber.Ctx, sess *session.Session) error {
		return render(c, fiber.StatusOK, "page", web.PageView{Title: label, Shell: shellFor(sess, key)})
	}
}
