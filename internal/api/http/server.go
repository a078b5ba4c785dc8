package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/process-desk/internal/web"
)

// NewApp creates the fiber application with the HTML view engine attached.
func NewApp(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               appName,
		Views:                 web.NewEngine(),
		DisableStartupMessage: true,
	})
}
