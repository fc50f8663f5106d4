package handlers

import "github.com/gofiber/fiber/v2"

// RootHandler answers the service banner on GET /.
type RootHandler struct {
	version string
}

// NewRootHandler returns a new handler instance.
func NewRootHandler(version string) *RootHandler {
	return &RootHandler{version: version}
}

// Index reports that the API is up.
func (h *RootHandler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":       "Task API is running",
		"documentation": "/api/docs",
		"version":       h.version,
	})
}
