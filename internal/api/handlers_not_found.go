package api

import (
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if isAPIPath(c) || acceptsJSON(c) {
		return apiError(c, fiber.StatusNotFound, errorMessageNotFound)
	}

	if isHTMX(c) {
		message := localizedPageTitle(currentMessages(c), "not_found.title", "Page not found")
		c.Status(fiber.StatusNotFound)
		return c.SendString(fmt.Sprintf("<div class=\"status-error\">%s</div>", template.HTMLEscapeString(message)))
	}

	unlocked := handler.gate.IsUnlocked(handler.accessFlags(c))
	primaryPath := "/unlock"
	primaryLabelKey := "not_found.action_unlock"
	if unlocked {
		primaryPath = "/"
		primaryLabelKey = "not_found.action_dashboard"
	}

	c.Status(fiber.StatusNotFound)
	return handler.render(c, "not_found", fiber.Map{
		"Title":           localizedPageTitle(currentMessages(c), "meta.title.not_found", "Lalas | Page Not Found"),
		"Unlocked":        unlocked,
		"PrimaryPath":     primaryPath,
		"PrimaryLabelKey": primaryLabelKey,
	})
}
