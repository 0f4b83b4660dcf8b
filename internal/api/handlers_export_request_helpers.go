package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
)

// exportView loads the rows an export covers: the active tab with its search
// and filter applied, as shown on the dashboard.
func (handler *Handler) exportView(c *fiber.Ctx) (services.ListView, bool) {
	view := handler.beneficiaries.LoadView(c.UserContext(), parseViewQuery(c))
	return view, !view.LoadFailed
}

func buildExportFilename(now time.Time, location models.Location, extension string) string {
	return fmt.Sprintf("lalas-%s-%s.%s", location, now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
