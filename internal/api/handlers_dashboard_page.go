package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
	"github.com/terraincognita07/rationportal/internal/spreadsheet"
)

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	query := parseViewQuery(c)
	view := handler.beneficiaries.LoadView(c.UserContext(), query)
	flash := handler.popFlashCookie(c)

	return handler.render(c, "dashboard", fiber.Map{
		"Title":            localizedPageTitle(currentMessages(c), "meta.title.dashboard", "Lalas"),
		"View":             view,
		"Query":            query,
		"Tabs":             models.Locations(),
		"Filters":          services.FilterKinds(),
		"Flash":            flash,
		"ImportAccept":     strings.Join(spreadsheet.SupportedExtensions(), ","),
		"ImportRowByRow":   handler.importer.Mode() == services.ImportModeRowByRow,
		"ReturnPath":       dashboardPath(query.Location, query.Search, query.Filter),
		"HasActiveFilters": query.Search != "" || query.Filter != services.FilterAll,
	})
}

// GetLalas returns the filtered list of one tab together with stats over the
// whole tab.
func (handler *Handler) GetLalas(c *fiber.Ctx) error {
	view := handler.beneficiaries.LoadView(c.UserContext(), parseViewQuery(c))
	items := view.Items
	if items == nil {
		items = []models.Beneficiary{}
	}
	return c.JSON(fiber.Map{
		"location":    view.Query.Location,
		"filter":      view.Query.Filter,
		"items":       items,
		"stats":       view.Stats,
		"load_failed": view.LoadFailed,
	})
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	query := parseViewQuery(c)
	query.Search = ""
	query.Filter = services.FilterAll
	view := handler.beneficiaries.LoadView(c.UserContext(), query)
	if view.LoadFailed {
		return apiError(c, fiber.StatusBadGateway, errorMessageStore)
	}
	return c.JSON(view.Stats)
}
