package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
)

// lalaInput accepts both the HTML form (tab, zakaat_eligible as "", "true"
// or "false") and the JSON API (location, zakaat_eligible as true, false or
// null).
type lalaInput struct {
	Location       string          `json:"location" form:"tab"`
	CNIC           string          `json:"cnic" form:"cnic"`
	Name           string          `json:"name" form:"name"`
	Phone          string          `json:"phone" form:"phone"`
	Designation    string          `json:"designation" form:"designation"`
	ZakaatEligible string          `json:"-" form:"zakaat_eligible"`
	Zakaat         models.TriState `json:"zakaat_eligible" form:"-"`
}

func (input lalaInput) form(fromJSON bool) services.BeneficiaryForm {
	zakaat := input.ZakaatEligible
	if fromJSON {
		zakaat = input.Zakaat.FormValue()
	}
	return services.BeneficiaryForm{
		CNIC:           input.CNIC,
		Name:           input.Name,
		Phone:          input.Phone,
		Designation:    input.Designation,
		ZakaatEligible: zakaat,
	}
}

func parseLalaInput(c *fiber.Ctx) (lalaInput, services.BeneficiaryForm, error) {
	input := lalaInput{}
	if err := c.BodyParser(&input); err != nil {
		return input, services.BeneficiaryForm{}, err
	}
	return input, input.form(isJSONBody(c)), nil
}

// parseTab reads the active tab. Unknown values fall back to inside_giki.
func parseTab(raw string) models.Location {
	location, ok := models.ParseLocation(raw)
	if !ok {
		return models.LocationInsideGIKI
	}
	return location
}

func parseViewQuery(c *fiber.Ctx) services.ViewQuery {
	return services.ViewQuery{
		Location: parseTab(firstNonEmpty(c.Query("tab"), c.Query("location"))),
		Search:   strings.TrimSpace(c.Query("q")),
		Filter:   services.ParseFilterKind(c.Query("filter")),
	}
}

// returnPath rebuilds the dashboard URL a form posted from.
func returnPath(c *fiber.Ctx) string {
	return dashboardPath(
		parseTab(c.FormValue("tab")),
		c.FormValue("q"),
		services.ParseFilterKind(c.FormValue("filter")),
	)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
