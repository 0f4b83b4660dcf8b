package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
	"github.com/terraincognita07/rationportal/internal/store"
)

const (
	formModeCreate = "create"
	formModeEdit   = "edit"
)

type lalaFormView struct {
	Mode     string
	ID       string
	Location models.Location
	Form     services.BeneficiaryForm
	ErrorKey string
	// Return* keep the dashboard search and filter across the form round trip.
	ReturnSearch string
	ReturnFilter services.FilterKind
}

func (view lalaFormView) Action() string {
	if view.Mode == formModeEdit {
		return "/lalas/" + view.ID
	}
	return "/lalas"
}

func (view lalaFormView) CancelPath() string {
	return dashboardPath(view.Location, view.ReturnSearch, view.ReturnFilter)
}

func (handler *Handler) ShowNewLala(c *fiber.Ctx) error {
	query := parseViewQuery(c)
	return handler.renderLalaForm(c, fiber.StatusOK, lalaFormView{
		Mode:         formModeCreate,
		Location:     query.Location,
		ReturnSearch: query.Search,
		ReturnFilter: query.Filter,
	})
}

func (handler *Handler) CreateLala(c *fiber.Ctx) error {
	input, form, err := parseLalaInput(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, errorMessageInvalidInput)
	}

	location := models.Location(input.Location)
	if !isAPIPath(c) {
		location = parseTab(input.Location)
	}

	created, err := handler.beneficiaries.Create(c.UserContext(), location, form)
	if err != nil {
		if isAPIPath(c) || acceptsJSON(c) {
			return handler.respondError(c, err)
		}
		handler.logRequestError(c, err)
		status, message := classifyError(err)
		return handler.renderLalaForm(c, status, lalaFormView{
			Mode:         formModeCreate,
			Location:     location,
			Form:         form,
			ErrorKey:     errorTranslationKey(message),
			ReturnSearch: c.FormValue("q"),
			ReturnFilter: services.ParseFilterKind(c.FormValue("filter")),
		})
	}

	if isAPIPath(c) || acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(created)
	}
	handler.setFlashCookie(c, FlashPayload{Success: "form.success.created"})
	return c.Redirect(returnPath(c), fiber.StatusSeeOther)
}

func (handler *Handler) ShowEditLala(c *fiber.Ctx) error {
	record, err := handler.beneficiaries.Find(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.pageLookupFailed(c, err)
	}

	query := parseViewQuery(c)
	return handler.renderLalaForm(c, fiber.StatusOK, lalaFormView{
		Mode:         formModeEdit,
		ID:           record.ID,
		Location:     record.Location,
		Form:         services.FormFromBeneficiary(record),
		ReturnSearch: query.Search,
		ReturnFilter: query.Filter,
	})
}

// UpdateLala rewrites the editable fields. CNIC and location stay as stored.
func (handler *Handler) UpdateLala(c *fiber.Ctx) error {
	id := c.Params("id")
	input, form, err := parseLalaInput(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, errorMessageInvalidInput)
	}

	if err := handler.beneficiaries.Update(c.UserContext(), id, form); err != nil {
		if isAPIPath(c) || acceptsJSON(c) {
			return handler.respondError(c, err)
		}
		if store.IsNotFound(err) {
			return handler.NotFound(c)
		}
		handler.logRequestError(c, err)
		status, message := classifyError(err)
		return handler.renderLalaForm(c, status, lalaFormView{
			Mode:         formModeEdit,
			ID:           id,
			Location:     parseTab(input.Location),
			Form:         form,
			ErrorKey:     errorTranslationKey(message),
			ReturnSearch: c.FormValue("q"),
			ReturnFilter: services.ParseFilterKind(c.FormValue("filter")),
		})
	}

	if isAPIPath(c) || acceptsJSON(c) {
		updated, err := handler.beneficiaries.Find(c.UserContext(), id)
		if err != nil {
			return handler.respondError(c, err)
		}
		return c.JSON(updated)
	}
	handler.setFlashCookie(c, FlashPayload{Success: "form.success.updated"})
	return c.Redirect(returnPath(c), fiber.StatusSeeOther)
}

func (handler *Handler) renderLalaForm(c *fiber.Ctx, status int, view lalaFormView) error {
	titleKey, fallback := "meta.title.new_lala", "Lalas | Add"
	if view.Mode == formModeEdit {
		titleKey, fallback = "meta.title.edit_lala", "Lalas | Edit"
	}
	c.Status(status)
	return handler.render(c, "lala_form", fiber.Map{
		"Title":     localizedPageTitle(currentMessages(c), titleKey, fallback),
		"FormView":  view,
		"TriStates": []models.TriState{models.TriUnset, models.TriTrue, models.TriFalse},
	})
}

// pageLookupFailed answers a failed record lookup on an HTML page route.
func (handler *Handler) pageLookupFailed(c *fiber.Ctx, err error) error {
	if store.IsNotFound(err) {
		return handler.NotFound(c)
	}
	_, message := classifyError(err)
	handler.logRequestError(c, err)
	handler.setFlashCookie(c, FlashPayload{Error: errorTranslationKey(message)})
	return c.Redirect(dashboardPath(parseTab(c.Query("tab")), c.Query("q"), services.ParseFilterKind(c.Query("filter"))), fiber.StatusSeeOther)
}
