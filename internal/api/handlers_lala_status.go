package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
)

type toggleInput struct {
	Status string `json:"status" form:"status"`
}

// ToggleLala flips pending and done. The caller may send the status it
// rendered; without one the current status is read from the store.
func (handler *Handler) ToggleLala(c *fiber.Ctx) error {
	id := c.Params("id")
	input := toggleInput{}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return apiError(c, fiber.StatusBadRequest, errorMessageInvalidInput)
	}

	current, ok := models.ParseStatus(input.Status)
	if !ok {
		record, err := handler.beneficiaries.Find(c.UserContext(), id)
		if err != nil {
			return handler.mutationFailed(c, err)
		}
		current = record.Status
	}

	next, err := handler.beneficiaries.ToggleStatus(c.UserContext(), id, current)
	if err != nil {
		return handler.mutationFailed(c, err)
	}

	if isAPIPath(c) || acceptsJSON(c) {
		return c.JSON(fiber.Map{"id": id, "status": next})
	}
	return c.Redirect(returnPath(c), fiber.StatusSeeOther)
}

func (handler *Handler) ShowDeleteLala(c *fiber.Ctx) error {
	record, err := handler.beneficiaries.Find(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.pageLookupFailed(c, err)
	}

	query := parseViewQuery(c)
	query.Location = record.Location
	return handler.render(c, "confirm_delete", fiber.Map{
		"Title":  localizedPageTitle(currentMessages(c), "meta.title.delete_lala", "Lalas | Delete"),
		"Record": record,
		"Query":  query,
		"Cancel": dashboardPath(query.Location, query.Search, query.Filter),
	})
}

// DeleteLala removes a record only after explicit confirmation: confirm=yes
// on the form route, confirm=true on the API.
func (handler *Handler) DeleteLala(c *fiber.Ctx) error {
	confirmed := isConfirmed(c.FormValue("confirm")) || isConfirmed(c.Query("confirm"))
	if err := handler.beneficiaries.Delete(c.UserContext(), c.Params("id"), confirmed); err != nil {
		return handler.mutationFailed(c, err)
	}

	if isAPIPath(c) || acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	handler.setFlashCookie(c, FlashPayload{Success: "delete.success"})
	return c.Redirect(returnPath(c), fiber.StatusSeeOther)
}

// mutationFailed reports a failed toggle or delete. Page routes go back to the
// dashboard with a flash message.
func (handler *Handler) mutationFailed(c *fiber.Ctx, err error) error {
	if isAPIPath(c) || acceptsJSON(c) {
		return handler.respondError(c, err)
	}
	handler.logRequestError(c, err)
	_, message := classifyError(err)
	handler.setFlashCookie(c, FlashPayload{Error: errorTranslationKey(message)})
	return c.Redirect(returnPath(c), fiber.StatusSeeOther)
}

func isConfirmed(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
