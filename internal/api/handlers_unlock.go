package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/services"
	"go.uber.org/zap"
)

type unlockInput struct {
	Code string `json:"code" form:"code"`
}

func (handler *Handler) ShowUnlock(c *fiber.Ctx) error {
	if handler.gate.IsUnlocked(handler.accessFlags(c)) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return handler.renderUnlock(c, fiber.StatusOK, "")
}

func (handler *Handler) Unlock(c *fiber.Ctx) error {
	input := unlockInput{}
	if err := c.BodyParser(&input); err != nil {
		if isAPIPath(c) {
			return apiError(c, fiber.StatusBadRequest, errorMessageInvalidInput)
		}
		return handler.renderUnlock(c, fiber.StatusBadRequest, "form.error.invalid_input")
	}

	// The code is compared as typed, matching the configured secret byte for byte.
	unlocked, err := handler.gate.Unlock(handler.accessFlags(c), input.Code)
	if err != nil {
		handler.logger.Error("unlock failed",
			zap.Bool("secret_missing", errors.Is(err, services.ErrGateSecretMissing)),
			zap.Error(err),
		)
		if isAPIPath(c) || acceptsJSON(c) {
			return apiError(c, fiber.StatusInternalServerError, errorMessageInternal)
		}
		return handler.renderUnlock(c, fiber.StatusInternalServerError, "common.error.internal")
	}
	if !unlocked {
		if isAPIPath(c) || acceptsJSON(c) {
			return apiError(c, fiber.StatusUnauthorized, errorMessageInvalidCode)
		}
		return handler.renderUnlock(c, fiber.StatusUnauthorized, "gate.error.invalid_code")
	}

	return redirectOrJSON(c, "/")
}

func (handler *Handler) Lock(c *fiber.Ctx) error {
	handler.gate.Lock(handler.accessFlags(c))
	return redirectOrJSON(c, "/unlock")
}

func (handler *Handler) renderUnlock(c *fiber.Ctx, status int, errorKey string) error {
	c.Status(status)
	return handler.render(c, "unlock", fiber.Map{
		"Title":    localizedPageTitle(currentMessages(c), "meta.title.unlock", "Lalas | Unlock"),
		"ErrorKey": errorKey,
	})
}
