package api

import "github.com/gofiber/fiber/v2"

// UnlockRequired keeps protected pages and API routes behind the access gate.
func (handler *Handler) UnlockRequired(c *fiber.Ctx) error {
	if !handler.gate.IsUnlocked(handler.accessFlags(c)) {
		if isAPIPath(c) {
			return apiError(c, fiber.StatusUnauthorized, errorMessageLocked)
		}
		return c.Redirect("/unlock", fiber.StatusSeeOther)
	}

	c.Locals(contextUnlockedKey, true)
	return c.Next()
}

func isUnlocked(c *fiber.Ctx) bool {
	unlocked, _ := c.Locals(contextUnlockedKey).(bool)
	return unlocked
}
