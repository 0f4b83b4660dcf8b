package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const languageCookieTTL = 365 * 24 * time.Hour

// LanguageMiddleware resolves the request language from the ration_lang cookie,
// falling back to Accept-Language, and stores the merged catalog in Locals.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	c.Vary(fiber.HeaderAcceptLanguage)
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}

	if cookieLanguage != language {
		handler.setLanguageCookie(c, language)
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    handler.i18n.NormalizeLanguage(language),
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(languageCookieTTL),
	})
}
