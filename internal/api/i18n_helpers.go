package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
)

var errorKeys = map[string]string{
	errorMessageLocked:          "gate.error.locked",
	errorMessageInvalidCode:     "gate.error.invalid_code",
	errorMessageInvalidInput:    "form.error.invalid_input",
	errorMessageCNICRequired:    "form.error.cnic_required",
	errorMessageInvalidTab:      "form.error.invalid_location",
	errorMessageCNICExists:      "form.error.cnic_exists",
	errorMessageNotFound:        "not_found.title",
	errorMessageNotConfirmed:    "delete.error.not_confirmed",
	errorMessageStore:           "common.error.store",
	errorMessageInternal:        "common.error.internal",
	errorMessageFileRequired:    "import.error.file_required",
	errorMessageUnsupportedFile: "import.error.unsupported_file",
	errorMessageNoRows:          "import.notice.no_rows",
	errorMessageTooManyRows:     "import.error.too_many_rows",
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

// translateMessagef formats a translated pattern. A missing key yields the key.
func translateMessagef(messages map[string]string, key string, args ...any) string {
	pattern := translateMessage(messages, key)
	if pattern == key {
		return key
	}
	return fmt.Sprintf(pattern, args...)
}

func errorTranslationKey(message string) string {
	key, ok := errorKeys[strings.ToLower(strings.TrimSpace(message))]
	if !ok {
		return ""
	}
	return key
}

func locationTranslationKey(location models.Location) string {
	switch location {
	case models.LocationOutsideGIKI:
		return "tab.outside_giki"
	default:
		return "tab.inside_giki"
	}
}

func statusTranslationKey(status models.Status) string {
	if status == models.StatusDone {
		return "status.done"
	}
	return "status.pending"
}

func filterTranslationKey(filter services.FilterKind) string {
	return "filter." + string(filter)
}

func zakaatTranslationKey(value models.TriState) string {
	switch value {
	case models.TriTrue:
		return "zakaat.yes"
	case models.TriFalse:
		return "zakaat.no"
	default:
		return "zakaat.unset"
	}
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	messages := currentMessages(c)
	if _, ok := data["Messages"]; !ok {
		data["Messages"] = messages
	}

	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}

	if _, ok := data["Dir"]; !ok {
		language, _ := data["Lang"].(string)
		data["Dir"] = handler.i18n.Direction(language)
	}

	if _, ok := data["Languages"]; !ok {
		data["Languages"] = handler.i18n.SupportedLanguages()
	}

	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = currentPathWithQuery(c)
	}

	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}

	if _, ok := data["Unlocked"]; !ok {
		data["Unlocked"] = isUnlocked(c)
	}

	if _, ok := data["NoDataLabel"]; !ok {
		noData := translateMessage(messages, "common.not_available")
		if noData == "common.not_available" {
			noData = "-"
		}
		data["NoDataLabel"] = noData
	}

	return data
}

func currentPathWithQuery(c *fiber.Ctx) string {
	path := string(c.Request().URI().RequestURI())
	if path == "" {
		return c.Path()
	}
	return path
}
