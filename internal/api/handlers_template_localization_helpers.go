package api

import (
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
)

func templateTranslate(messages map[string]string, key string) string {
	return translateMessage(messages, key)
}

func templateTranslatef(messages map[string]string, key string, args ...any) string {
	return translateMessagef(messages, key, args...)
}

func templateTabLabel(messages map[string]string, location models.Location) string {
	return translateMessage(messages, locationTranslationKey(location))
}

func templateStatusLabel(messages map[string]string, status models.Status) string {
	return translateMessage(messages, statusTranslationKey(status))
}

func templateFilterLabel(messages map[string]string, filter services.FilterKind) string {
	return translateMessage(messages, filterTranslationKey(filter))
}

func templateZakaatLabel(messages map[string]string, value models.TriState) string {
	return translateMessage(messages, zakaatTranslationKey(value))
}

// flashCountKeys take the import counts as format arguments.
var flashCountKeys = map[string]bool{
	"import.success":      true,
	"import.error.failed": true,
}

func templateFlashMessage(messages map[string]string, key string, flash FlashPayload) string {
	if flashCountKeys[key] {
		return translateMessagef(messages, key, flash.Inserted, flash.Skipped)
	}
	return translateMessage(messages, key)
}
