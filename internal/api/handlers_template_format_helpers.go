package api

import (
	"time"

	"github.com/terraincognita07/rationportal/internal/models"
)

func formatTemplateDate(value time.Time, layout string) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(layout)
}

func templateOptional(value *string) string {
	return models.StringValue(value)
}
