package api

import "html/template"

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":   formatTemplateDate,
		"t":            templateTranslate,
		"tf":           templateTranslatef,
		"tabLabel":     templateTabLabel,
		"statusLabel":  templateStatusLabel,
		"filterLabel":  templateFilterLabel,
		"zakaatLabel":  templateZakaatLabel,
		"optional":     templateOptional,
		"dashboardURL": templateDashboardURL,
		"queryURL":     templateQueryURL,
		"flashMessage": templateFlashMessage,
		"dict":         templateDict,
	}
}
