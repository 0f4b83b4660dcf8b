package api

var pageTemplates = []string{
	"unlock",
	"dashboard",
	"lala_form",
	"confirm_delete",
	"not_found",
}
