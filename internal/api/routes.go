package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/unlock", handler.ShowUnlock)
	app.Post("/unlock", handler.Unlock)
	app.Post("/lock", handler.Lock)

	app.Get("/", handler.UnlockRequired, handler.ShowDashboard)
	app.Get("/lalas/new", handler.UnlockRequired, handler.ShowNewLala)
	app.Post("/lalas", handler.UnlockRequired, handler.CreateLala)
	app.Get("/lalas/:id/edit", handler.UnlockRequired, handler.ShowEditLala)
	app.Post("/lalas/:id", handler.UnlockRequired, handler.UpdateLala)
	app.Post("/lalas/:id/toggle", handler.UnlockRequired, handler.ToggleLala)
	app.Get("/lalas/:id/delete", handler.UnlockRequired, handler.ShowDeleteLala)
	app.Post("/lalas/:id/delete", handler.UnlockRequired, handler.DeleteLala)
	app.Post("/import", handler.UnlockRequired, handler.ImportLalas)
	app.Get("/export.csv", handler.UnlockRequired, handler.ExportCSV)
	app.Get("/export.xlsx", handler.UnlockRequired, handler.ExportXLSX)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	api.Post("/unlock", handler.Unlock)
	api.Post("/lock", handler.Lock)

	lalas := api.Group("/lalas", handler.UnlockRequired)
	lalas.Get("", handler.GetLalas)
	lalas.Post("", handler.CreateLala)
	lalas.Patch("/:id", handler.UpdateLala)
	lalas.Post("/:id/toggle", handler.ToggleLala)
	lalas.Delete("/:id", handler.DeleteLala)

	api.Get("/stats", handler.UnlockRequired, handler.GetStats)
	api.Post("/import", handler.UnlockRequired, handler.ImportLalas)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
