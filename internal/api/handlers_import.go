package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
	"github.com/terraincognita07/rationportal/internal/spreadsheet"
	"go.uber.org/zap"
)

// ImportLalas reads an uploaded spreadsheet (multipart field "file") into the
// active tab.
func (handler *Handler) ImportLalas(c *fiber.Ctx) error {
	location := models.Location(firstNonEmpty(c.FormValue("tab"), c.FormValue("location"), c.Query("location")))
	if !isAPIPath(c) {
		location = parseTab(string(location))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return handler.importRejected(c, fiber.StatusBadRequest, errorMessageFileRequired)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return handler.importRejected(c, fiber.StatusBadRequest, errorMessageFileRequired)
	}
	defer func() { _ = file.Close() }()

	sheet, err := spreadsheet.Read(file, fileHeader.Filename)
	if err != nil {
		handler.logger.Warn("read spreadsheet failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
			return handler.importRejected(c, fiber.StatusUnsupportedMediaType, errorMessageUnsupportedFile)
		case errors.Is(err, spreadsheet.ErrTooManyRows):
			return handler.importRejected(c, fiber.StatusRequestEntityTooLarge, errorMessageTooManyRows)
		}
		return handler.importRejected(c, fiber.StatusUnprocessableEntity, errorMessageUnsupportedFile)
	}

	result := handler.importer.Import(c.UserContext(), location, sheet)
	if isAPIPath(c) || acceptsJSON(c) {
		return handler.importJSON(c, result)
	}

	flash := FlashPayload{Inserted: result.Inserted, Skipped: result.Skipped}
	switch {
	case result.Empty:
		flash.Notice = "import.notice.no_rows"
	case result.Failed() && result.PartialWriteUnknown:
		flash.Error = "import.error.partial_unknown"
	case result.Failed() && services.IsValidationError(result.Err):
		flash.Error = "form.error.invalid_location"
	case result.Failed():
		flash.Error = "import.error.failed"
	default:
		flash.Success = "import.success"
	}
	handler.setFlashCookie(c, flash)
	return c.Redirect(returnPath(c), fiber.StatusSeeOther)
}

func (handler *Handler) importJSON(c *fiber.Ctx, result services.ImportResult) error {
	if !result.Failed() {
		return c.JSON(result)
	}

	status, message := classifyError(result.Err)
	if result.PartialWriteUnknown {
		message = "partial write unknown"
	}
	return c.Status(status).JSON(fiber.Map{
		"error":                 message,
		"inserted":              result.Inserted,
		"skipped":               result.Skipped,
		"partial_write_unknown": result.PartialWriteUnknown,
	})
}

func (handler *Handler) importRejected(c *fiber.Ctx, status int, message string) error {
	if isAPIPath(c) || acceptsJSON(c) {
		return apiError(c, status, message)
	}
	handler.setFlashCookie(c, FlashPayload{Error: errorTranslationKey(message)})
	return c.Redirect(returnPath(c), fiber.StatusSeeOther)
}
