package api

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rationportal/internal/services"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSheetName = "Lalas"
	mimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	view, ok := handler.exportView(c)
	if !ok {
		return apiError(c, fiber.StatusBadGateway, errorMessageStore)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	if err := writer.WriteAll(services.ExportRows(view.Items)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv; charset=utf-8", buildExportFilename(time.Now().UTC(), view.Query.Location, "csv"))
	return c.Send(output.Bytes())
}

// ExportXLSX writes the same columns as ExportCSV into a single-sheet
// workbook that the importer reads back.
func (handler *Handler) ExportXLSX(c *fiber.Ctx) error {
	view, ok := handler.exportView(c)
	if !ok {
		return apiError(c, fiber.StatusBadGateway, errorMessageStore)
	}

	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), exportSheetName); err != nil {
		return handler.exportFailed(c, err)
	}
	rows := append([][]string{services.ExportCSVHeaders}, services.ExportRows(view.Items)...)
	for index, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		if err != nil {
			return handler.exportFailed(c, err)
		}
		values := make([]any, len(row))
		for column, value := range row {
			values[column] = value
		}
		if err := workbook.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return handler.exportFailed(c, err)
		}
	}

	output, err := workbook.WriteToBuffer()
	if err != nil {
		return handler.exportFailed(c, err)
	}

	setExportAttachmentHeaders(c, mimeXLSX, buildExportFilename(time.Now().UTC(), view.Query.Location, "xlsx"))
	return c.Send(output.Bytes())
}

func (handler *Handler) exportFailed(c *fiber.Ctx, err error) error {
	handler.logger.Error("build export failed", zap.Error(err))
	return apiError(c, fiber.StatusInternalServerError, "failed to build export")
}
