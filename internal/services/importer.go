package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/spreadsheet"
	"github.com/terraincognita07/rationportal/internal/store"
	"go.uber.org/zap"
)

type ImportMode string

const (
	ImportModeBulk     ImportMode = "bulk"
	ImportModeRowByRow ImportMode = "row_by_row"
)

// Header aliases per field, matched case-insensitively. The first header in
// sheet order that matches any alias wins.
var importColumnAliases = map[string][]string{
	"cnic":            {"cnic", "id"},
	"name":            {"name", "nama"},
	"phone":           {"phone", "mobile", "contact"},
	"designation":     {"designation", "role", "title"},
	"zakaat_eligible": {"zakaat_eligible", "zakaat", "zakat", "eligible"},
}

type importColumns struct {
	cnic           string
	name           string
	phone          string
	designation    string
	zakaatEligible string
}

type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	// Empty is set when the sheet had no data rows.
	Empty bool `json:"empty"`
	// PartialWriteUnknown is set when a bulk insert failed. Some rows may
	// have been committed; Inserted is not claimed.
	PartialWriteUnknown bool  `json:"partial_write_unknown"`
	Err                 error `json:"-"`
}

func (result ImportResult) Failed() bool {
	return result.Err != nil
}

type Importer struct {
	writer ImportWriter
	cnics  *CNICCache
	mode   ImportMode
	logger *zap.Logger
}

func NewImporter(writer ImportWriter, cnics *CNICCache, mode ImportMode, logger *zap.Logger) *Importer {
	if mode != ImportModeRowByRow {
		mode = ImportModeBulk
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		writer: writer,
		cnics:  cnics,
		mode:   mode,
		logger: logger,
	}
}

func (importer *Importer) Mode() ImportMode {
	return importer.mode
}

// Import admits the sheet's new rows into location and writes them. The
// known-CNIC cache is refreshed before admission and again after the write.
func (importer *Importer) Import(ctx context.Context, location models.Location, sheet spreadsheet.Sheet) ImportResult {
	if _, ok := models.ParseLocation(string(location)); !ok {
		return ImportResult{Err: &ValidationError{Field: "location", Err: ErrInvalidLocation}}
	}
	if sheet.Empty() {
		return ImportResult{Empty: true}
	}

	if err := importer.cnics.Refresh(ctx); err != nil {
		importer.logger.Warn("refresh known cnics before import failed", zap.Error(err))
	}
	batch, skipped := AdmitRows(sheet, location, importer.cnics.Snapshot())

	result := ImportResult{Skipped: skipped}
	if len(batch) > 0 {
		switch importer.mode {
		case ImportModeRowByRow:
			importer.insertRowByRow(ctx, batch, &result)
		default:
			importer.insertBulk(ctx, batch, &result)
		}
	}

	if err := importer.cnics.Refresh(ctx); err != nil {
		importer.logger.Warn("refresh known cnics after import failed", zap.Error(err))
	}

	fields := []zap.Field{
		zap.String("location", string(location)),
		zap.String("mode", string(importer.mode)),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
	}
	if result.Err != nil {
		importer.logger.Error("import failed", append(fields, zap.Error(result.Err))...)
	} else {
		importer.logger.Info("import finished", fields...)
	}
	return result
}

func (importer *Importer) insertBulk(ctx context.Context, batch []models.Beneficiary, result *ImportResult) {
	if _, err := importer.writer.InsertMany(ctx, batch); err != nil {
		result.Err = fmt.Errorf("bulk insert: %w", err)
		result.PartialWriteUnknown = true
		return
	}
	result.Inserted = len(batch)
}

// insertRowByRow counts a conflicting row as skipped and stops on the first
// other failure, keeping the exact count of rows written so far.
func (importer *Importer) insertRowByRow(ctx context.Context, batch []models.Beneficiary, result *ImportResult) {
	for index := range batch {
		record := batch[index]
		if _, err := importer.writer.InsertOne(ctx, &record); err != nil {
			if store.IsConflict(err) {
				result.Skipped++
				continue
			}
			result.Err = fmt.Errorf("insert row %d: %w", index+1, err)
			return
		}
		result.Inserted++
	}
}

// AdmitRows builds the insert batch. Rows with a blank CNIC, a CNIC already in
// known, or a CNIC seen earlier in the sheet are skipped and counted. known is
// not modified.
func AdmitRows(sheet spreadsheet.Sheet, location models.Location, known map[string]struct{}) ([]models.Beneficiary, int) {
	columns := resolveImportColumns(sheet.Headers)
	seen := make(map[string]struct{}, len(sheet.Rows))
	batch := make([]models.Beneficiary, 0, len(sheet.Rows))
	skipped := 0

	for _, row := range sheet.Rows {
		cnic := strings.TrimSpace(row[columns.cnic])
		if cnic == "" {
			skipped++
			continue
		}
		if _, exists := known[cnic]; exists {
			skipped++
			continue
		}
		if _, exists := seen[cnic]; exists {
			skipped++
			continue
		}
		seen[cnic] = struct{}{}

		batch = append(batch, models.Beneficiary{
			CNIC:           cnic,
			Name:           models.OptionalString(row[columns.name]),
			Phone:          models.OptionalString(row[columns.phone]),
			Designation:    models.OptionalString(row[columns.designation]),
			Location:       location,
			ZakaatEligible: models.ParseTriState(row[columns.zakaatEligible]),
			Status:         models.StatusPending,
		})
	}
	return batch, skipped
}

func resolveImportColumns(headers []string) importColumns {
	return importColumns{
		cnic:           resolveImportColumn(headers, "cnic"),
		name:           resolveImportColumn(headers, "name"),
		phone:          resolveImportColumn(headers, "phone"),
		designation:    resolveImportColumn(headers, "designation"),
		zakaatEligible: resolveImportColumn(headers, "zakaat_eligible"),
	}
}

func resolveImportColumn(headers []string, field string) string {
	aliases := importColumnAliases[field]
	for _, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		for _, alias := range aliases {
			if normalized == alias {
				return header
			}
		}
	}
	return field
}
