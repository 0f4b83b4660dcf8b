package services

import (
	"time"

	"github.com/terraincognita07/rationportal/internal/models"
)

const exportTimestampLayout = "2006-01-02 15:04"

var ExportCSVHeaders = []string{
	"cnic",
	"name",
	"phone",
	"designation",
	"location",
	"zakaat_eligible",
	"status",
	"created_at",
}

// ExportRows renders list as CSV records in ExportCSVHeaders order. The
// headers are valid import aliases, so an export can be re-imported.
func ExportRows(list []models.Beneficiary) [][]string {
	rows := make([][]string, 0, len(list))
	for _, beneficiary := range list {
		rows = append(rows, []string{
			beneficiary.CNIC,
			models.StringValue(beneficiary.Name),
			models.StringValue(beneficiary.Phone),
			models.StringValue(beneficiary.Designation),
			string(beneficiary.Location),
			beneficiary.ZakaatEligible.FormValue(),
			string(beneficiary.Status),
			formatExportTimestamp(beneficiary.CreatedAt),
		})
	}
	return rows
}

func formatExportTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(exportTimestampLayout)
}
