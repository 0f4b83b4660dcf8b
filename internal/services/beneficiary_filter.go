package services

import (
	"strings"

	"github.com/terraincognita07/rationportal/internal/models"
)

type FilterKind string

const (
	FilterAll         FilterKind = "all"
	FilterZakaatOnly  FilterKind = "zakaat_only"
	FilterPendingOnly FilterKind = "pending_only"
	FilterDoneOnly    FilterKind = "done_only"
)

func ParseFilterKind(raw string) FilterKind {
	switch FilterKind(strings.ToLower(strings.TrimSpace(raw))) {
	case FilterZakaatOnly:
		return FilterZakaatOnly
	case FilterPendingOnly:
		return FilterPendingOnly
	case FilterDoneOnly:
		return FilterDoneOnly
	default:
		return FilterAll
	}
}

func FilterKinds() []FilterKind {
	return []FilterKind{FilterAll, FilterZakaatOnly, FilterPendingOnly, FilterDoneOnly}
}

type Stats struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Zakaat  int `json:"zakaat"`
}

// ApplyFilters narrows list by the search query (name or CNIC, case
// insensitive) and then by the category filter. The input is not modified.
func ApplyFilters(list []models.Beneficiary, search string, filter FilterKind) []models.Beneficiary {
	query := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.Beneficiary, 0, len(list))
	for _, beneficiary := range list {
		if query != "" && !matchesSearch(beneficiary, query) {
			continue
		}
		if !matchesFilter(beneficiary, filter) {
			continue
		}
		filtered = append(filtered, beneficiary)
	}
	return filtered
}

func matchesSearch(beneficiary models.Beneficiary, loweredQuery string) bool {
	name := strings.ToLower(models.StringValue(beneficiary.Name))
	cnic := strings.ToLower(beneficiary.CNIC)
	return strings.Contains(name, loweredQuery) || strings.Contains(cnic, loweredQuery)
}

func matchesFilter(beneficiary models.Beneficiary, filter FilterKind) bool {
	switch filter {
	case FilterZakaatOnly:
		return beneficiary.ZakaatEligible.IsTrue()
	case FilterPendingOnly:
		return beneficiary.Status == models.StatusPending
	case FilterDoneOnly:
		return beneficiary.Status == models.StatusDone
	default:
		return true
	}
}

// ComputeStats counts over the whole fetched list, never the filtered view.
func ComputeStats(list []models.Beneficiary) Stats {
	stats := Stats{Total: len(list)}
	for _, beneficiary := range list {
		if beneficiary.Status == models.StatusDone {
			stats.Done++
		}
		if beneficiary.ZakaatEligible.IsTrue() {
			stats.Zakaat++
		}
	}
	stats.Pending = stats.Total - stats.Done
	return stats
}
