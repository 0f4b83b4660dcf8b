package api

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
)

// templateDashboardURL builds a dashboard link; default values are left out of
// the query string.
func templateDashboardURL(location models.Location, search string, filter services.FilterKind) string {
	return dashboardPath(location, search, filter)
}

func dashboardPath(location models.Location, search string, filter services.FilterKind) string {
	query := url.Values{}
	if location != "" && location != models.LocationInsideGIKI {
		query.Set("tab", string(location))
	}
	setViewFilters(query, search, filter)
	if len(query) == 0 {
		return "/"
	}
	return "/?" + query.Encode()
}

// templateQueryURL appends the dashboard state to path so the target page can
// send the operator back to the same view.
func templateQueryURL(path string, view services.ViewQuery) string {
	query := url.Values{}
	query.Set("tab", string(parseTab(string(view.Location))))
	setViewFilters(query, view.Search, view.Filter)
	return path + "?" + query.Encode()
}

func setViewFilters(query url.Values, search string, filter services.FilterKind) {
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		query.Set("q", trimmed)
	}
	if filter != "" && filter != services.FilterAll {
		query.Set("filter", string(filter))
	}
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires key-value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, fmt.Errorf("dict key at index %d is not a string", index)
		}
		result[key] = values[index+1]
	}
	return result, nil
}
