package handler

import (
	"net/http"
	"strings"
	"time"

	"fixed-assets-registry/internal/query"
	"fixed-assets-registry/internal/repository"
)

// ResponseHelper provides common response utilities
type ResponseHelper struct{}

// NewResponseHelper creates a new ResponseHelper instance
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Output formats accepted by the report endpoints
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ParseFilter reads the search, category and status criteria from the query
// string. Missing criteria match everything.
func (rh *ResponseHelper) ParseFilter(r *http.Request) query.Filter {
	q := r.URL.Query()
	return query.Filter{
		Search:   q.Get("search"),
		Category: strings.TrimSpace(q.Get("category")),
		Status:   strings.TrimSpace(q.Get("status")),
	}
}

// ParseFormat returns the requested report format, defaulting to JSON.
func (rh *ResponseHelper) ParseFormat(r *http.Request) (string, bool) {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case "", FormatJSON:
		return FormatJSON, true
	case FormatText:
		return FormatText, true
	default:
		return f, false
	}
}

// CreateListResponseData creates response data for a listing with its totals
func (rh *ResponseHelper) CreateListResponseData(result *repository.ListResult) map[string]interface{} {
	return map[string]interface{}{
		"assets":      result.Items,
		"count":       result.Count,
		"total_value": result.TotalCost.StringFixed(2),
	}
}

// CreateHealthCheckData creates health check response data
func (rh *ResponseHelper) CreateHealthCheckData(database string) map[string]interface{} {
	return map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"service":   "fixed-assets-registry",
		"status":    "healthy",
		"database":  database,
	}
}
