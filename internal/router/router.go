package router

import (
	"net/http"

	"fixed-assets-registry/internal/config"
	"fixed-assets-registry/internal/handler"
	"fixed-assets-registry/internal/middleware"

	"github.com/gorilla/mux"
)

// NewRouter creates a new router and sets up the routes with security middleware.
func NewRouter(h handler.AssetHandlerInterface, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Initialize security middleware
	securityMW := middleware.NewSecurityMiddleware(&cfg.Security)

	// Apply global middleware in order
	r.Use(securityMW.SecurityHeaders)
	r.Use(securityMW.CORS)
	r.Use(securityMW.RateLimit)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Asset CRUD operations; export must be registered ahead of {id}
	api.HandleFunc("/assets", h.ListAssetsHandler).Methods("GET")
	api.HandleFunc("/assets", h.CreateAssetHandler).Methods("POST")
	api.HandleFunc("/assets/export", h.ExportAssetsHandler).Methods("GET")
	api.HandleFunc("/assets/{id:[0-9]+}", h.GetAssetHandler).Methods("GET")
	api.HandleFunc("/assets/{id:[0-9]+}", h.UpdateAssetHandler).Methods("PUT")
	api.HandleFunc("/assets/{id:[0-9]+}", h.DeleteAssetHandler).Methods("DELETE")
	api.HandleFunc("/assets/{id:[0-9]+}/duplicate", h.DuplicateAssetHandler).Methods("GET")

	// Reports
	api.HandleFunc("/reports/category-summary", h.CategorySummaryHandler).Methods("GET")
	api.HandleFunc("/reports/depreciation", h.DepreciationReportHandler).Methods("GET")

	// Reference vocabularies
	api.HandleFunc("/categories", h.CategoriesHandler).Methods("GET")
	api.HandleFunc("/locations", h.LocationsHandler).Methods("GET")
	api.HandleFunc("/statuses", h.StatusesHandler).Methods("GET")

	// Health check
	api.HandleFunc("/health", h.HealthHandler).Methods("GET")

	// Preflight requests only reach the CORS middleware through a matching route
	api.MatcherFunc(isPreflight).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// isPreflight matches OPTIONS requests without turning other unmatched
// requests into 405 responses.
func isPreflight(r *http.Request, _ *mux.RouteMatch) bool {
	return r.Method == http.MethodOptions
}
