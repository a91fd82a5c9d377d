package handler

import (
	"net/http"
)

// AssetHandlerInterface defines the contract for asset HTTP handlers.
// This interface enables easy testing, mocking, and dependency injection.
type AssetHandlerInterface interface {
	// Asset CRUD operations
	ListAssetsHandler(w http.ResponseWriter, r *http.Request)
	CreateAssetHandler(w http.ResponseWriter, r *http.Request)
	GetAssetHandler(w http.ResponseWriter, r *http.Request)
	UpdateAssetHandler(w http.ResponseWriter, r *http.Request)
	DeleteAssetHandler(w http.ResponseWriter, r *http.Request)
	DuplicateAssetHandler(w http.ResponseWriter, r *http.Request)
	ExportAssetsHandler(w http.ResponseWriter, r *http.Request)

	// Reports
	CategorySummaryHandler(w http.ResponseWriter, r *http.Request)
	DepreciationReportHandler(w http.ResponseWriter, r *http.Request)

	// Reference vocabularies
	CategoriesHandler(w http.ResponseWriter, r *http.Request)
	LocationsHandler(w http.ResponseWriter, r *http.Request)
	StatusesHandler(w http.ResponseWriter, r *http.Request)

	// Health and monitoring
	HealthHandler(w http.ResponseWriter, r *http.Request)
}

// Ensure AssetHandler implements AssetHandlerInterface at compile time
var _ AssetHandlerInterface = (*AssetHandler)(nil)
