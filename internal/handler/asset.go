package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"fixed-assets-registry/internal/export"
	"fixed-assets-registry/internal/model"
	"fixed-assets-registry/internal/report"
	"fixed-assets-registry/internal/service"
	apperrors "fixed-assets-registry/pkg/errors"
	"fixed-assets-registry/pkg/validation"

	"github.com/gorilla/mux"
)

// MaxBodyBytes caps the size of an asset payload.
const MaxBodyBytes = 1 << 20

// Error response structure for consistent JSON error responses
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Success response structure for consistent JSON success responses
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AssetHandler handles the HTTP requests for assets and reports.
type AssetHandler struct {
	Service *service.AssetService
	Logger  *slog.Logger

	// Helper components for cleaner code organization
	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewAssetHandler creates a new AssetHandler with dependencies and helpers.
func NewAssetHandler(svc *service.AssetService, logger *slog.Logger) *AssetHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AssetHandler{
		Service:        svc,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// ListAssetsHandler lists the assets matching the search, category and status
// query parameters, with their count and total cost.
func (h *AssetHandler) ListAssetsHandler(w http.ResponseWriter, r *http.Request) {
	filter := h.ResponseHelper.ParseFilter(r)

	result, err := h.Service.ListAssets(r.Context(), filter)
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "retrieve assets")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, h.ResponseHelper.CreateListResponseData(result))
}

// CreateAssetHandler handles the creation of a new asset.
func (h *AssetHandler) CreateAssetHandler(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decodeRawAsset(w, r)
	if !ok {
		return
	}

	asset, err := h.Service.CreateAsset(r.Context(), raw)
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "create asset")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusCreated, "Asset created successfully", asset)
}

// GetAssetHandler handles the retrieval of a single asset by ID.
func (h *AssetHandler) GetAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	asset, err := h.Service.GetAsset(r.Context(), id)
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "retrieve asset")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, asset)
}

// UpdateAssetHandler overwrites every field of an asset.
func (h *AssetHandler) UpdateAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	raw, ok := h.decodeRawAsset(w, r)
	if !ok {
		return
	}

	asset, err := h.Service.UpdateAsset(r.Context(), id, raw)
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "update asset")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Asset updated successfully", asset)
}

// DeleteAssetHandler handles the deletion of an asset.
func (h *AssetHandler) DeleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteAsset(r.Context(), id); err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "delete asset")
		return
	}

	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Asset deleted successfully", map[string]int64{"id": id})
}

// DuplicateAssetHandler returns an editable copy of an asset, ready to be
// posted back as a new asset. Nothing is stored.
func (h *AssetHandler) DuplicateAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	candidate, err := h.Service.DuplicateCandidate(r.Context(), id)
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "duplicate asset")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, validation.FromAsset(*candidate))
}

// ExportAssetsHandler downloads the filtered listing as CSV.
func (h *AssetHandler) ExportAssetsHandler(w http.ResponseWriter, r *http.Request) {
	filter := h.ResponseHelper.ParseFilter(r)

	var buf bytes.Buffer
	if _, err := h.Service.ExportCSV(r.Context(), filter, &buf); err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "export assets")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Warn("failed to write export", "error", err)
	}
}

// CategorySummaryHandler reports count, total and average cost per category.
func (h *AssetHandler) CategorySummaryHandler(w http.ResponseWriter, r *http.Request) {
	format, ok := h.ResponseHelper.ParseFormat(r)
	if !ok {
		h.ErrorHandler.HandleAppError(w, r, apperrors.InvalidParameterError("format", format), "generate summary")
		return
	}

	rows, err := h.Service.CategorySummary(r.Context())
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "generate summary")
		return
	}

	if format == FormatText {
		h.sendText(w, r, func(buf *bytes.Buffer) error {
			return report.WriteCategorySummary(buf, rows)
		})
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"categories": rows,
	})
}

// DepreciationReportHandler values every live depreciating asset as of today.
func (h *AssetHandler) DepreciationReportHandler(w http.ResponseWriter, r *http.Request) {
	format, ok := h.ResponseHelper.ParseFormat(r)
	if !ok {
		h.ErrorHandler.HandleAppError(w, r, apperrors.InvalidParameterError("format", format), "generate depreciation report")
		return
	}

	result, err := h.Service.DepreciationReport(r.Context())
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "generate depreciation report")
		return
	}

	if format == FormatText {
		h.sendText(w, r, func(buf *bytes.Buffer) error {
			return report.WriteDepreciation(buf, result.Rows)
		})
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"as_of":  result.AsOf.Format(model.DateLayout),
		"assets": result.Rows,
	})
}

// CategoriesHandler lists the category vocabulary.
func (h *AssetHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	h.sendVocabulary(w, r, model.VocabularyCategory)
}

// LocationsHandler lists the location vocabulary.
func (h *AssetHandler) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	h.sendVocabulary(w, r, model.VocabularyLocation)
}

// StatusesHandler lists the status vocabulary.
func (h *AssetHandler) StatusesHandler(w http.ResponseWriter, r *http.Request) {
	h.sendVocabulary(w, r, model.VocabularyStatus)
}

// HealthHandler provides a health check endpoint. The store is reported as
// "unchecked" when the service has no store handle.
func (h *AssetHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	checked, err := h.Service.Ping(r.Context())
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "check health")
		return
	}

	database := "up"
	if !checked {
		database = "unchecked"
	}
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Service is healthy", h.ResponseHelper.CreateHealthCheckData(database))
}

func (h *AssetHandler) sendVocabulary(w http.ResponseWriter, r *http.Request, v model.Vocabulary) {
	values, err := h.Service.Vocabulary(r.Context(), v)
	if err != nil {
		h.ErrorHandler.HandleAppError(w, r, err, "retrieve "+string(v)+" values")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"values": values,
		"count":  len(values),
	})
}

func (h *AssetHandler) sendText(w http.ResponseWriter, r *http.Request, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.ErrorHandler.HandleAppError(w, r, apperrors.InternalError("failed to render report", err), "render report")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// parseID reads the {id} path variable, which must be a positive integer.
func (h *AssetHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.ErrorHandler.HandleAppError(w, r, apperrors.InvalidParameterError("id", idStr), "parse id")
		return 0, false
	}
	return id, true
}

func (h *AssetHandler) decodeRawAsset(w http.ResponseWriter, r *http.Request) (validation.RawAsset, bool) {
	var raw validation.RawAsset

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, r, err)
		return raw, false
	}
	return raw, true
}
