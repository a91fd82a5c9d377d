package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"fixed-assets-registry/internal/middleware"
	apperrors "fixed-assets-registry/pkg/errors"
)

// ErrorHandler provides centralized error handling functionality for handlers
type ErrorHandler struct {
	Logger *slog.Logger
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		Logger: logger,
	}
}

// SendErrorResponse sends a structured error response
func (e *ErrorHandler) SendErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message, code string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		e.Logger.Error("failed to encode error response", "error", err)
	}
}

// SendSuccessResponse sends a structured success response
func (e *ErrorHandler) SendSuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := SuccessResponse{
		Message: message,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		e.Logger.Error("failed to encode success response", "error", err)
	}
}

// SendJSONResponse sends a generic JSON response
func (e *ErrorHandler) SendJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		e.Logger.Error("failed to encode JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to encode response","code":"ENCODING_ERROR"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}

// HandleAppError maps err onto an HTTP response. Errors that are not an
// *AppError are reported as internal errors.
func (e *ErrorHandler) HandleAppError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	appErr := apperrors.WrapError(err, "Failed to "+operation)
	status := appErr.GetHTTPStatus()

	attrs := []any{
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"operation", operation,
		"code", appErr.Code,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		e.Logger.Error("request failed", attrs...)
	} else {
		e.Logger.Info("request rejected", attrs...)
	}

	var details map[string]string
	if len(appErr.Details) > 0 {
		details = appErr.Details
	}
	e.SendErrorResponse(w, r, status, appErr.Message, string(appErr.Code), details)
}

// HandleJSONDecodeError handles JSON decoding errors
func (e *ErrorHandler) HandleJSONDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	e.HandleAppError(w, r, apperrors.InvalidJSONError(err), "decode request")
}
