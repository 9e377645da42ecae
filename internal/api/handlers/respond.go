package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taskpilot/taskpilot/internal/api/middleware"
)

// errorBody mirrors api.ErrorResponse so handlers and router-level errors
// share one wire shape.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, cause error) {
	logAttrs := []any{
		"code", code,
		"message", message,
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if cause != nil {
		logAttrs = append(logAttrs, "cause", cause.Error())
	}
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		logAttrs = append(logAttrs, "request_id", requestID)
	}

	if status >= 500 {
		slog.Error("api error", logAttrs...)
	} else {
		slog.Warn("api error", logAttrs...)
	}

	writeJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: message},
	})
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func forbidden(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func notFound(w http.ResponseWriter, r *http.Request, resource string) {
	writeError(w, r, http.StatusNotFound, "NOT_FOUND", resource+" not found", nil)
}

func conflict(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusConflict, "CONFLICT", message, nil)
}

func internalError(w http.ResponseWriter, r *http.Request, message string, cause error) {
	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", message, cause)
}
