package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kotoba-study/kotoba-api/internal/apperrors"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage keeps client-facing error messages bounded
func sanitizeErrorMessage(message string) string {
	if len(message) > 200 {
		return message[:200] + "..."
	}
	return message
}

// respondJSONError sends an error JSON response
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondServiceError translates the service error taxonomy to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", validationErr.Error())
		return
	}

	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		respondJSONError(w, http.StatusConflict, "Conflict", conflictErr.Error())
		return
	}

	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		respondJSONError(w, http.StatusNotFound, "Not Found", notFoundErr.Error())
		return
	}

	var storeErr *apperrors.StoreError
	if errors.As(err, &storeErr) {
		respondJSONError(w, http.StatusBadGateway, "Store Error", storeErr.Error())
		return
	}

	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
}
