// Package handler implements the HTTP handlers for the metadata and
// field-layout service.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lethang/crmmeta/internal/layout"
	"github.com/lethang/crmmeta/internal/meta"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("writeJSON encode failed", "err", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// storeErrorToHTTP maps store errors to appropriate HTTP responses.
// Not-found conditions from the metadata or layout store pass through as
// 404s; everything else is an internal error.
func storeErrorToHTTP(w http.ResponseWriter, err error) {
	if errors.Is(err, meta.ErrNotFound) || errors.Is(err, layout.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	log.Error("internal error", "err", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
