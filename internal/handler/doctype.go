package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/lethang/crmmeta/internal/event"
	"github.com/lethang/crmmeta/internal/listview"
	"github.com/lethang/crmmeta/internal/meta"
)

// DoctypeHandler implements doctype metadata and list-settings endpoints.
type DoctypeHandler struct {
	meta     *meta.Service
	lists    *listview.Registry
	recorder event.Recorder
}

// NewDoctypeHandler creates a DoctypeHandler.
func NewDoctypeHandler(metaSvc *meta.Service, lists *listview.Registry, recorder event.Recorder) *DoctypeHandler {
	return &DoctypeHandler{meta: metaSvc, lists: lists, recorder: recorder}
}

// ListDocTypes returns all doctype names.
// GET /v1/doctypes
func (h *DoctypeHandler) ListDocTypes(w http.ResponseWriter, r *http.Request) {
	names, err := h.meta.Store().ListDocTypes(r.Context())
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctypes": names})
}

// GetDocType returns the metadata for one doctype.
// GET /v1/doctypes/{doctype}
func (h *DoctypeHandler) GetDocType(w http.ResponseWriter, r *http.Request) {
	doctype := chi.URLParam(r, "doctype")
	dt, err := h.meta.Meta(r.Context(), doctype)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dt)
}

// ImportDocType creates or replaces a doctype definition. The body is a
// JSON definition validated against the doctype schema before it touches
// the store.
// POST /v1/doctypes
func (h *DoctypeHandler) ImportDocType(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "unreadable request body")
		return
	}
	if err := meta.ValidateDefinition(raw); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DOCTYPE", err.Error())
		return
	}
	var dt meta.DocType
	if err := json.Unmarshal(raw, &dt); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid doctype JSON")
		return
	}

	if err := h.meta.Store().PutDocType(r.Context(), &dt); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	h.meta.Invalidate(r.Context(), dt.Name)
	if h.recorder != nil {
		if err := h.recorder.Record(r.Context(), event.NewDoctypeUpdated(dt.Name)); err != nil {
			log.Error("recording doctype event failed", "doctype", dt.Name, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, &dt)
}

// GetListSettings returns the list-view settings for a doctype, consulting
// the override registry.
// GET /v1/doctypes/{doctype}/list-settings
func (h *DoctypeHandler) GetListSettings(w http.ResponseWriter, r *http.Request) {
	doctype := chi.URLParam(r, "doctype")
	settings, err := h.lists.Settings(r.Context(), doctype)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
