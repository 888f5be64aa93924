package handler

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/lethang/crmmeta/internal/event"
	"github.com/lethang/crmmeta/internal/layout"
)

// LayoutHandler implements the field-layout endpoints: the resolver read
// path and the admin save path.
type LayoutHandler struct {
	resolver *layout.Resolver
	layouts  layout.Store
	recorder event.Recorder
}

// NewLayoutHandler creates a LayoutHandler.
func NewLayoutHandler(resolver *layout.Resolver, layouts layout.Store, recorder event.Recorder) *LayoutHandler {
	return &LayoutHandler{resolver: resolver, layouts: layouts, recorder: recorder}
}

// GetFieldsLayout resolves the field layout for a doctype.
// GET /v1/layouts/{doctype}?type=Data%20Fields&parent_doctype=...
//
// Also registered as the "fields_layout.get" RPC method; the RPC form
// accepts the same parameters as a JSON body.
func (h *LayoutHandler) GetFieldsLayout(w http.ResponseWriter, r *http.Request) {
	doctype := chi.URLParam(r, "doctype")
	layoutType := r.URL.Query().Get("type")
	parentDoctype := r.URL.Query().Get("parent_doctype")
	h.resolve(r.Context(), w, doctype, layoutType, parentDoctype)
}

// GetFieldsLayoutRPC is the RPC-dispatch form of GetFieldsLayout.
// POST body: {"doctype": ..., "type": ..., "parent_doctype": ...}
func (h *LayoutHandler) GetFieldsLayoutRPC(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Doctype       string `json:"doctype"`
		Type          string `json:"type"`
		ParentDoctype string `json:"parent_doctype"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	h.resolve(r.Context(), w, req.Doctype, req.Type, req.ParentDoctype)
}

func (h *LayoutHandler) resolve(ctx context.Context, w http.ResponseWriter, doctype, layoutType, parentDoctype string) {
	if doctype == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "doctype is required")
		return
	}
	tabs, err := h.resolver.Resolve(ctx, doctype, layoutType, parentDoctype)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tabs)
}

// SaveLayout stores a layout override for a (doctype, type) pair.
// PUT /v1/layouts/{doctype}
// Body: {"type": ..., "layout": <tree JSON>}
func (h *LayoutHandler) SaveLayout(w http.ResponseWriter, r *http.Request) {
	doctype := chi.URLParam(r, "doctype")
	var req struct {
		Type   string `json:"type"`
		Layout string `json:"layout"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if doctype == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "doctype and type are required")
		return
	}
	// Reject trees that would fail to parse on the read path.
	if _, err := layout.ParseTree([]byte(req.Layout)); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_LAYOUT", err.Error())
		return
	}

	rec := &layout.Record{Doctype: doctype, Type: req.Type, Layout: req.Layout}
	if err := h.layouts.Put(r.Context(), rec); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if h.recorder != nil {
		// Event recording is best-effort; the layout is already saved.
		if err := h.recorder.Record(r.Context(), event.NewLayoutUpdated(doctype, req.Type)); err != nil {
			log.Error("recording layout event failed", "doctype", doctype, "type", req.Type, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, rec)
}
