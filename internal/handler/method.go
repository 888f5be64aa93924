package handler

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// MethodDispatcher routes dotted RPC method paths to named handlers. Path
// overrides come from configuration, so remapping a legacy method path to
// a different handler is a config change rather than a code change.
type MethodDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	routes   map[string]string
}

// NewMethodDispatcher creates an empty dispatcher.
func NewMethodDispatcher() *MethodDispatcher {
	return &MethodDispatcher{
		handlers: make(map[string]http.HandlerFunc),
		routes:   make(map[string]string),
	}
}

// RegisterHandler adds a named handler that method paths can be bound to.
func (d *MethodDispatcher) RegisterHandler(name string, h http.HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Bind maps a dotted method path to a registered handler name. Returns an
// error if no handler with that name exists.
func (d *MethodDispatcher) Bind(methodPath, handlerName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.handlers[handlerName]; !ok {
		return fmt.Errorf("unknown method handler %q for path %q", handlerName, methodPath)
	}
	d.routes[methodPath] = handlerName
	return nil
}

// Dispatch handles POST /api/method/{method}. Unknown method paths get a 404.
func (d *MethodDispatcher) Dispatch(w http.ResponseWriter, r *http.Request) {
	methodPath := chi.URLParam(r, "method")

	d.mu.RLock()
	name, ok := d.routes[methodPath]
	var h http.HandlerFunc
	if ok {
		h = d.handlers[name]
	}
	d.mu.RUnlock()

	if h == nil {
		writeError(w, http.StatusNotFound, "UNKNOWN_METHOD", fmt.Sprintf("no handler for method %q", methodPath))
		return
	}
	h(w, r)
}
