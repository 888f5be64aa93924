package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/lethang/crmmeta/internal/event"
)

// UpdatesHandler streams metadata and layout change events to WebSocket
// clients. It subscribes to the event bus and fans events out to every
// connected client; slow clients have events dropped rather than blocking
// the bus consumer.
type UpdatesHandler struct {
	mu      sync.Mutex
	clients map[chan event.Event]struct{}
}

// NewUpdatesHandler creates an UpdatesHandler. Register it on the event bus
// with HandleEvent as the subscriber.
func NewUpdatesHandler() *UpdatesHandler {
	return &UpdatesHandler{clients: make(map[chan event.Event]struct{})}
}

// HandleEvent fans an event out to all connected clients.
func (h *UpdatesHandler) HandleEvent(_ context.Context, evt event.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			log.Warn("updates client lagging, dropping event", "type", evt.Type)
		}
	}
	return nil
}

func (h *UpdatesHandler) register() chan event.Event {
	ch := make(chan event.Event, 32)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *UpdatesHandler) unregister(ch chan event.Event) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// ServeHTTP upgrades to WebSocket and streams events until the client
// disconnects.
// GET /ws/updates
func (h *UpdatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	ch := h.register()
	defer h.unregister(ch)

	ctx := r.Context()

	// Reader goroutine: the client sends nothing we act on, but reading
	// detects disconnects and handles control frames.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt := <-ch:
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				log.Debug("updates write failed", "err", err)
				return
			}
		case <-readDone:
			return
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
	}
}
