// Package eventbus provides an in-process pub/sub bus for domain events.
// Write paths publish after commit; subscribers (cache invalidation, the
// websocket update stream, logging) process asynchronously in a single
// consumer goroutine.
package eventbus

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lethang/crmmeta/internal/event"
)

// Handler processes a domain event. Implementations must be safe for
// concurrent calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.Event) error {
	return f(ctx, evt)
}

// Bus is a simple in-process event bus. Events are published to a buffered
// channel and dispatched to all subscribers from one consumer goroutine,
// which serialises processing and avoids concurrent-write surprises in
// subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan event.Event
	done        chan struct{}
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a new Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan event.Event, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Publish sends an event to the bus. Non-blocking; if the buffer is full
// the event is dropped and a warning is logged.
func (b *Bus) Publish(_ context.Context, evt event.Event) {
	select {
	case b.events <- evt:
	default:
		log.Warn("eventbus buffer full, dropping event", "type", evt.Type, "id", evt.ID)
	}
}

// Start begins the consumer goroutine. It processes events until the
// context is cancelled.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt := <-b.events:
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				// Drain remaining events before exiting.
				for {
					select {
					case evt := <-b.events:
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the consumer goroutine has finished.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt event.Event) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			log.Error("eventbus handler failed", "handler", s.name, "type", evt.Type, "err", err)
		}
	}
}
