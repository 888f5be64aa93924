package event

import (
	"context"
	"database/sql"
	"fmt"
)

// Recorder persists domain events.
type Recorder interface {
	Record(ctx context.Context, evt Event) error
}

// Publisher sends domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// StoreRecorder implements Recorder against the events table. If a
// Publisher is attached, the event is published after the write succeeds.
type StoreRecorder struct {
	db  *sql.DB
	bus Publisher
}

// NewStoreRecorder creates a StoreRecorder.
func NewStoreRecorder(db *sql.DB) *StoreRecorder {
	return &StoreRecorder{db: db}
}

// SetPublisher attaches an event bus. Events are published after store writes.
func (r *StoreRecorder) SetPublisher(p Publisher) {
	r.bus = p
}

func (r *StoreRecorder) Record(ctx context.Context, evt Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, type, doctype, layout_type, occurred_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.Type, evt.Doctype, evt.LayoutType, evt.OccurredAt, []byte(evt.Payload))
	if err != nil {
		return fmt.Errorf("recording event %s: %w", evt.Type, err)
	}
	if r.bus != nil {
		r.bus.Publish(ctx, evt)
	}
	return nil
}

// BusRecorder implements Recorder by publishing without persistence.
// Intended for demos and testing.
type BusRecorder struct {
	bus Publisher
}

// NewBusRecorder creates a BusRecorder.
func NewBusRecorder(bus Publisher) *BusRecorder {
	return &BusRecorder{bus: bus}
}

func (r *BusRecorder) Record(ctx context.Context, evt Event) error {
	if r.bus != nil {
		r.bus.Publish(ctx, evt)
	}
	return nil
}
