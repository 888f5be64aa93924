// Package event provides domain events for metadata and layout changes.
// Events are recorded to the events table, then published on the in-process
// bus for downstream consumers (cache invalidation, update stream, logging).
package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeLayoutUpdated  = "layout.updated"
	TypeDoctypeUpdated = "doctype.updated"
)

// Event is one recorded change to a doctype or stored layout.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Doctype    string          `json:"doctype"`
	LayoutType string          `json:"layout_type,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewLayoutUpdated creates a layout.updated event.
func NewLayoutUpdated(doctype, layoutType string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       TypeLayoutUpdated,
		Doctype:    doctype,
		LayoutType: layoutType,
		OccurredAt: time.Now().UTC(),
	}
}

// NewDoctypeUpdated creates a doctype.updated event.
func NewDoctypeUpdated(doctype string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       TypeDoctypeUpdated,
		Doctype:    doctype,
		OccurredAt: time.Now().UTC(),
	}
}
