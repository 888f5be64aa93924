package eventbus

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lethang/crmmeta/internal/event"
)

// LogConsumer logs all domain events for observability.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.Event) error {
	log.Info("event", "type", evt.Type, "doctype", evt.Doctype, "layout_type", evt.LayoutType, "id", evt.ID)
	return nil
}
