package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backoffice/internal/events"
)

// publishEvent stamps and dispatches an event. Delivery failures never fail
// the operation that produced the event.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
