package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/service"
)

const defaultNotificationBuffer = 256

// NotificationWorker delivers notifications off the request path. Events are
// queued by a dispatcher subscription and drained by one goroutine.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
	queue         chan events.Event
	wg            sync.WaitGroup
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger, buffer int) *NotificationWorker {
	if buffer <= 0 {
		buffer = defaultNotificationBuffer
	}
	return &NotificationWorker{
		notifications: notifications,
		logger:        logger,
		queue:         make(chan events.Event, buffer),
	}
}

// Start subscribes to every event on dispatcher and processes the queue until
// ctx is done. Events still queued at that point are drained before Wait returns.
func (w *NotificationWorker) Start(ctx context.Context, dispatcher events.Dispatcher) {
	dispatcher.SubscribeAll(w.enqueue)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case event := <-w.queue:
				w.deliver(event)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Wait blocks until the worker goroutine has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

// enqueue never blocks the publisher; a full queue drops the event.
func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(event events.Event) {
	if err := w.notifications.Handle(context.Background(), event); err != nil {
		w.logger.Warn("notification failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
