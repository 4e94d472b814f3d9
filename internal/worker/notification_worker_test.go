package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storefront/backoffice/internal/config"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/service"
)

func TestNotificationWorkerDeliversAsync(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(service.NewNotificationService(logger, config.NotificationConfig{}), logger, 8)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx, dispatcher)

	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e1", Type: events.EventSaleCreated, EntityID: "s1"}))
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e2", Type: events.EventProductCreated, EntityID: "p1"}))

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("SaleCreated").Len() == 1 && logs.FilterMessage("ProductCreated").Len() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	w.Wait()
}

func TestNotificationWorkerDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(service.NewNotificationService(logger, config.NotificationConfig{}), logger, 1)
	// not started: the queue is never drained
	dispatcher.SubscribeAll(w.enqueue)

	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e1", Type: events.EventSaleCreated}))
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e2", Type: events.EventSaleCreated}))

	assert.Equal(t, 1, logs.FilterMessage("notification queue full; dropping event").Len())
}

func TestNotificationWorkerDrainsOnShutdown(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	w := NewNotificationWorker(service.NewNotificationService(logger, config.NotificationConfig{}), logger, 4)
	_ = w.enqueue(context.Background(), events.Event{Type: events.EventCustomerRegistered, EntityID: "c1"})
	_ = w.enqueue(context.Background(), events.Event{Type: events.EventCustomerRegistered, EntityID: "c2"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx, events.NewInMemoryDispatcher())
	w.Wait()

	assert.Equal(t, 2, logs.FilterMessage("CustomerRegistered").Len())
}
