package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storefront/backoffice/internal/config"
	"github.com/storefront/backoffice/internal/events"
)

func TestNotificationHandle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewNotificationService(zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/sales",
	})
	ctx := context.Background()

	require.NoError(t, svc.Handle(ctx, events.Event{Type: events.EventSaleCreated, EntityID: "sale-1"}))
	assert.Equal(t, 1, logs.FilterMessage("SaleCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())

	require.NoError(t, svc.Handle(ctx, events.Event{Type: events.EventCustomerRegistered, EntityID: "c-1"}))
	require.NoError(t, svc.Handle(ctx, events.Event{Type: events.EventProductCreated, EntityID: "p-1"}))
	assert.Equal(t, 1, logs.FilterMessage("CustomerRegistered").Len())
	assert.Equal(t, 1, logs.FilterMessage("ProductCreated").Len())

	assert.Error(t, svc.Handle(ctx, events.Event{Type: "unknown"}))
}

func TestNotificationStubsDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewNotificationService(zap.New(core), config.NotificationConfig{})

	require.NoError(t, svc.Handle(context.Background(), events.Event{Type: events.EventSaleCreated}))
	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
}
