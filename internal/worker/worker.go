package worker

import (
	"context"
	"log"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/service"
)

// AlertWorker consumes alert events from the alert topic and hands them
// to the delivery notifier (email, SMS or log). Delivery lives here, in
// the background, so a slow or failing channel can never affect a
// checkout.
type AlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewAlertWorker creates a new alert worker delivering through sink
func NewAlertWorker(consumer *broker.Consumer, sink service.Notifier) *AlertWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnLowStockAlert(func(ctx context.Context, event *models.LowStockAlertEvent) error {
		return sink.NotifyLowStock(ctx, event.Alert)
	})
	eventHandler.OnLargeTransactionAlert(func(ctx context.Context, event *models.LargeTransactionAlertEvent) error {
		return sink.NotifyLargeTransaction(ctx, event.Alert)
	})

	return &AlertWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *AlertWorker) Start(ctx context.Context) error {
	log.Println("Starting alert worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AlertWorker) Stop() error {
	log.Println("Stopping alert worker...")
	return w.consumer.Close()
}
