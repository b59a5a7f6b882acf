package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pos-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain and alert events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSaleCommitted publishes a SaleCommitted event
func (ep *EventPublisher) PublishSaleCommitted(ctx context.Context, event *models.SaleCommittedEvent) error {
	key := fmt.Sprintf("sale-%d", event.SaleID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockAdjusted publishes a StockAdjusted event
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	key := fmt.Sprintf("stock-%s", event.SKU)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishLowStockAlert publishes a LowStockAlert event
func (ep *EventPublisher) PublishLowStockAlert(ctx context.Context, event *models.LowStockAlertEvent) error {
	key := fmt.Sprintf("stock-%s", event.Alert.SKU)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishLargeTransactionAlert publishes a LargeTransactionAlert event
func (ep *EventPublisher) PublishLargeTransactionAlert(ctx context.Context, event *models.LargeTransactionAlertEvent) error {
	key := fmt.Sprintf("sale-%d", event.Alert.SaleID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes consumed events to registered callbacks
type EventHandler struct {
	onLowStock         func(context.Context, *models.LowStockAlertEvent) error
	onLargeTransaction func(context.Context, *models.LargeTransactionAlertEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnLowStockAlert registers a handler for LowStockAlert events
func (eh *EventHandler) OnLowStockAlert(handler func(context.Context, *models.LowStockAlertEvent) error) {
	eh.onLowStock = handler
}

// OnLargeTransactionAlert registers a handler for LargeTransactionAlert events
func (eh *EventHandler) OnLargeTransactionAlert(handler func(context.Context, *models.LargeTransactionAlertEvent) error) {
	eh.onLargeTransaction = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeLowStock:
		if eh.onLowStock != nil {
			var event models.LowStockAlertEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LowStockAlert event: %w", err)
			}
			return eh.onLowStock(ctx, &event)
		}

	case models.EventTypeLargeTransaction:
		if eh.onLargeTransaction != nil {
			var event models.LargeTransactionAlertEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LargeTransactionAlert event: %w", err)
			}
			return eh.onLargeTransaction(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
