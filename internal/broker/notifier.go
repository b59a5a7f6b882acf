package broker

import (
	"context"
	"time"

	"pos-service/internal/models"

	"github.com/google/uuid"
)

// KafkaNotifier publishes alerts onto the alert topic instead of
// delivering them inline. The alert worker consumes the topic and hands
// payloads to the delivery channel, keeping slow delivery out of the
// checkout path.
type KafkaNotifier struct {
	publisher *EventPublisher
}

// NewKafkaNotifier creates a notifier backed by the event publisher
func NewKafkaNotifier(publisher *EventPublisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher}
}

func (n *KafkaNotifier) NotifyLowStock(ctx context.Context, alert models.LowStockAlert) error {
	event := &models.LowStockAlertEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeLowStock,
			Timestamp: time.Now(),
		},
		Alert: alert,
	}
	return n.publisher.PublishLowStockAlert(ctx, event)
}

func (n *KafkaNotifier) NotifyLargeTransaction(ctx context.Context, alert models.LargeTransactionAlert) error {
	event := &models.LargeTransactionAlertEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeLargeTransaction,
			Timestamp: time.Now(),
		},
		Alert: alert,
	}
	return n.publisher.PublishLargeTransactionAlert(ctx, event)
}
