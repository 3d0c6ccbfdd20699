package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/port"
	"analysis-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PropertySavedPublisherAdapter публикует события о сохраненных объектах
type PropertySavedPublisherAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewPropertySavedPublisherAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*PropertySavedPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &PropertySavedPublisherAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *PropertySavedPublisherAdapter) PublishPropertySaved(ctx context.Context, event port.SavedPropertyEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "PropertySavedPublisherAdapter",
		"routing_key": a.routingKey,
		"property_id": event.PropertyID.String(),
	})

	body, _ := json.Marshal(event)

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Для сохранения сообщений при перезапуске брокера
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// Устанавливаем таймаут на операцию публикации, если контекст его не предоставляет
	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := a.producer.Publish(publishCtx, a.routingKey, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish property saved event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event for property %s: %w", event.PropertyID, err)
	}

	adapterLogger.Info("Successfully published property saved event", port.Fields{"created": event.Created})
	return nil
}
