package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// FulfillmentEventHandler applies shipping and payment outcomes to orders.
type FulfillmentEventHandler interface {
	HandleFulfillmentEvent(ctx context.Context, event *models.FulfillmentEvent) error
}

type KafkaConsumer interface {
	ConsumeFulfillmentEvents(ctx context.Context, handler FulfillmentEventHandler) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type kafkaConsumer struct {
	reader messageReader
	logger *zap.Logger
}

func NewKafkaConsumer(brokers []string, topic, groupID string, logger *zap.Logger) KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})

	return &kafkaConsumer{
		reader: reader,
		logger: logger,
	}
}

// ConsumeFulfillmentEvents blocks until ctx is cancelled or the reader
// fails. Malformed messages and handler errors are logged and skipped.
func (c *kafkaConsumer) ConsumeFulfillmentEvents(ctx context.Context, handler FulfillmentEventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		event, err := decodeFulfillmentEvent(msg)
		if err != nil {
			c.logger.Warn("dropping fulfillment message", zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}

		c.logger.Info("received fulfillment event",
			zap.String("type", event.Type),
			zap.Uint32("order_id", event.OrderID),
		)

		if err := handler.HandleFulfillmentEvent(ctx, event); err != nil {
			c.logger.Error("failed to handle fulfillment event",
				zap.String("type", event.Type),
				zap.Uint32("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	}
}

func decodeFulfillmentEvent(msg kafka.Message) (*models.FulfillmentEvent, error) {
	var event models.FulfillmentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fulfillment event: %w", err)
	}
	if event.Type == "" {
		for _, h := range msg.Headers {
			if h.Key == "event-type" {
				event.Type = string(h.Value)
			}
		}
	}
	if event.OrderID == 0 {
		return nil, errors.New("fulfillment event has no order_id")
	}
	return &event, nil
}

func (c *kafkaConsumer) Close() error {
	return c.reader.Close()
}
