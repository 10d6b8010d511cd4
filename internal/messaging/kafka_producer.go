package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/segmentio/kafka-go"
)

// Publisher emits domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error
	PublishInventoryEvent(ctx context.Context, event *models.InventoryEvent) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaProducer struct {
	writer         messageWriter
	orderTopic     string
	inventoryTopic string
}

// NewKafkaProducer builds a producer whose writer has no fixed topic; each
// message carries its own.
func NewKafkaProducer(brokers []string, orderTopic, inventoryTopic string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}

	return newKafkaProducer(writer, orderTopic, inventoryTopic)
}

func newKafkaProducer(writer messageWriter, orderTopic, inventoryTopic string) *kafkaProducer {
	return &kafkaProducer{
		writer:         writer,
		orderTopic:     orderTopic,
		inventoryTopic: inventoryTopic,
	}
}

func (p *kafkaProducer) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	key := strconv.FormatUint(uint64(event.OrderID), 10)
	if err := p.publish(ctx, p.orderTopic, key, event.Type, event.Timestamp, event); err != nil {
		return fmt.Errorf("failed to write order event to kafka: %w", err)
	}
	return nil
}

func (p *kafkaProducer) PublishInventoryEvent(ctx context.Context, event *models.InventoryEvent) error {
	key := strconv.FormatUint(uint64(event.ProductID), 10)
	if err := p.publish(ctx, p.inventoryTopic, key, event.Type, event.Timestamp, event); err != nil {
		return fmt.Errorf("failed to write inventory event to kafka: %w", err)
	}
	return nil
}

func (p *kafkaProducer) publish(ctx context.Context, topic, key, eventType string, ts time.Time, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", eventType, err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  ts,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, message)
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}
