package messaging

import (
	"context"

	"github.com/0Bleak/order-service/internal/models"
	"go.uber.org/zap"
)

// logPublisher is used when no Kafka brokers are configured. Events are
// written to the debug log instead.
type logPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) Publisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	p.logger.Debug("order event",
		zap.String("type", event.Type),
		zap.Uint32("order_id", event.OrderID),
		zap.String("status", event.Status),
		zap.String("total", event.Total.String()),
	)
	return nil
}

func (p *logPublisher) PublishInventoryEvent(ctx context.Context, event *models.InventoryEvent) error {
	p.logger.Debug("inventory event",
		zap.String("type", event.Type),
		zap.Uint32("product_id", event.ProductID),
		zap.Uint32("quantity", event.Quantity),
		zap.Uint32("on_hand", event.OnHand),
	)
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}
