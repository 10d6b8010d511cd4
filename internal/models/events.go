package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusUpdated = "order.status_updated"

	EventInventoryStocked = "inventory.stocked"
	EventInventoryRemoved = "inventory.removed"

	EventShipmentDispatched = "shipment.dispatched"
	EventShipmentDelivered  = "shipment.delivered"
	EventPaymentFailed      = "payment.failed"
)

type OrderEvent struct {
	Type      string          `json:"type"`
	OrderID   uint32          `json:"order_id"`
	UserID    uint32          `json:"user_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Timestamp time.Time       `json:"timestamp"`
}

type InventoryEvent struct {
	Type      string    `json:"type"`
	ProductID uint32    `json:"product_id"`
	Quantity  uint32    `json:"quantity"`
	OnHand    uint32    `json:"on_hand"`
	Timestamp time.Time `json:"timestamp"`
}

// FulfillmentEvent is consumed from the shipping and payment side.
type FulfillmentEvent struct {
	Type      string    `json:"type"`
	OrderID   uint32    `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewOrderEvent(eventType string, order *Order) *OrderEvent {
	user := order.User()
	return &OrderEvent{
		Type:      eventType,
		OrderID:   order.ID(),
		UserID:    user.ID(),
		Status:    order.Status().String(),
		Total:     order.CalculateTotal(),
		ItemCount: order.ItemCount(),
		Timestamp: time.Now().UTC(),
	}
}

// StatusFor maps a fulfillment event to the order status it implies.
func (e *FulfillmentEvent) StatusFor() (OrderStatus, bool) {
	switch e.Type {
	case EventShipmentDispatched:
		return StatusShipped, true
	case EventShipmentDelivered:
		return StatusDelivered, true
	case EventPaymentFailed:
		return StatusCancelled, true
	default:
		return 0, false
	}
}
