package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is a (product, quantity) pair within an order.
type LineItem struct {
	Product  Product
	Quantity uint32
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.Subtotal(l.Quantity)
}

// Order owns the status state machine and the running total. The total is
// adjusted on every add and remove and is never recomputed from the items.
// An Order is not safe for concurrent mutation.
type Order struct {
	id     uint32
	user   User
	items  []LineItem
	status OrderStatus
	total  decimal.Decimal
}

// NewOrder creates a pending order holding its own copy of user.
func NewOrder(id uint32, user User) *Order {
	return &Order{
		id:     id,
		user:   user,
		status: StatusPending,
		total:  decimal.Zero,
	}
}

// RestoreOrder rebuilds an order from stored state by replaying the
// regular operations, so a restored order satisfies the same invariants.
func RestoreOrder(id uint32, user User, items []LineItem, status OrderStatus) (*Order, error) {
	order := NewOrder(id, user)
	for _, item := range items {
		if err := order.AddProduct(item.Product, item.Quantity); err != nil {
			return nil, fmt.Errorf("restore order %d: %w", id, err)
		}
	}
	if status != StatusPending {
		if err := order.UpdateStatus(status); err != nil {
			return nil, fmt.Errorf("restore order %d: %w", id, err)
		}
	}
	return order, nil
}

func (o *Order) ID() uint32 { return o.id }
func (o *Order) User() User { return o.user }
func (o *Order) Status() OrderStatus { return o.status }
func (o *Order) ItemCount() int { return len(o.items) }

// Items returns a copy of the line items in insertion order.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// AddProduct appends a line item. Stock is not checked here.
func (o *Order) AddProduct(product Product, quantity uint32) error {
	if quantity == 0 {
		return ErrInvalidQuantity
	}
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: order %d is %s", ErrInvalidStatus, o.id, o.status)
	}

	o.items = append(o.items, LineItem{Product: product, Quantity: quantity})
	o.total = o.total.Add(product.Subtotal(quantity))
	return nil
}

// RemoveProduct drops the first line item for productID.
func (o *Order) RemoveProduct(productID uint32) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: order %d is %s", ErrInvalidStatus, o.id, o.status)
	}

	for i, item := range o.items {
		if item.Product.ID() != productID {
			continue
		}
		o.total = o.total.Sub(item.Subtotal())
		o.items = append(o.items[:i], o.items[i+1:]...)
		return nil
	}

	return fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
}

func (o *Order) UpdateStatus(next OrderStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownStatus, int(next))
	}
	if !o.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, o.status, next)
	}

	o.status = next
	return nil
}

// CalculateTotal returns the running total.
func (o *Order) CalculateTotal() decimal.Decimal {
	return o.total
}

// Clone returns a deep copy that can be mutated independently.
func (o *Order) Clone() *Order {
	clone := *o
	clone.items = o.Items()
	return &clone
}

func (o *Order) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %d\n", o.id)
	fmt.Fprintf(&b, "Status: %s\n", o.status)
	b.WriteString("Customer:\n")
	b.WriteString(o.user.String())
	b.WriteString("\nProducts:\n")
	for _, item := range o.items {
		fmt.Fprintf(&b, "- %dx %s @ $%s\n", item.Quantity, item.Product.Name(), item.Product.Price().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s", o.total.StringFixed(2))
	return b.String()
}

func (o *Order) String() string {
	return o.Summary()
}

type lineItemJSON struct {
	Product  Product         `json:"product"`
	Quantity uint32          `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type orderJSON struct {
	ID     uint32          `json:"id"`
	User   User            `json:"user"`
	Items  []lineItemJSON  `json:"items"`
	Status OrderStatus     `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

func (o *Order) MarshalJSON() ([]byte, error) {
	items := make([]lineItemJSON, 0, len(o.items))
	for _, item := range o.items {
		items = append(items, lineItemJSON{
			Product:  item.Product,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}

	return json.Marshal(orderJSON{
		ID:     o.id,
		User:   o.user,
		Items:  items,
		Status: o.status,
		Total:  o.total,
	})
}
