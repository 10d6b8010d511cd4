package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/0Bleak/order-service/internal/messaging"
	"github.com/0Bleak/order-service/internal/models"
	"github.com/0Bleak/order-service/internal/repository"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id uint32) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint32) ([]*models.Order, error)
	AddProduct(ctx context.Context, orderID uint32, req *models.AddItemRequest) (*models.Order, error)
	RemoveProduct(ctx context.Context, orderID, productID uint32) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint32, status models.OrderStatus) (*models.Order, error)
	PlaceOrder(ctx context.Context, orderID uint32) (*models.Order, error)
	HandleFulfillmentEvent(ctx context.Context, event *models.FulfillmentEvent) error
}

type orderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	producer  messaging.Publisher
	logger    *zap.Logger
	locks     *keyedMutex
}

func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	inventory repository.InventoryRepository,
	producer messaging.Publisher,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		users:     users,
		products:  products,
		inventory: inventory,
		producer:  producer,
		logger:    logger,
		locks:     newKeyedMutex(),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	id, err := s.orders.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order id: %w", err)
	}

	order := models.NewOrder(id, *user)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish(ctx, models.EventOrderCreated, order)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint32) (*models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *orderService) ListByUser(ctx context.Context, userID uint32) ([]*models.Order, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.FindByUserID(ctx, userID)
}

// AddProduct resolves the product from the catalog and appends a line.
// Lines can only change before the order is placed.
func (s *orderService) AddProduct(ctx context.Context, orderID uint32, req *models.AddItemRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	return s.mutate(ctx, orderID, models.EventOrderUpdated, func(order *models.Order) (func(), error) {
		if err := requirePending(order); err != nil {
			return nil, err
		}
		return nil, order.AddProduct(product, req.Quantity)
	})
}

func (s *orderService) RemoveProduct(ctx context.Context, orderID, productID uint32) (*models.Order, error) {
	return s.mutate(ctx, orderID, models.EventOrderUpdated, func(order *models.Order) (func(), error) {
		if err := requirePending(order); err != nil {
			return nil, err
		}
		return nil, order.RemoveProduct(productID)
	})
}

// UpdateStatus applies a manual transition. A pending order only leaves
// Pending through PlaceOrder or by being cancelled, and a placed order
// cannot go back to Pending. Cancelling a placed order returns its stock.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uint32, status models.OrderStatus) (*models.Order, error) {
	return s.mutate(ctx, orderID, models.EventOrderStatusUpdated, func(order *models.Order) (func(), error) {
		return s.transition(ctx, order, status)
	})
}

// PlaceOrder takes stock for every line. If any line cannot be filled the
// stock already taken is put back and the order is cancelled.
func (s *orderService) PlaceOrder(ctx context.Context, orderID uint32) (*models.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requirePending(order); err != nil {
		return nil, err
	}
	if order.ItemCount() == 0 {
		return nil, fmt.Errorf("%w: order %d", models.ErrEmptyOrder, orderID)
	}

	items := order.Items()
	for i, item := range items {
		ok, err := s.inventory.RemoveStock(ctx, item.Product.ID(), item.Quantity)
		if err != nil {
			s.restock(ctx, orderID, items[:i])
			return nil, fmt.Errorf("failed to reserve stock for order %d: %w", orderID, err)
		}
		if ok {
			continue
		}

		s.restock(ctx, orderID, items[:i])
		if err := order.UpdateStatus(models.StatusCancelled); err != nil {
			return nil, err
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to save order: %w", err)
		}
		s.publish(ctx, models.EventOrderStatusUpdated, order)

		s.logger.Warn("order cancelled for lack of stock",
			zap.Uint32("order_id", orderID),
			zap.Uint32("product_id", item.Product.ID()),
			zap.Uint32("quantity", item.Quantity),
		)
		return nil, fmt.Errorf("%w: product %d (%s) x%d, order %d cancelled",
			ErrInsufficientStock, item.Product.ID(), item.Product.Name(), item.Quantity, orderID)
	}

	if err := order.UpdateStatus(models.StatusProcessing); err != nil {
		s.restock(ctx, orderID, items)
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		s.restock(ctx, orderID, items)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.publish(ctx, models.EventOrderStatusUpdated, order)
	s.logger.Info("order placed",
		zap.Uint32("order_id", orderID),
		zap.String("total", order.CalculateTotal().StringFixed(2)),
	)
	return order, nil
}

func (s *orderService) HandleFulfillmentEvent(ctx context.Context, event *models.FulfillmentEvent) error {
	status, ok := event.StatusFor()
	if !ok {
		return fmt.Errorf("unknown fulfillment event type: %s", event.Type)
	}

	_, err := s.mutate(ctx, event.OrderID, models.EventOrderStatusUpdated, func(order *models.Order) (func(), error) {
		return s.transition(ctx, order, status)
	})
	if err != nil {
		return fmt.Errorf("failed to apply %s to order %d: %w", event.Type, event.OrderID, err)
	}
	return nil
}

// mutate loads an order under its lock, applies fn, saves and publishes.
// The action fn returns, if any, runs only once the save has succeeded.
func (s *orderService) mutate(ctx context.Context, orderID uint32, eventType string, fn func(*models.Order) (func(), error)) (*models.Order, error) {
	unlock := s.locks.Lock(orderID)
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	afterSave, err := fn(order)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if afterSave != nil {
		afterSave()
	}
	s.publish(ctx, eventType, order)
	return order, nil
}

// transition moves order to next. Stock is taken only by PlaceOrder, so an
// order holds stock exactly while it is Processing or Shipped; the checks
// here keep that true for manual and event-driven transitions.
func (s *orderService) transition(ctx context.Context, order *models.Order, next models.OrderStatus) (func(), error) {
	current := order.Status()
	switch {
	case !next.IsValid():
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownStatus, int(next))
	case current == models.StatusPending && next != models.StatusPending && next != models.StatusCancelled:
		return nil, fmt.Errorf("%w: order %d must be placed before it can be %s", models.ErrInvalidStatus, order.ID(), next)
	case holdsStock(current) && next == models.StatusPending:
		return nil, fmt.Errorf("%w: order %d is %s and cannot return to pending", models.ErrInvalidStatus, order.ID(), current)
	}

	if err := order.UpdateStatus(next); err != nil {
		return nil, err
	}

	if next == models.StatusCancelled && holdsStock(current) {
		items := order.Items()
		return func() { s.restock(ctx, order.ID(), items) }, nil
	}
	return nil, nil
}

func (s *orderService) restock(ctx context.Context, orderID uint32, items []models.LineItem) {
	for _, item := range items {
		if err := s.inventory.AddStock(ctx, item.Product.ID(), item.Quantity); err != nil {
			s.logger.Error("failed to return stock",
				zap.Uint32("order_id", orderID),
				zap.Uint32("product_id", item.Product.ID()),
				zap.Uint32("quantity", item.Quantity),
				zap.Error(err),
			)
		}
	}
}

func (s *orderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if err := s.producer.PublishOrderEvent(ctx, models.NewOrderEvent(eventType, order)); err != nil {
		s.logger.Error("failed to publish order event",
			zap.String("type", eventType),
			zap.Uint32("order_id", order.ID()),
			zap.Error(err),
		)
	}
}

func requirePending(order *models.Order) error {
	if order.Status() != models.StatusPending {
		return fmt.Errorf("%w: order %d is %s", models.ErrInvalidStatus, order.ID(), order.Status())
	}
	return nil
}

// holdsStock reports whether an order in status s has had its stock taken.
func holdsStock(s models.OrderStatus) bool {
	return s == models.StatusProcessing || s == models.StatusShipped
}

// IsConflict reports whether err is a state conflict rather than bad input.
func IsConflict(err error) bool {
	return errors.Is(err, models.ErrInvalidStatus) ||
		errors.Is(err, models.ErrEmptyOrder) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, models.ErrStockOverflow) ||
		errors.Is(err, repository.ErrDuplicate)
}
