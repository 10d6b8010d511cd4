package service

import (
	"context"
	"fmt"
	"time"

	"github.com/0Bleak/order-service/internal/messaging"
	"github.com/0Bleak/order-service/internal/models"
	"github.com/0Bleak/order-service/internal/repository"
	"go.uber.org/zap"
)

type InventoryService interface {
	AddStock(ctx context.Context, productID, quantity uint32) (models.StockLevel, error)
	RemoveStock(ctx context.Context, productID, quantity uint32) (bool, error)
	CheckStock(ctx context.Context, productID uint32) (uint32, error)
	Lookup(ctx context.Context, productID uint32) (uint32, bool, error)
	List(ctx context.Context) ([]models.StockLevel, error)
}

type inventoryService struct {
	repo     repository.InventoryRepository
	producer messaging.Publisher
	logger   *zap.Logger
}

func NewInventoryService(repo repository.InventoryRepository, producer messaging.Publisher, logger *zap.Logger) InventoryService {
	return &inventoryService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

func (s *inventoryService) AddStock(ctx context.Context, productID, quantity uint32) (models.StockLevel, error) {
	if productID == 0 {
		return models.StockLevel{}, fmt.Errorf("%w: product id is required", ErrValidation)
	}

	if err := s.repo.AddStock(ctx, productID, quantity); err != nil {
		return models.StockLevel{}, fmt.Errorf("failed to add stock for product %d: %w", productID, err)
	}

	onHand, err := s.repo.CheckStock(ctx, productID)
	if err != nil {
		return models.StockLevel{}, fmt.Errorf("failed to read stock for product %d: %w", productID, err)
	}

	s.publish(ctx, models.EventInventoryStocked, productID, quantity, onHand)
	return models.StockLevel{ProductID: productID, Quantity: onHand}, nil
}

// RemoveStock reports false, with no error, when the product is unknown or
// short of quantity.
func (s *inventoryService) RemoveStock(ctx context.Context, productID, quantity uint32) (bool, error) {
	ok, err := s.repo.RemoveStock(ctx, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("failed to remove stock for product %d: %w", productID, err)
	}
	if !ok {
		return false, nil
	}

	onHand, err := s.repo.CheckStock(ctx, productID)
	if err != nil {
		s.logger.Warn("failed to read stock after removal", zap.Uint32("product_id", productID), zap.Error(err))
	}
	s.publish(ctx, models.EventInventoryRemoved, productID, quantity, onHand)
	return true, nil
}

func (s *inventoryService) CheckStock(ctx context.Context, productID uint32) (uint32, error) {
	return s.repo.CheckStock(ctx, productID)
}

// Lookup also reports whether the product was ever stocked, which
// CheckStock folds into a zero quantity.
func (s *inventoryService) Lookup(ctx context.Context, productID uint32) (uint32, bool, error) {
	return s.repo.Lookup(ctx, productID)
}

func (s *inventoryService) List(ctx context.Context) ([]models.StockLevel, error) {
	return s.repo.List(ctx)
}

func (s *inventoryService) publish(ctx context.Context, eventType string, productID, quantity, onHand uint32) {
	event := &models.InventoryEvent{
		Type:      eventType,
		ProductID: productID,
		Quantity:  quantity,
		OnHand:    onHand,
		Timestamp: time.Now().UTC(),
	}

	if err := s.producer.PublishInventoryEvent(ctx, event); err != nil {
		s.logger.Error("failed to publish inventory event", zap.String("type", eventType), zap.Error(err))
	}
}
