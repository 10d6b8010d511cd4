package repository

import (
	"context"
	"errors"

	"github.com/0Bleak/order-service/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type UserRepository interface {
	NextID(ctx context.Context) (uint32, error)
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint32) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type ProductRepository interface {
	Create(ctx context.Context, product models.Product) error
	FindByID(ctx context.Context, id uint32) (models.Product, error)
	FindAll(ctx context.Context, limit, offset int64) ([]models.Product, error)
}

// InventoryRepository stores stock levels. RemoveStock must be atomic: it
// either takes the full quantity or leaves the stock untouched.
type InventoryRepository interface {
	AddStock(ctx context.Context, productID, quantity uint32) error
	RemoveStock(ctx context.Context, productID, quantity uint32) (bool, error)
	CheckStock(ctx context.Context, productID uint32) (uint32, error)
	Lookup(ctx context.Context, productID uint32) (uint32, bool, error)
	List(ctx context.Context) ([]models.StockLevel, error)
}

type OrderRepository interface {
	NextID(ctx context.Context) (uint32, error)
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint32) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uint32) ([]*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}
