package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/0Bleak/order-service/internal/models"
)

// The memory repositories back STORAGE_DRIVER=memory and the demo command.
// They hand out copies so callers never share state with the store.

type memoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint32
	users  map[uint32]models.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[uint32]models.User)}
}

func (r *memoryUserRepository) NextID(ctx context.Context) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID, nil
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID()]; exists {
		return fmt.Errorf("user %d: %w", user.ID(), ErrDuplicate)
	}
	r.users[user.ID()] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uint32) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return &user, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID()]; !ok {
		return fmt.Errorf("user %d: %w", user.ID(), ErrNotFound)
	}
	r.users[user.ID()] = *user
	return nil
}

type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[uint32]models.Product
}

func NewMemoryProductRepository() ProductRepository {
	return &memoryProductRepository{products: make(map[uint32]models.Product)}
}

func (r *memoryProductRepository) Create(ctx context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID()]; exists {
		return fmt.Errorf("product %d: %w", product.ID(), ErrDuplicate)
	}
	r.products[product.ID()] = product
	return nil
}

func (r *memoryProductRepository) FindByID(ctx context.Context, id uint32) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return product, nil
}

func (r *memoryProductRepository) FindAll(ctx context.Context, limit, offset int64) ([]models.Product, error) {
	r.mu.RLock()
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	r.mu.RUnlock()

	sort.Slice(products, func(i, j int) bool {
		return products[i].ID() < products[j].ID()
	})
	return page(products, limit, offset), nil
}

// memoryInventoryRepository adapts models.Inventory, which already does its
// own locking.
type memoryInventoryRepository struct {
	inventory *models.Inventory
}

func NewMemoryInventoryRepository(inventory *models.Inventory) InventoryRepository {
	return &memoryInventoryRepository{inventory: inventory}
}

func (r *memoryInventoryRepository) AddStock(ctx context.Context, productID, quantity uint32) error {
	return r.inventory.AddStock(productID, quantity)
}

func (r *memoryInventoryRepository) RemoveStock(ctx context.Context, productID, quantity uint32) (bool, error) {
	return r.inventory.RemoveStock(productID, quantity), nil
}

func (r *memoryInventoryRepository) CheckStock(ctx context.Context, productID uint32) (uint32, error) {
	return r.inventory.CheckStock(productID), nil
}

func (r *memoryInventoryRepository) Lookup(ctx context.Context, productID uint32) (uint32, bool, error) {
	quantity, ok := r.inventory.Lookup(productID)
	return quantity, ok, nil
}

func (r *memoryInventoryRepository) List(ctx context.Context) ([]models.StockLevel, error) {
	return r.inventory.Snapshot(), nil
}

type memoryOrderRepository struct {
	mu     sync.RWMutex
	nextID uint32
	orders map[uint32]*models.Order
}

func NewMemoryOrderRepository() OrderRepository {
	return &memoryOrderRepository{orders: make(map[uint32]*models.Order)}
}

func (r *memoryOrderRepository) NextID(ctx context.Context) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID, nil
}

func (r *memoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID()]; exists {
		return fmt.Errorf("order %d: %w", order.ID(), ErrDuplicate)
	}
	r.orders[order.ID()] = order.Clone()
	return nil
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id uint32) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return order.Clone(), nil
}

func (r *memoryOrderRepository) FindByUserID(ctx context.Context, userID uint32) ([]*models.Order, error) {
	r.mu.RLock()
	var orders []*models.Order
	for _, order := range r.orders {
		if user := order.User(); user.ID() == userID {
			orders = append(orders, order.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID() < orders[j].ID()
	})
	return orders, nil
}

func (r *memoryOrderRepository) Save(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID()]; !ok {
		return fmt.Errorf("order %d: %w", order.ID(), ErrNotFound)
	}
	r.orders[order.ID()] = order.Clone()
	return nil
}

func page[T any](items []T, limit, offset int64) []T {
	if offset >= int64(len(items)) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}
