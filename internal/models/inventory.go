package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// StockLevel is the quantity on hand for one product.
type StockLevel struct {
	ProductID uint32 `db:"product_id" json:"product_id"`
	Quantity  uint32 `db:"quantity" json:"quantity"`
}

// Inventory maps product ids to the quantity on hand. Quantities never go
// negative: a removal that would underflow is rejected in full. Entries are
// created on first addition and are never deleted. Safe for concurrent use.
type Inventory struct {
	mu    sync.RWMutex
	stock map[uint32]uint32
}

func NewInventory() *Inventory {
	return &Inventory{
		stock: make(map[uint32]uint32),
	}
}

// AddStock increments the quantity for productID. It fails with
// ErrStockOverflow, leaving stock unchanged, if the result would not fit.
func (inv *Inventory) AddStock(productID, quantity uint32) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	current := inv.stock[productID]
	if quantity > math.MaxUint32-current {
		return fmt.Errorf("product %d: %w", productID, ErrStockOverflow)
	}

	inv.stock[productID] = current + quantity
	return nil
}

// RemoveStock decrements the quantity for productID and returns true only
// if enough stock is on hand. Unknown products are never removed from.
func (inv *Inventory) RemoveStock(productID, quantity uint32) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	current, ok := inv.stock[productID]
	if !ok || current < quantity {
		return false
	}

	inv.stock[productID] = current - quantity
	return true
}

// CheckStock returns 0 for products that were never stocked.
func (inv *Inventory) CheckStock(productID uint32) uint32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	return inv.stock[productID]
}

// Lookup is CheckStock that also reports whether the product was ever stocked.
func (inv *Inventory) Lookup(productID uint32) (uint32, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	quantity, ok := inv.stock[productID]
	return quantity, ok
}

// Snapshot returns every stock level ordered by product id.
func (inv *Inventory) Snapshot() []StockLevel {
	inv.mu.RLock()
	levels := make([]StockLevel, 0, len(inv.stock))
	for id, quantity := range inv.stock {
		levels = append(levels, StockLevel{ProductID: id, Quantity: quantity})
	}
	inv.mu.RUnlock()

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ProductID < levels[j].ProductID
	})
	return levels
}

func (inv *Inventory) String() string {
	var b strings.Builder
	b.WriteString("Current Inventory:")
	for _, level := range inv.Snapshot() {
		fmt.Fprintf(&b, "\nProduct ID: %d, Quantity: %d", level.ProductID, level.Quantity)
	}
	return b.String()
}
