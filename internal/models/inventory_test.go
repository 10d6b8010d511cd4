package models

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_RemoveScenario(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddStock(1, 5))

	assert.True(t, inv.RemoveStock(1, 3))
	assert.Equal(t, uint32(2), inv.CheckStock(1))

	assert.False(t, inv.RemoveStock(1, 3))
	assert.Equal(t, uint32(2), inv.CheckStock(1))
}

func TestInventory_UnknownProduct(t *testing.T) {
	inv := NewInventory()

	assert.Equal(t, uint32(0), inv.CheckStock(42))
	assert.False(t, inv.RemoveStock(42, 1))
	assert.False(t, inv.RemoveStock(42, 0))

	_, found := inv.Lookup(42)
	assert.False(t, found)
}

func TestInventory_LookupDistinguishesDepleted(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddStock(1, 2))
	require.True(t, inv.RemoveStock(1, 2))

	quantity, found := inv.Lookup(1)
	assert.True(t, found)
	assert.Equal(t, uint32(0), quantity)
}

func TestInventory_AddStockCreatesEntryAtZero(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddStock(3, 0))

	_, found := inv.Lookup(3)
	assert.True(t, found)
	assert.True(t, inv.RemoveStock(3, 0))
}

func TestInventory_AddStockOverflow(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddStock(1, math.MaxUint32-1))

	err := inv.AddStock(1, 2)

	assert.ErrorIs(t, err, ErrStockOverflow)
	assert.Equal(t, uint32(math.MaxUint32-1), inv.CheckStock(1))
	assert.NoError(t, inv.AddStock(1, 1))
}

func TestInventory_RandomSequenceNeverUnderflows(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	inv := NewInventory()
	require.NoError(t, inv.AddStock(1, 0))
	var expected uint32

	for i := 0; i < 1000; i++ {
		quantity := uint32(rng.Intn(10))
		if rng.Intn(2) == 0 {
			require.NoError(t, inv.AddStock(1, quantity))
			expected += quantity
		} else {
			ok := inv.RemoveStock(1, quantity)
			assert.Equal(t, quantity <= expected, ok)
			if ok {
				expected -= quantity
			}
		}
		assert.Equal(t, expected, inv.CheckStock(1))
	}
}

func TestInventory_ConcurrentRemovalsNeverOversell(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddStock(1, 100))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		removed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if inv.RemoveStock(1, 1) {
					mu.Lock()
					removed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, removed)
	assert.Equal(t, uint32(0), inv.CheckStock(1))
}

func TestInventory_SnapshotAndString(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddStock(2, 10))
	require.NoError(t, inv.AddStock(1, 5))

	assert.Equal(t, []StockLevel{{ProductID: 1, Quantity: 5}, {ProductID: 2, Quantity: 10}}, inv.Snapshot())
	assert.Equal(t, "Current Inventory:\nProduct ID: 1, Quantity: 5\nProduct ID: 2, Quantity: 10", inv.String())
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(1, "Laptop", decimal.RequireFromString("999.99"), "High-performance laptop")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name())
	assert.True(t, p.Subtotal(3).Equal(decimal.RequireFromString("2999.97")))
	assert.Contains(t, p.String(), "Price: $999.99")

	_, err = NewProduct(2, "Refund", decimal.NewFromInt(-1), "")
	assert.ErrorIs(t, err, ErrNegativePrice)

	free, err := NewProduct(3, "Sticker", decimal.Zero, "")
	require.NoError(t, err)
	assert.True(t, free.Price().IsZero())
}
