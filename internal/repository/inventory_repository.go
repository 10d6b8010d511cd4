package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/jmoiron/sqlx"
)

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// AddStock upserts the row. The WHERE on the conflict branch refuses a sum
// that would not fit in uint32, in which case no row comes back.
func (r *inventoryRepository) AddStock(ctx context.Context, productID, quantity uint32) error {
	query := `
		INSERT INTO inventory (product_id, quantity, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE
		SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		WHERE inventory.quantity + EXCLUDED.quantity <= $4
		RETURNING quantity
	`

	var onHand int64
	err := r.db.QueryRowContext(ctx, query, productID, quantity, time.Now(), int64(math.MaxUint32)).Scan(&onHand)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %d: %w", productID, models.ErrStockOverflow)
	}
	if err != nil {
		return fmt.Errorf("failed to add stock: %w", err)
	}

	return nil
}

func (r *inventoryRepository) RemoveStock(ctx context.Context, productID, quantity uint32) (bool, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity - $1, updated_at = $2
		WHERE product_id = $3 AND quantity >= $1
	`

	result, err := r.db.ExecContext(ctx, query, quantity, time.Now(), productID)
	if err != nil {
		return false, fmt.Errorf("failed to remove stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *inventoryRepository) CheckStock(ctx context.Context, productID uint32) (uint32, error) {
	quantity, _, err := r.Lookup(ctx, productID)
	return quantity, err
}

func (r *inventoryRepository) Lookup(ctx context.Context, productID uint32) (uint32, bool, error) {
	var quantity uint32
	query := `SELECT quantity FROM inventory WHERE product_id = $1`

	err := r.db.GetContext(ctx, &quantity, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to check stock: %w", err)
	}

	return quantity, true, nil
}

func (r *inventoryRepository) List(ctx context.Context) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	query := `SELECT product_id, quantity FROM inventory ORDER BY product_id`

	if err := r.db.SelectContext(ctx, &levels, query); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	return levels, nil
}
