package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type orderRow struct {
	ID          uint32          `db:"id"`
	UserID      uint32          `db:"user_id"`
	UserName    string          `db:"user_name"`
	UserEmail   string          `db:"user_email"`
	UserAddress string          `db:"user_address"`
	Status      string          `db:"status"`
	Total       decimal.Decimal `db:"total"`
}

type orderItemRow struct {
	OrderID            uint32          `db:"order_id"`
	Position           int             `db:"position"`
	ProductID          uint32          `db:"product_id"`
	ProductName        string          `db:"product_name"`
	ProductPrice       decimal.Decimal `db:"product_price"`
	ProductDescription string          `db:"product_description"`
	Quantity           uint32          `db:"quantity"`
}

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) NextID(ctx context.Context) (uint32, error) {
	var id uint32
	if err := r.db.GetContext(ctx, &id, `SELECT nextval('order_ids')`); err != nil {
		return 0, fmt.Errorf("failed to allocate order id: %w", err)
	}
	return id, nil
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	user := order.User()
	query := `
		INSERT INTO orders (id, user_id, user_name, user_email, user_address, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()
		_, err := tx.ExecContext(
			ctx,
			query,
			order.ID(),
			user.ID(),
			user.Name(),
			user.Email(),
			user.Address(),
			order.Status().String(),
			order.CalculateTotal(),
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return insertItems(ctx, tx, order)
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint32) (*models.Order, error) {
	var row orderRow
	query := `SELECT id, user_id, user_name, user_email, user_address, status, total FROM orders WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	var items []orderItemRow
	itemsQuery := `
		SELECT order_id, position, product_id, product_name, product_price, product_description, quantity
		FROM order_items WHERE order_id = $1 ORDER BY position
	`
	if err := r.db.SelectContext(ctx, &items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to find order items: %w", err)
	}

	return restore(row, items)
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID uint32) ([]*models.Order, error) {
	var ids []uint32
	query := `SELECT id FROM orders WHERE user_id = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to find orders by user: %w", err)
	}

	orders := make([]*models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Save writes status and total and replaces the stored line items.
func (r *orderRepository) Save(ctx context.Context, order *models.Order) error {
	query := `UPDATE orders SET status = $1, total = $2, updated_at = $3 WHERE id = $4`

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, order.Status().String(), order.CalculateTotal(), time.Now(), order.ID())
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("order %d: %w", order.ID(), ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID()); err != nil {
			return fmt.Errorf("failed to clear order items: %w", err)
		}

		return insertItems(ctx, tx, order)
	})
}

func (r *orderRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO order_items (order_id, position, product_id, product_name, product_price, product_description, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i, item := range order.Items() {
		_, err := tx.ExecContext(
			ctx,
			query,
			order.ID(),
			i,
			item.Product.ID(),
			item.Product.Name(),
			item.Product.Price(),
			item.Product.Description(),
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

func restore(row orderRow, itemRows []orderItemRow) (*models.Order, error) {
	user, err := models.NewUser(row.UserID, row.UserName, row.UserEmail, row.UserAddress)
	if err != nil {
		return nil, fmt.Errorf("stored order %d has invalid user: %w", row.ID, err)
	}

	status, err := models.ParseOrderStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("stored order %d: %w", row.ID, err)
	}

	items := make([]models.LineItem, 0, len(itemRows))
	for _, ir := range itemRows {
		product, err := models.NewProduct(ir.ProductID, ir.ProductName, ir.ProductPrice, ir.ProductDescription)
		if err != nil {
			return nil, fmt.Errorf("stored order %d: %w", row.ID, err)
		}
		items = append(items, models.LineItem{Product: product, Quantity: ir.Quantity})
	}

	order, err := models.RestoreOrder(row.ID, *user, items, status)
	if err != nil {
		return nil, err
	}
	if !order.CalculateTotal().Equal(row.Total) {
		return nil, fmt.Errorf("stored order %d: total %s does not match items %s", row.ID, row.Total, order.CalculateTotal())
	}
	return order, nil
}
