package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE SEQUENCE IF NOT EXISTS user_ids;

CREATE TABLE IF NOT EXISTS users (
	id BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	address TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE SEQUENCE IF NOT EXISTS order_ids;

CREATE TABLE IF NOT EXISTS orders (
	id BIGINT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	user_name VARCHAR(255) NOT NULL,
	user_email VARCHAR(255) NOT NULL,
	user_address TEXT NOT NULL,
	status VARCHAR(50) NOT NULL DEFAULT 'pending',
	total NUMERIC NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS order_items (
	order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	product_id BIGINT NOT NULL,
	product_name VARCHAR(255) NOT NULL,
	product_price NUMERIC NOT NULL CHECK (product_price >= 0),
	product_description TEXT NOT NULL DEFAULT '',
	quantity BIGINT NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (order_id, position)
);

CREATE TABLE IF NOT EXISTS inventory (
	product_id BIGINT PRIMARY KEY,
	quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0 AND quantity <= 4294967295),
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
