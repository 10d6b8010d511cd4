package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/jmoiron/sqlx"
)

type userRow struct {
	ID      uint32 `db:"id"`
	Name    string `db:"name"`
	Email   string `db:"email"`
	Address string `db:"address"`
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) NextID(ctx context.Context) (uint32, error) {
	var id uint32
	if err := r.db.GetContext(ctx, &id, `SELECT nextval('user_ids')`); err != nil {
		return 0, fmt.Errorf("failed to allocate user id: %w", err)
	}
	return id, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query, user.ID(), user.Name(), user.Email(), user.Address(), now, now)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint32) (*models.User, error) {
	var row userRow
	query := `SELECT id, name, email, address FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user, err := models.NewUser(row.ID, row.Name, row.Email, row.Address)
	if err != nil {
		return nil, fmt.Errorf("stored user %d is invalid: %w", id, err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = $1, email = $2, address = $3, updated_at = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, user.Name(), user.Email(), user.Address(), time.Now(), user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", user.ID(), ErrNotFound)
	}

	return nil
}
