package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestInventoryRepository_AddStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory")).
		WithArgs(uint32(1), uint32(5), sqlmock.AnyArg(), int64(math.MaxUint32)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))

	require.NoError(t, repo.AddStock(context.Background(), 1, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_AddStockOverflow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inventory")).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}))

	err := repo.AddStock(context.Background(), 1, math.MaxUint32)
	assert.ErrorIs(t, err, models.ErrStockOverflow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_RemoveStock(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "enough stock", affected: 1, want: true},
		{name: "insufficient stock", affected: 0, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewInventoryRepository(db)

			mock.ExpectExec(regexp.QuoteMeta("WHERE product_id = $3 AND quantity >= $1")).
				WithArgs(uint32(3), sqlmock.AnyArg(), uint32(1)).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			ok, err := repo.RemoveStock(context.Background(), 1, 3)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInventoryRepository_RemoveStockError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE inventory")).WillReturnError(errors.New("connection reset"))

	ok, err := repo.RemoveStock(context.Background(), 1, 3)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestInventoryRepository_Lookup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantity FROM inventory")).
		WithArgs(uint32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantity FROM inventory")).
		WithArgs(uint32(2)).
		WillReturnError(sql.ErrNoRows)

	quantity, found, err := repo.Lookup(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint32(0), quantity)

	quantity, err = repo.CheckStock(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_id, quantity FROM inventory")).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).AddRow(1, 5).AddRow(2, 0))

	levels, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.StockLevel{{ProductID: 1, Quantity: 5}, {ProductID: 2, Quantity: 0}}, levels)
}
