package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail/backoffice/internal/domain/shared"
)

func newMockStockBatchRepository(t *testing.T) (*GormStockBatchRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormStockBatchRepository(gormDB), mock, mockDB
}

func TestGormStockBatchRepository_ListActiveByProduct(t *testing.T) {
	t.Run("orders by expiry with nulls last and receipt time as tiebreak", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		receivedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		expiry := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{
			"id", "product_id", "batch_number", "quantity", "unit_cost",
			"expiry_date", "received_at",
		}).
			AddRow(uuid.New(), productID, "PO-1", decimal.NewFromInt(10), decimal.NewFromInt(1000), expiry, receivedAt).
			AddRow(uuid.New(), productID, "PO-2", decimal.NewFromInt(5), decimal.NewFromInt(1200), nil, receivedAt.Add(time.Hour))

		mock.ExpectQuery(`SELECT \* FROM "stock_batches" WHERE product_id = \$1 AND quantity > 0 ORDER BY expiry_date ASC NULLS LAST, received_at ASC, created_at ASC`).
			WithArgs(productID).
			WillReturnRows(rows)

		batches, err := repo.ListActiveByProduct(context.Background(), productID)

		assert.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, "PO-1", batches[0].BatchNumber)
		require.NotNil(t, batches[0].ExpiryDate)
		assert.Nil(t, batches[1].ExpiryDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when nothing is active", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_batches" WHERE product_id = \$1 AND quantity > 0`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "batch_number", "quantity", "unit_cost", "received_at"}))

		batches, err := repo.ListActiveByProduct(context.Background(), productID)

		assert.NoError(t, err)
		assert.Empty(t, batches)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockBatchRepository_Decrement(t *testing.T) {
	t.Run("decrements when the batch holds enough stock", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "stock_batches" SET "quantity"=quantity - \$1.* WHERE id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Decrement(context.Background(), uuid.New(), decimal.NewFromInt(5))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrInsufficientBatchStock when the guard rejects", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "stock_batches" SET "quantity"=quantity - \$1.* WHERE id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Decrement(context.Background(), uuid.New(), decimal.NewFromInt(50))

		assert.ErrorIs(t, err, shared.ErrInsufficientBatchStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockBatchRepository_FindByID(t *testing.T) {
	t.Run("returns ErrNotFound for missing batch", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		batch, err := repo.FindByID(context.Background(), batchID)

		assert.Nil(t, batch)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
