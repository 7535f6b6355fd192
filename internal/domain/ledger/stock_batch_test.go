package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail/backoffice/internal/domain/shared"
)

func TestNewStockBatch(t *testing.T) {
	productID := uuid.New()

	t.Run("creates batch with valid inputs", func(t *testing.T) {
		expiry := time.Now().Add(48 * time.Hour)
		batch, err := NewStockBatch(productID, "B-001", decimal.NewFromInt(10), decimal.NewFromInt(1000), &expiry, time.Now())

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, batch.ID)
		assert.Equal(t, productID, batch.ProductID)
		assert.Equal(t, "B-001", batch.BatchNumber)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, batch.UnitCost.Equal(decimal.NewFromInt(1000)))
		assert.True(t, batch.IsActive())
		assert.Nil(t, batch.DerivedFromBatchID)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockBatch(productID, "B-002", decimal.Zero, decimal.NewFromInt(100), nil, time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects negative unit cost", func(t *testing.T) {
		_, err := NewStockBatch(productID, "B-003", decimal.NewFromInt(5), decimal.NewFromInt(-1), nil, time.Now())
		require.Error(t, err)
		assert.Equal(t, "INVALID_UNIT_COST", shared.DomainErrorCode(err))
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewStockBatch(uuid.Nil, "B-004", decimal.NewFromInt(5), decimal.NewFromInt(100), nil, time.Now())
		assert.Error(t, err)
	})
}

func TestNewDerivedBatch(t *testing.T) {
	expiry := time.Now().Add(72 * time.Hour)
	source, err := NewStockBatch(uuid.New(), "BULK-7", decimal.NewFromInt(20), decimal.NewFromInt(24000), &expiry, time.Now())
	require.NoError(t, err)

	targetProductID := uuid.New()
	derived, err := NewDerivedBatch(targetProductID, source, decimal.NewFromInt(24), decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.Equal(t, targetProductID, derived.ProductID)
	assert.Equal(t, "BULK-7-R", derived.BatchNumber)
	require.NotNil(t, derived.DerivedFromBatchID)
	assert.Equal(t, source.ID, *derived.DerivedFromBatchID)
	require.NotNil(t, derived.ExpiryDate)
	assert.True(t, derived.ExpiryDate.Equal(expiry), "expiry must be inherited from source")
	assert.True(t, derived.UnitCost.Equal(decimal.NewFromInt(1000)))
}

func TestStockBatchTake(t *testing.T) {
	batch, err := NewStockBatch(uuid.New(), "B-010", decimal.NewFromInt(10), decimal.NewFromInt(500), nil, time.Now())
	require.NoError(t, err)

	t.Run("takes partial quantity", func(t *testing.T) {
		require.NoError(t, batch.Take(decimal.NewFromInt(4)))
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, batch.IsActive())
	})

	t.Run("drains to zero and becomes inactive", func(t *testing.T) {
		require.NoError(t, batch.Take(decimal.NewFromInt(6)))
		assert.True(t, batch.Quantity.IsZero())
		assert.False(t, batch.IsActive())
	})

	t.Run("rejects overdraw", func(t *testing.T) {
		err := batch.Take(decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrInsufficientBatchStock)
		assert.True(t, batch.Quantity.IsZero(), "failed take must not change quantity")
	})
}

func TestSortBatchesFEFO(t *testing.T) {
	productID := uuid.New()
	now := time.Now()

	mustBatch := func(number string, expiry *time.Time, receivedAt time.Time) *StockBatch {
		b, err := NewStockBatch(productID, number, decimal.NewFromInt(5), decimal.NewFromInt(100), expiry, receivedAt)
		require.NoError(t, err)
		return b
	}

	t.Run("orders by expiry then receipt with nulls last", func(t *testing.T) {
		expA := now.Add(48 * time.Hour)
		expC := now.Add(24 * time.Hour)

		a := mustBatch("A", &expA, now.Add(-3*time.Hour))
		b := mustBatch("B", nil, now.Add(-2*time.Hour))
		c := mustBatch("C", &expC, now.Add(-1*time.Hour))

		batches := []*StockBatch{a, b, c}
		SortBatchesFEFO(batches)

		assert.Equal(t, "C", batches[0].BatchNumber)
		assert.Equal(t, "A", batches[1].BatchNumber)
		assert.Equal(t, "B", batches[2].BatchNumber)
	})

	t.Run("ties on expiry broken by receipt time", func(t *testing.T) {
		exp := now.Add(24 * time.Hour)

		later := mustBatch("LATER", &exp, now.Add(-1*time.Hour))
		earlier := mustBatch("EARLIER", &exp, now.Add(-5*time.Hour))

		batches := []*StockBatch{later, earlier}
		SortBatchesFEFO(batches)

		assert.Equal(t, "EARLIER", batches[0].BatchNumber)
		assert.Equal(t, "LATER", batches[1].BatchNumber)
	})

	t.Run("all without expiry fall back to FIFO", func(t *testing.T) {
		first := mustBatch("FIRST", nil, now.Add(-10*time.Hour))
		second := mustBatch("SECOND", nil, now.Add(-5*time.Hour))

		batches := []*StockBatch{second, first}
		SortBatchesFEFO(batches)

		assert.Equal(t, "FIRST", batches[0].BatchNumber)
	})
}
