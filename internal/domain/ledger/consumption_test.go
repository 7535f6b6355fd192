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

func testBatch(t *testing.T, productID uuid.UUID, number string, qty, cost int64, expiry *time.Time, receivedAt time.Time) *StockBatch {
	t.Helper()
	b, err := NewStockBatch(productID, number, decimal.NewFromInt(qty), decimal.NewFromInt(cost), expiry, receivedAt)
	require.NoError(t, err)
	return b
}

func TestPlanDeduction(t *testing.T) {
	productID := uuid.New()
	now := time.Now()

	t.Run("spans batches in order", func(t *testing.T) {
		b1 := testBatch(t, productID, "B1", 10, 1000, nil, now.Add(-2*time.Hour))
		b2 := testBatch(t, productID, "B2", 10, 1200, nil, now.Add(-1*time.Hour))

		plan, err := PlanDeduction(decimal.NewFromInt(15), []*StockBatch{b1, b2})
		require.NoError(t, err)
		require.Len(t, plan, 2)

		assert.Equal(t, "B1", plan[0].BatchNumber)
		assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, plan[0].UnitCost.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, ConsumptionBatchBacked, plan[0].Kind)

		assert.Equal(t, "B2", plan[1].BatchNumber)
		assert.True(t, plan[1].Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, plan[1].UnitCost.Equal(decimal.NewFromInt(1200)))

		assert.True(t, plan.TotalQuantity().Equal(decimal.NewFromInt(15)))
		assert.True(t, plan.TotalCost().Equal(decimal.NewFromInt(16000)), "10x1000 + 5x1200")
	})

	t.Run("single batch covers the whole quantity", func(t *testing.T) {
		b := testBatch(t, productID, "B-ONLY", 10, 500, nil, now)

		plan, err := PlanDeduction(decimal.NewFromInt(3), []*StockBatch{b})
		require.NoError(t, err)
		require.Len(t, plan, 1)
		assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("insufficient total plans nothing", func(t *testing.T) {
		b1 := testBatch(t, productID, "B1", 4, 100, nil, now)
		b2 := testBatch(t, productID, "B2", 3, 100, nil, now)

		plan, err := PlanDeduction(decimal.NewFromInt(8), []*StockBatch{b1, b2})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Nil(t, plan)
		assert.True(t, b1.Quantity.Equal(decimal.NewFromInt(4)), "planning must not mutate batches")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := PlanDeduction(decimal.Zero, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

		_, err = PlanDeduction(decimal.NewFromInt(-2), nil)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("no batches at all is insufficient", func(t *testing.T) {
		_, err := PlanDeduction(decimal.NewFromInt(1), nil)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("fefo order flows through to the plan", func(t *testing.T) {
		expA := now.Add(48 * time.Hour)
		expC := now.Add(24 * time.Hour)

		a := testBatch(t, productID, "A", 5, 100, &expA, now.Add(-3*time.Hour))
		b := testBatch(t, productID, "B", 5, 100, nil, now.Add(-2*time.Hour))
		c := testBatch(t, productID, "C", 5, 100, &expC, now.Add(-1*time.Hour))

		batches := []*StockBatch{a, b, c}
		SortBatchesFEFO(batches)

		plan, err := PlanDeduction(decimal.NewFromInt(12), batches)
		require.NoError(t, err)
		require.Len(t, plan, 3)
		assert.Equal(t, "C", plan[0].BatchNumber)
		assert.Equal(t, "A", plan[1].BatchNumber)
		assert.Equal(t, "B", plan[2].BatchNumber)
		assert.True(t, plan[2].Quantity.Equal(decimal.NewFromInt(2)), "last batch only partially drained")
	})
}

func TestConsumptionListCosting(t *testing.T) {
	t.Run("weighted unit cost rounds to 4 places", func(t *testing.T) {
		plan := ConsumptionList{
			{Kind: ConsumptionBatchBacked, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(1000)},
			{Kind: ConsumptionBatchBacked, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(1200)},
		}

		assert.True(t, plan.TotalCost().Equal(decimal.NewFromInt(16000)))
		// 16000 / 15 = 1066.6667 after rounding
		assert.True(t, plan.WeightedUnitCost().Equal(decimal.NewFromFloat(1066.6667)))
	})

	t.Run("empty list costs zero", func(t *testing.T) {
		var plan ConsumptionList
		assert.True(t, plan.TotalCost().IsZero())
		assert.True(t, plan.WeightedUnitCost().IsZero())
	})

	t.Run("unbatched slice priced uniformly", func(t *testing.T) {
		plan := ConsumptionList{NewUnbatchedConsumption(decimal.NewFromInt(4), decimal.NewFromInt(250))}

		assert.True(t, plan.TotalCost().Equal(decimal.NewFromInt(1000)))
		assert.Nil(t, plan[0].BatchID)
		assert.Equal(t, ConsumptionUnbatched, plan[0].Kind)
	})
}

func TestMovementsFromPlan(t *testing.T) {
	storeID := uuid.New()
	productID := uuid.New()
	batchID := uuid.New()

	plan := ConsumptionList{
		{Kind: ConsumptionBatchBacked, BatchID: &batchID, BatchNumber: "B1", Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(100)},
		NewUnbatchedConsumption(decimal.NewFromInt(2), decimal.NewFromInt(80)),
	}

	movements, err := MovementsFromPlan(storeID, productID, MovementSale, plan, "SO-1")
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.Equal(t, MovementSale, movements[0].Type)
	assert.Equal(t, &batchID, movements[0].BatchID)
	assert.True(t, movements[0].TotalCost.Equal(decimal.NewFromInt(300)))

	assert.Nil(t, movements[1].BatchID)
	assert.True(t, movements[1].TotalCost.Equal(decimal.NewFromInt(160)))
	assert.Equal(t, "SO-1", movements[1].Reference)
}
