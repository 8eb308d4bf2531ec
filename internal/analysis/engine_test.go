package analysis

import (
	"errors"
	"testing"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := NewEngine(DefaultParams())
	require.NoError(t, err)
	return engine
}

func TestEngine_RunKeepsInputOrder(t *testing.T) {
	products := mixedBatch()

	result := newTestEngine(t).Run(products)

	require.Len(t, result.Analysis, len(products))
	for i, p := range products {
		assert.Equal(t, p.ID, result.Analysis[i].ID)
	}
	assert.False(t, result.Fallback)
}

func TestEngine_RunIsIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	products := mixedBatch()

	first := engine.Run(products)
	second := engine.Run(products)

	assert.Equal(t, first, second)
}

func TestEngine_RunSummary(t *testing.T) {
	result := newTestEngine(t).Run(mixedBatch())

	s := result.Summary
	assert.Equal(t, 4, s.TotalProducts)
	assert.InDelta(t, 5700000, s.TotalInventoryValue, 1e-6)
	// only the out-of-stock item has a variance: 4 units at 100000
	assert.InDelta(t, 400000, s.TotalVarianceValue, 1e-6)
	assert.InDelta(t, 75, s.AccuracyRate, 1e-9)
	assert.Equal(t, 1, s.LowStockItems)
	assert.Equal(t, 1, s.OverstockItems)
	assert.Equal(t, 0, s.ReorderItems)
}

func TestEngine_EmptyInput(t *testing.T) {
	result, err := newTestEngine(t).Analyze(nil)

	require.NoError(t, err)
	assert.Empty(t, result.Analysis)
	assert.Empty(t, result.Urgency)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, 0, result.Summary.TotalProducts)
	assert.Equal(t, 100.0, result.Summary.AccuracyRate)
}

func TestEngine_LowStockScenario(t *testing.T) {
	result, err := newTestEngine(t).Analyze([]domain.Product{
		{ID: "p", Name: "Sabun", SystemStock: 30, ActualStock: 8, MinStock: 15, MaxStock: 50, LeadTime: 7, AvgDemand: 6},
	})

	require.NoError(t, err)
	require.Len(t, result.Urgency, 1)
	assert.Equal(t, domain.StatusLowStock, result.Urgency[0].StockStatus)
	require.NotNil(t, result.Urgency[0].DaysUntilStockout)
	assert.Equal(t, 1, *result.Urgency[0].DaysUntilStockout)

	var types []domain.RecommendationType
	for _, r := range result.Recommendations {
		types = append(types, r.Type)
	}
	assert.Contains(t, types, domain.RecommendationUrgent)
	assert.Contains(t, types, domain.RecommendationAudit)
}

func TestNewEngine_RejectsInvalidParams(t *testing.T) {
	params := DefaultParams()
	params.Weights.StockCriticality = 0.9

	_, err := NewEngine(params)

	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestFallback(t *testing.T) {
	result := Fallback(7)

	assert.True(t, result.Fallback)
	assert.Empty(t, result.Analysis)
	assert.Empty(t, result.Urgency)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, domain.Summary{TotalProducts: 7, AccuracyRate: 100}, result.Summary)
}

func TestEngine_AnalyzeRecoversFromPanic(t *testing.T) {
	engine := newTestEngine(t)
	engine.calculate = func(p domain.Product) domain.Analysis {
		if p.Code == "B" {
			panic("division by zero")
		}
		return domain.Analysis{Product: p}
	}

	products := []domain.Product{{Code: "A"}, {Code: "B"}, {Code: "C"}}
	result, err := engine.Analyze(products)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrComputation))
	assert.Contains(t, err.Error(), "division by zero")
	assert.Equal(t, Fallback(len(products)), result)
	assert.True(t, result.Fallback)
	assert.Equal(t, 3, result.Summary.TotalProducts)
}

func TestEngine_AnalyzeWithoutFailure(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Analyze([]domain.Product{{Code: "A", Name: "Item A", SystemStock: 10, ActualStock: 10, UnitCost: 1000}})

	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Len(t, result.Analysis, 1)
}
