package analysis

import (
	"math"
	"testing"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newTestCalculator() *MetricCalculator {
	return NewMetricCalculator(DefaultParams())
}

func TestCalculate_VarianceAndValue(t *testing.T) {
	p := domain.Product{
		ID: "p1", SystemStock: 30, ActualStock: 8, UnitCost: 1500,
		MinStock: 15, MaxStock: 50, LeadTime: 7, AvgDemand: 6,
	}

	a := newTestCalculator().Calculate(p)

	assert.Equal(t, -22, a.Variance)
	assert.InDelta(t, -73.3333, a.VariancePercentage, 1e-3)
	assert.Equal(t, float64(-22*1500), a.VarianceValue)
	assert.Equal(t, float64(8*1500), a.InventoryValue)
	assert.Equal(t, float64(6*365), a.AnnualDemand)
	assert.InDelta(t, 2190.0/8, a.TurnoverRatio, 1e-9)
	assert.Equal(t, domain.StatusLowStock, a.StockStatus)
	assert.Equal(t, p, a.Product)
}

func TestCalculate_SafetyStockAndReorderPoint(t *testing.T) {
	// 5 × √7 × 1.65 = 21.83
	p := domain.Product{ActualStock: 40, MinStock: 10, MaxStock: 100, LeadTime: 7, AvgDemand: 5}

	a := newTestCalculator().Calculate(p)

	assert.Equal(t, 22, a.SafetyStock)
	assert.Equal(t, 57.0, a.ReorderPoint)
}

func TestCalculate_EOQ(t *testing.T) {
	tests := []struct {
		name     string
		unitCost float64
		demand   float64
		expected int
	}{
		// √(2 × 2920 × 50000 / 25000) = √11680 = 108.07
		{"regular item", 100000, 8, 109},
		// holding cost floors at 1: √(2 × 365 × 50000) = 6041.5
		{"zero cost item", 0, 1, 6042},
		// 0.25 × 2 = 0.5 is floored at 1 as well
		{"cheap item", 2, 1, 6042},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Product{ActualStock: 10, UnitCost: tt.unitCost, MinStock: 1, MaxStock: 20, LeadTime: 1, AvgDemand: tt.demand}
			assert.Equal(t, tt.expected, newTestCalculator().Calculate(p).EOQ)
		})
	}
}

func TestCalculate_DegenerateInput(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
	}{
		{"all zero", domain.Product{}},
		{"negative stocks", domain.Product{SystemStock: -10, ActualStock: -5, UnitCost: -3, MinStock: -1, MaxStock: -2, LeadTime: -4, AvgDemand: -7}},
		{"non-finite cost", domain.Product{ActualStock: 3, UnitCost: math.Inf(1), AvgDemand: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a domain.Analysis
			assert.NotPanics(t, func() { a = newTestCalculator().Calculate(tt.product) })

			// clamped demand and lead time of 1: ceil(1.65) = 2, 1 × 1 + 2 = 3
			assert.Equal(t, 2, a.SafetyStock)
			assert.Equal(t, 3.0, a.ReorderPoint)
			assert.GreaterOrEqual(t, a.InventoryValue, 0.0)
			assert.False(t, math.IsNaN(a.VariancePercentage))
			assert.False(t, math.IsInf(float64(a.EOQ), 0))
		})
	}
}

func TestCalculate_NegativeActualStockIsOutOfStock(t *testing.T) {
	a := newTestCalculator().Calculate(domain.Product{SystemStock: 10, ActualStock: -5, UnitCost: 100, MinStock: 2, MaxStock: 20, LeadTime: 1, AvgDemand: 1})

	assert.Equal(t, domain.StatusOutOfStock, a.StockStatus)
	assert.Equal(t, -10, a.Variance)
	assert.Equal(t, 0.0, a.InventoryValue)
	assert.Equal(t, 0.0, a.TurnoverRatio)
}

func TestCalculate_ZeroSystemStockHasNoVariancePercentage(t *testing.T) {
	a := newTestCalculator().Calculate(domain.Product{SystemStock: 0, ActualStock: 12, UnitCost: 10, MinStock: 1, MaxStock: 50, LeadTime: 1, AvgDemand: 1})

	assert.Equal(t, 12, a.Variance)
	assert.Equal(t, 0.0, a.VariancePercentage)
	assert.Equal(t, 120.0, a.VarianceValue)
}

func TestClamp_MaxStockDefaults(t *testing.T) {
	assert.Equal(t, 11.0, clamp(domain.Product{MinStock: 1}).MaxStock)
	assert.Equal(t, 16.0, clamp(domain.Product{MinStock: 15, MaxStock: 3}).MaxStock)
	assert.Equal(t, 70.0, clamp(domain.Product{MinStock: 15, MaxStock: 70}).MaxStock)
}
