package analysis

import (
	"math"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

const daysPerYear = 365

// safeInputs are the clamped values the formulas run on.
type safeInputs struct {
	SystemStock float64
	ActualStock float64
	UnitCost    float64
	MinStock    float64
	MaxStock    float64
	LeadTime    float64
	AvgDemand   float64
}

// MetricCalculator derives per-product inventory metrics.
type MetricCalculator struct {
	params Params
}

// NewMetricCalculator creates a calculator using the given parameters.
func NewMetricCalculator(params Params) *MetricCalculator {
	return &MetricCalculator{params: params}
}

func clamp(p domain.Product) safeInputs {
	in := safeInputs{
		SystemStock: math.Max(0, float64(p.SystemStock)),
		ActualStock: math.Max(0, float64(p.ActualStock)),
		UnitCost:    math.Max(0, finite(p.UnitCost)),
		MinStock:    math.Max(1, float64(p.MinStock)),
		LeadTime:    math.Max(1, float64(p.LeadTime)),
		AvgDemand:   math.Max(1, finite(p.AvgDemand)),
	}

	// A missing max stock defaults to ten above the minimum, anything else is floored at min+1.
	maxStock := float64(p.MaxStock)
	if maxStock <= 0 {
		maxStock = in.MinStock + 10
	}
	in.MaxStock = math.Max(in.MinStock+1, maxStock)

	return in
}

// Calculate computes every per-item metric except the batch-level ABC fields.
func (mc *MetricCalculator) Calculate(p domain.Product) domain.Analysis {
	in := clamp(p)
	a := domain.Analysis{Product: p}

	// 1. Variance between count and records
	a.Variance = int(in.ActualStock - in.SystemStock)
	if in.SystemStock > 0 {
		a.VariancePercentage = float64(a.Variance) / in.SystemStock * 100
	}
	a.VarianceValue = float64(a.Variance) * in.UnitCost

	// 2. Inventory value
	a.InventoryValue = in.ActualStock * in.UnitCost

	// 3. Safety stock = ceil(d × √L × z)
	a.SafetyStock = int(math.Ceil(in.AvgDemand * math.Sqrt(in.LeadTime) * mc.params.ServiceLevelZ))

	// 4. Reorder point = d × L + safety stock
	a.ReorderPoint = in.AvgDemand*in.LeadTime + float64(a.SafetyStock)

	// 5. Annual demand and EOQ = √(2DS / H)
	a.AnnualDemand = in.AvgDemand * daysPerYear
	holdingCost := math.Max(1, in.UnitCost*mc.params.HoldingCostRate)
	a.EOQ = int(math.Ceil(math.Sqrt(2 * a.AnnualDemand * mc.params.OrderingCost / holdingCost)))

	// 6. Turnover
	if p.ActualStock > 0 {
		a.TurnoverRatio = a.AnnualDemand / float64(p.ActualStock)
	}

	// 7. Stock status
	a.StockStatus = ClassifyStock(p.ActualStock, p.MinStock, p.MaxStock, a.ReorderPoint)

	return a
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
