package analysis

import (
	"math"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// Summarize reduces an analyzed batch into report statistics in a single pass.
func Summarize(items []domain.Analysis, params Params) domain.Summary {
	s := domain.Summary{TotalProducts: len(items)}

	inaccurate := 0
	for _, item := range items {
		s.TotalInventoryValue += item.InventoryValue
		s.TotalVarianceValue += math.Abs(item.VarianceValue)

		if math.Abs(item.VariancePercentage) > params.AccuracyVariancePct {
			inaccurate++
		}

		switch item.StockStatus {
		case domain.StatusLowStock:
			s.LowStockItems++
		case domain.StatusOverstock:
			s.OverstockItems++
		case domain.StatusReorder:
			s.ReorderItems++
		}
	}

	s.AccuracyRate = 100
	if s.TotalProducts > 0 {
		s.AccuracyRate = float64(s.TotalProducts-inaccurate) / float64(s.TotalProducts) * 100
	}

	return s
}

// FallbackSummary is reported when a computation cycle fails: the raw product
// count with zeroed financials and a 100% accuracy placeholder.
func FallbackSummary(productCount int) domain.Summary {
	return domain.Summary{
		TotalProducts: productCount,
		AccuracyRate:  100,
	}
}
