package analysis

import (
	"fmt"
	"math"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// Recommendation action tags.
const (
	ActionImmediateOrder   = "immediate_order"
	ActionReduceStock      = "reduce_stock"
	ActionInvestigate      = "investigate"
	ActionOptimizeStrategy = "optimize_strategy"
)

// Recommend scans analyzed items in input order. Each rule is evaluated
// independently, so one item can raise up to four recommendations.
func Recommend(items []domain.Analysis, params Params) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0)

	for _, item := range items {
		if item.StockStatus == domain.StatusLowStock {
			recs = append(recs, domain.Recommendation{
				Type:    domain.RecommendationUrgent,
				Product: item.Name,
				Message: fmt.Sprintf("Low stock! Order %d units (EOQ) of %s now", item.EOQ, item.Name),
				Action:  ActionImmediateOrder,
			})
		}
		if item.StockStatus == domain.StatusOverstock {
			recs = append(recs, domain.Recommendation{
				Type:    domain.RecommendationWarning,
				Product: item.Name,
				Message: fmt.Sprintf("Overstock detected for %s. Consider a promotion or redistribution", item.Name),
				Action:  ActionReduceStock,
			})
		}
		if math.Abs(item.VariancePercentage) > params.AuditVariancePct {
			recs = append(recs, domain.Recommendation{
				Type:    domain.RecommendationAudit,
				Product: item.Name,
				Message: fmt.Sprintf("Large variance (%.1f%%) on %s. A detailed audit is needed", item.VariancePercentage, item.Name),
				Action:  ActionInvestigate,
			})
		}
		if item.ABCClass == domain.ClassA && item.TurnoverRatio < params.SlowTurnoverRatio {
			recs = append(recs, domain.Recommendation{
				Type:    domain.RecommendationOptimization,
				Product: item.Name,
				Message: fmt.Sprintf("Class A item with low turnover: %s. Review the inventory strategy", item.Name),
				Action:  ActionOptimizeStrategy,
			})
		}
	}

	return recs
}
