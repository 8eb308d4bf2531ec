package analysis

import (
	"sort"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// ClassifyABC assigns ABC classes and cumulative percentages in place.
// Items are ranked by inventory value descending (ties keep input order),
// but the slice itself is never reordered.
func ClassifyABC(items []domain.Analysis, params Params) {
	order := make([]int, len(items))
	total := 0.0
	for i := range items {
		order[i] = i
		total += items[i].InventoryValue
	}

	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].InventoryValue > items[order[b]].InventoryValue
	})

	cumulative := 0.0
	for _, idx := range order {
		cumulative += items[idx].InventoryValue

		pct := 0.0
		if total > 0 {
			pct = cumulative / total * 100
		}

		items[idx].CumulativePercentage = pct
		items[idx].ABCClass = abcClassFor(pct, params)
	}
}

func abcClassFor(cumulativePct float64, params Params) domain.ABCClass {
	switch {
	case cumulativePct <= params.ClassAThreshold:
		return domain.ClassA
	case cumulativePct <= params.ClassBThreshold:
		return domain.ClassB
	default:
		return domain.ClassC
	}
}
