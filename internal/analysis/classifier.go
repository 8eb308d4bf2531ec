package analysis

import "github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"

const (
	// maxStockFallbackGap is used when the recorded max stock is not above the min stock.
	maxStockFallbackGap = 50
	// reorderFallbackGap is used when the reorder point is not above the min stock.
	reorderFallbackGap = 5
)

// ClassifyStock assigns the stock status. The first matching rule wins:
// out of stock, low stock, overstock, reorder, normal.
func ClassifyStock(actualStock, minStock, maxStock int, reorderPoint float64) domain.StockStatus {
	validMin := 0.0
	if minStock > 0 {
		validMin = float64(minStock)
	}

	validMax := validMin + maxStockFallbackGap
	if float64(maxStock) > validMin {
		validMax = float64(maxStock)
	}

	validReorder := validMin + reorderFallbackGap
	if reorderPoint > validMin {
		validReorder = reorderPoint
	}

	actual := float64(actualStock)
	switch {
	case actual <= 0:
		return domain.StatusOutOfStock
	case actual <= validMin:
		return domain.StatusLowStock
	case actual >= validMax:
		return domain.StatusOverstock
	case actual <= validReorder && validReorder > validMin:
		return domain.StatusReorder
	default:
		return domain.StatusNormal
	}
}
