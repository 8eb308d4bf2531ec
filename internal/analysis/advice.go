package analysis

import (
	"fmt"
	"math"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// Timeframes used in urgency advice.
const (
	TimeframeImmediate = "Immediate"
	TimeframeOneDay    = "Within 1 day"
	TimeframeTwoDays   = "Within 2 days"
	TimeframeOneWeek   = "Within 1 week"
	TimeframeTenDays   = "Within 10 days"
	TimeframeTwoWeeks  = "Within 2 weeks"
	TimeframeOneMonth  = "Within 1 month"
)

// Advice is the advisory text attached to an urgency item.
type Advice struct {
	Reason    string
	Action    string
	Timeframe string
}

// Advise returns the advisory text for an item given its urgency level.
func Advise(item domain.Analysis, level domain.UrgencyLevel) Advice {
	switch item.StockStatus {
	case domain.StatusOutOfStock:
		return Advice{
			Reason:    "Out of stock! Immediate action required.",
			Action:    fmt.Sprintf("Order at least %d units now!", item.EOQ),
			Timeframe: TimeframeImmediate,
		}
	case domain.StatusLowStock:
		if level == domain.UrgencyCritical {
			return Advice{
				Reason:    "Low stock on a critical item, stockout is imminent.",
				Action:    fmt.Sprintf("Order %d units today.", item.EOQ),
				Timeframe: TimeframeOneDay,
			}
		}
		return Advice{
			Reason:    "Low stock, approaching minimum levels.",
			Action:    fmt.Sprintf("Consider ordering %d units.", item.EOQ),
			Timeframe: TimeframeOneWeek,
		}
	case domain.StatusReorder:
		if level == domain.UrgencyCritical {
			return Advice{
				Reason:    "Critical item has reached its reorder point.",
				Action:    fmt.Sprintf("Place an order for %d units immediately.", item.EOQ),
				Timeframe: TimeframeTwoDays,
			}
		}
		return Advice{
			Reason:    "Stock at reorder level, plan immediate restock.",
			Action:    fmt.Sprintf("Place an order for %d units.", item.EOQ),
			Timeframe: TimeframeTenDays,
		}
	case domain.StatusOverstock:
		// CRITICAL shares the HIGH timeframe.
		if level.AtLeast(domain.UrgencyHigh) {
			return Advice{
				Reason:    "Overstock on a high-value item is tying up capital.",
				Action:    "Run promotions or redistribute inventory.",
				Timeframe: TimeframeTwoWeeks,
			}
		}
		return Advice{
			Reason:    "Overstock situation, reduce holding costs.",
			Action:    "Run promotions or redistribute inventory.",
			Timeframe: TimeframeOneMonth,
		}
	}

	return Advice{Timeframe: TimeframeOneMonth}
}

// BuildActionPlan returns the detailed remediation checklist for an analyzed item.
func BuildActionPlan(item domain.Analysis) domain.ActionPlan {
	plan := domain.ActionPlan{
		ProductID: item.ID,
		Code:      item.Code,
		Name:      item.Name,
		Status:    item.StockStatus,
	}

	switch item.StockStatus {
	case domain.StatusOutOfStock:
		plan.Title = "EMERGENCY ORDER REQUIRED"
		plan.Facts = []string{
			"Status: OUT OF STOCK - no inventory available",
			fmt.Sprintf("Recommended order quantity (EOQ): %d units", item.EOQ),
			fmt.Sprintf("Estimated lead time: %d days", item.LeadTime),
		}
		plan.Steps = []string{
			"Contact supplier now",
			fmt.Sprintf("Place emergency order for %d units", item.EOQ),
			"Check if customers can wait",
			"Consider substitute products",
		}
	case domain.StatusReorder:
		plan.Title = "REORDER ACTION REQUIRED"
		plan.Facts = []string{
			fmt.Sprintf("Current stock: %d units", item.ActualStock),
			fmt.Sprintf("Reorder point: %s units", FormatIDNumber(item.ReorderPoint, 2)),
			fmt.Sprintf("Recommended order quantity (EOQ): %d units", item.EOQ),
			fmt.Sprintf("Lead time: %d days", item.LeadTime),
		}
		plan.Steps = []string{
			fmt.Sprintf("Place order for %d units within 10 days", item.EOQ),
			"Monitor daily consumption",
			"Contact supplier to confirm delivery",
			"Update inventory forecasts",
		}
	case domain.StatusLowStock:
		in := clamp(item.Product)
		plan.Title = "LOW STOCK WARNING"
		plan.Facts = []string{
			fmt.Sprintf("Current stock: %d units", item.ActualStock),
			fmt.Sprintf("Minimum stock: %d units", item.MinStock),
			fmt.Sprintf("Shortfall: %d units", item.MinStock-item.ActualStock),
			fmt.Sprintf("Estimated days until stockout: ~%d days", int(math.Floor(in.ActualStock/in.AvgDemand))),
		}
		plan.Steps = []string{
			"Monitor consumption closely",
			fmt.Sprintf("Consider ordering %d units soon", item.EOQ),
			"Set up automatic alerts",
			"Review demand patterns",
			"Check supplier availability",
		}
	case domain.StatusOverstock:
		excess := item.ActualStock - item.MaxStock
		plan.Title = "OVERSTOCK SITUATION"
		plan.Facts = []string{
			fmt.Sprintf("Current stock: %d units", item.ActualStock),
			fmt.Sprintf("Maximum stock: %d units", item.MaxStock),
			fmt.Sprintf("Overstock amount: %d units", excess),
			fmt.Sprintf("Tied capital: %s", FormatIDR(float64(excess)*item.UnitCost)),
		}
		plan.Steps = []string{
			"Run promotional campaign (20-30% discount)",
			"Transfer inventory to other locations",
			"Bundle with complementary products",
			"Contact sales team for bulk deals",
			"Reduce future order quantities",
			"Consider liquidation if aging",
		}
	default:
		plan.Title = "NO ACTION REQUIRED"
		plan.Facts = []string{fmt.Sprintf("Current stock: %d units", item.ActualStock)}
	}

	return plan
}
