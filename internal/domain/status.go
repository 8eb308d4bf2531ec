package domain

import "strings"

// StockStatus is the stock condition of a counted product.
type StockStatus string

const (
	StatusOutOfStock StockStatus = "Out of Stock"
	StatusLowStock   StockStatus = "Low Stock"
	StatusOverstock  StockStatus = "Overstock"
	StatusReorder    StockStatus = "Reorder"
	StatusNormal     StockStatus = "Normal"
)

// ABCClass is the Pareto value tier of a product.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// UrgencyLevel is the discrete urgency band of a ranked item.
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "CRITICAL"
	UrgencyHigh     UrgencyLevel = "HIGH"
	UrgencyMedium   UrgencyLevel = "MEDIUM"
	UrgencyLow      UrgencyLevel = "LOW"
)

// RecommendationType groups advisory messages.
type RecommendationType string

const (
	RecommendationUrgent       RecommendationType = "urgent"
	RecommendationWarning      RecommendationType = "warning"
	RecommendationAudit        RecommendationType = "audit"
	RecommendationOptimization RecommendationType = "optimization"
)

var stockStatusCodes = map[string]StockStatus{
	"outofstock": StatusOutOfStock,
	"lowstock":   StatusLowStock,
	"overstock":  StatusOverstock,
	"reorder":    StatusReorder,
	"normal":     StatusNormal,
}

var urgencyRanks = map[UrgencyLevel]int{
	UrgencyLow:      1,
	UrgencyMedium:   2,
	UrgencyHigh:     3,
	UrgencyCritical: 4,
}

// ParseStockStatus returns the status for a label (case, space, dash and underscore insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	status, ok := stockStatusCodes[compactLabel(label)]

	return status, ok
}

// ParseABCClass returns the class for a label (case-insensitive).
func ParseABCClass(label string) (ABCClass, bool) {
	switch ABCClass(strings.ToUpper(strings.TrimSpace(label))) {
	case ClassA:
		return ClassA, true
	case ClassB:
		return ClassB, true
	case ClassC:
		return ClassC, true
	}

	return "", false
}

// ParseUrgencyLevel returns the level for a label (case-insensitive).
func ParseUrgencyLevel(label string) (UrgencyLevel, bool) {
	level := UrgencyLevel(strings.ToUpper(strings.TrimSpace(label)))
	_, ok := urgencyRanks[level]

	return level, ok
}

// AtLeast reports whether l is as urgent as other or more.
func (l UrgencyLevel) AtLeast(other UrgencyLevel) bool {
	return urgencyRanks[l] >= urgencyRanks[other]
}

func compactLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(label)
}
