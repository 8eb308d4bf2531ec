package analysis

import (
	"math"
	"strings"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// VarianceType narrows analysis rows by the sign or size of their variance.
type VarianceType string

const (
	VarianceAll      VarianceType = "All"
	VariancePositive VarianceType = "Positive"
	VarianceNegative VarianceType = "Negative"
	VarianceZero     VarianceType = "Zero"
	VarianceHigh     VarianceType = "High Variance"
)

// Filter selects analysis rows. Empty or "All" fields match everything.
type Filter struct {
	Search       string
	Status       string
	ABCClass     string
	Category     string
	VarianceType VarianceType
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

// Apply returns the rows matching every criterion, keeping their order.
func (f Filter) Apply(items []domain.Analysis, params Params) []domain.Analysis {
	out := make([]domain.Analysis, 0, len(items))
	for _, item := range items {
		if f.Match(item, params) {
			out = append(out, item)
		}
	}
	return out
}

// Match reports whether a single row passes the filter.
func (f Filter) Match(item domain.Analysis, params Params) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Code), term) &&
			!strings.Contains(strings.ToLower(item.Category), term) {
			return false
		}
	}

	if !isAll(f.Status) {
		status, ok := domain.ParseStockStatus(f.Status)
		if !ok || item.StockStatus != status {
			return false
		}
	}

	if !isAll(f.ABCClass) {
		class, ok := domain.ParseABCClass(f.ABCClass)
		if !ok || item.ABCClass != class {
			return false
		}
	}

	if !isAll(f.Category) && !strings.EqualFold(strings.TrimSpace(f.Category), strings.TrimSpace(item.Category)) {
		return false
	}

	switch normalizeVarianceType(f.VarianceType) {
	case VariancePositive:
		return item.Variance > 0
	case VarianceNegative:
		return item.Variance < 0
	case VarianceZero:
		return item.Variance == 0
	case VarianceHigh:
		return math.Abs(item.VariancePercentage) > params.AuditVariancePct
	}

	return true
}

func normalizeVarianceType(v VarianceType) VarianceType {
	switch compact := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(string(v))); compact {
	case "positive":
		return VariancePositive
	case "negative":
		return VarianceNegative
	case "zero":
		return VarianceZero
	case "high", "highvariance":
		return VarianceHigh
	}
	return VarianceAll
}
