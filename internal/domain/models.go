package domain

import "time"

// Product is a counted SKU as entered by the editor or an import.
type Product struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	SystemStock int     `json:"system_stock" validate:"gte=0"`
	ActualStock int     `json:"actual_stock" validate:"gte=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
	MinStock    int     `json:"min_stock" validate:"gte=0"`
	MaxStock    int     `json:"max_stock" validate:"gte=0"`
	LeadTime    int     `json:"lead_time" validate:"gte=0"`
	AvgDemand   float64 `json:"avg_demand" validate:"gte=0"`
}

// ProductPatch carries a field-level update. Nil fields are left untouched.
type ProductPatch struct {
	Code        *string  `json:"code"`
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	SystemStock *int     `json:"system_stock" validate:"omitempty,gte=0"`
	ActualStock *int     `json:"actual_stock" validate:"omitempty,gte=0"`
	UnitCost    *float64 `json:"unit_cost" validate:"omitempty,gte=0"`
	MinStock    *int     `json:"min_stock" validate:"omitempty,gte=0"`
	MaxStock    *int     `json:"max_stock" validate:"omitempty,gte=0"`
	LeadTime    *int     `json:"lead_time" validate:"omitempty,gte=0"`
	AvgDemand   *float64 `json:"avg_demand" validate:"omitempty,gte=0"`
}

// Apply writes the non-nil fields of the patch onto p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Code != nil {
		p.Code = *pp.Code
	}
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.SystemStock != nil {
		p.SystemStock = *pp.SystemStock
	}
	if pp.ActualStock != nil {
		p.ActualStock = *pp.ActualStock
	}
	if pp.UnitCost != nil {
		p.UnitCost = *pp.UnitCost
	}
	if pp.MinStock != nil {
		p.MinStock = *pp.MinStock
	}
	if pp.MaxStock != nil {
		p.MaxStock = *pp.MaxStock
	}
	if pp.LeadTime != nil {
		p.LeadTime = *pp.LeadTime
	}
	if pp.AvgDemand != nil {
		p.AvgDemand = *pp.AvgDemand
	}
}

// Analysis is a product together with every metric derived for it in one computation cycle.
type Analysis struct {
	Product

	Variance             int         `json:"variance"`
	VariancePercentage   float64     `json:"variance_percentage"`
	VarianceValue        float64     `json:"variance_value"`
	InventoryValue       float64     `json:"inventory_value"`
	SafetyStock          int         `json:"safety_stock"`
	ReorderPoint         float64     `json:"reorder_point"`
	EOQ                  int         `json:"eoq"`
	StockStatus          StockStatus `json:"stock_status"`
	TurnoverRatio        float64     `json:"turnover_ratio"`
	AnnualDemand         float64     `json:"annual_demand"`
	ABCClass             ABCClass    `json:"abc_class"`
	CumulativePercentage float64     `json:"cumulative_percentage"`
}

// UrgencyItem ranks a non-normal product for remediation.
type UrgencyItem struct {
	ID                string       `json:"id"`
	Code              string       `json:"code"`
	Name              string       `json:"name"`
	Category          string       `json:"category"`
	StockStatus       StockStatus  `json:"stock_status"`
	ABCClass          ABCClass     `json:"abc_class"`
	UrgencyScore      int          `json:"urgency_score"`
	UrgencyLevel      UrgencyLevel `json:"urgency_level"`
	CompositeScore    float64      `json:"composite_score"`
	BusinessImpact    float64      `json:"business_impact"`
	Reason            string       `json:"reason"`
	RecommendedAction string       `json:"recommended_action"`
	Timeframe         string       `json:"timeframe"`
	DaysUntilStockout *int         `json:"days_until_stockout,omitempty"`
}

// Recommendation is an advisory message raised for a product.
type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Product string             `json:"product"`
	Message string             `json:"message"`
	Action  string             `json:"action"`
}

// Summary aggregates one computation cycle.
type Summary struct {
	TotalProducts       int     `json:"total_products"`
	TotalInventoryValue float64 `json:"total_inventory_value"`
	TotalVarianceValue  float64 `json:"total_variance_value"`
	AccuracyRate        float64 `json:"accuracy_rate"`
	LowStockItems       int     `json:"low_stock_items"`
	OverstockItems      int     `json:"overstock_items"`
	ReorderItems        int     `json:"reorder_items"`
}

// AnalysisResult bundles every output of one computation cycle.
type AnalysisResult struct {
	Analysis        []Analysis       `json:"analysis"`
	Summary         Summary          `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	Urgency         []UrgencyItem    `json:"urgency"`
	// Fallback is set when the cycle failed and the safe defaults were returned.
	Fallback bool `json:"fallback,omitempty"`
}

// ActionPlan is the detailed remediation checklist for a single product.
type ActionPlan struct {
	ProductID string      `json:"product_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Status    StockStatus `json:"status"`
	Title     string      `json:"title"`
	Facts     []string    `json:"facts"`
	Steps     []string    `json:"steps"`
}

// Report is an analysis result stamped with the time it was computed.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	AnalysisResult
}
