package analysis

import (
	"math"
	"sort"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// legacyMaxScore is the top of the 0-12 urgency display scale.
const legacyMaxScore = 12

var stockoutRiskScores = map[domain.StockStatus]float64{
	domain.StatusOutOfStock: 100,
	domain.StatusReorder:    85,
	domain.StatusLowStock:   70,
	domain.StatusOverstock:  20,
}

var abcScores = map[domain.ABCClass]float64{
	domain.ClassA: 100,
	domain.ClassB: 60,
	domain.ClassC: 30,
}

// CriteriaScores are the intermediate AHP scores of one item, each on a 0-100 scale.
type CriteriaScores struct {
	StockoutRisk      float64
	StockLevel        float64
	StockCriticality  float64
	InventoryValue    float64
	ABC               float64
	BusinessValue     float64
	DemandVariability float64
	LeadTimeRisk      float64
	OperationalRisk   float64
	Composite         float64
}

// batchMaxima holds the batch-wide normalisers of the AHP score.
type batchMaxima struct {
	InventoryValue float64
	LeadTime       float64
}

// UrgencyScorer ranks non-normal items for remediation.
type UrgencyScorer struct {
	params Params
}

// NewUrgencyScorer creates a scorer using the given parameters.
func NewUrgencyScorer(params Params) *UrgencyScorer {
	return &UrgencyScorer{params: params}
}

// Rank scores every item whose status is not Normal and returns them sorted by
// urgency score, highest first. Equal scores keep input order.
func (s *UrgencyScorer) Rank(items []domain.Analysis) []domain.UrgencyItem {
	maxima := maximaOf(items)

	ranked := make([]domain.UrgencyItem, 0, len(items))
	for _, item := range items {
		if item.StockStatus == domain.StatusNormal {
			continue
		}

		if s.params.Model == ScoringAdditive {
			ranked = append(ranked, s.scoreAdditive(item))
			continue
		}
		ranked = append(ranked, s.scoreAHP(item, maxima))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UrgencyScore > ranked[j].UrgencyScore
	})

	return ranked
}

func maximaOf(items []domain.Analysis) batchMaxima {
	var m batchMaxima
	for _, item := range items {
		m.InventoryValue = math.Max(m.InventoryValue, item.InventoryValue)
		m.LeadTime = math.Max(m.LeadTime, clamp(item.Product).LeadTime)
	}
	return m
}

// criteria computes the AHP sub-scores of one item against the batch maxima.
func (s *UrgencyScorer) criteria(item domain.Analysis, maxima batchMaxima) CriteriaScores {
	w := s.params.Weights
	in := clamp(item.Product)

	var c CriteriaScores

	// Stock criticality
	c.StockoutRisk = stockoutRiskScores[item.StockStatus]
	switch {
	case item.StockStatus == domain.StatusOutOfStock:
		c.StockLevel = 100
	case in.ActualStock <= in.MinStock:
		c.StockLevel = 80
	case in.ActualStock >= in.MaxStock:
		c.StockLevel = 30
	default:
		c.StockLevel = 50 + 30*(in.ActualStock-in.MinStock)/(in.MaxStock-in.MinStock)
	}
	c.StockCriticality = c.StockoutRisk*w.StockoutRisk + c.StockLevel*w.StockLevel

	// Business value
	if maxima.InventoryValue > 0 {
		c.InventoryValue = item.InventoryValue / maxima.InventoryValue * 100
	}
	c.ABC = abcScores[item.ABCClass]
	c.BusinessValue = c.InventoryValue*w.InventoryValue + c.ABC*w.ABC

	// Operational risk
	switch {
	case item.TurnoverRatio > 6:
		c.DemandVariability = 80
	case item.TurnoverRatio >= 3:
		c.DemandVariability = 50
	default:
		c.DemandVariability = 30
	}
	if maxima.LeadTime > 0 {
		c.LeadTimeRisk = in.LeadTime / maxima.LeadTime * 100
	}
	c.OperationalRisk = c.DemandVariability*w.DemandVariability + c.LeadTimeRisk*w.LeadTimeRisk

	c.Composite = c.StockCriticality*w.StockCriticality +
		c.BusinessValue*w.BusinessValue +
		c.OperationalRisk*w.OperationalRisk

	return c
}

// LevelFor maps a composite score to its urgency band.
func (s *UrgencyScorer) LevelFor(composite float64) domain.UrgencyLevel {
	b := s.params.Bands
	switch {
	case composite >= b.Critical:
		return domain.UrgencyCritical
	case composite >= b.High:
		return domain.UrgencyHigh
	case composite >= b.Medium:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}

func (s *UrgencyScorer) scoreAHP(item domain.Analysis, maxima batchMaxima) domain.UrgencyItem {
	c := s.criteria(item, maxima)
	level := s.LevelFor(c.Composite)

	u := newUrgencyItem(item, level)
	u.CompositeScore = c.Composite
	u.UrgencyScore = int(math.Round(c.Composite / 100 * legacyMaxScore))
	u.BusinessImpact = item.InventoryValue * (1 + c.Composite/100)

	return u
}

// scoreAdditive reproduces the point-based ranking: status points plus an ABC bonus.
func (s *UrgencyScorer) scoreAdditive(item domain.Analysis) domain.UrgencyItem {
	var (
		points int
		level  domain.UrgencyLevel
	)
	switch item.StockStatus {
	case domain.StatusOutOfStock:
		points, level = 10, domain.UrgencyCritical
	case domain.StatusReorder:
		points, level = 8, domain.UrgencyHigh
	case domain.StatusLowStock:
		points, level = 6, domain.UrgencyHigh
	case domain.StatusOverstock:
		points, level = 4, domain.UrgencyMedium
	default:
		level = domain.UrgencyLow
	}

	impact := item.InventoryValue
	switch item.ABCClass {
	case domain.ClassA:
		points += 2
		impact *= 1.5
	case domain.ClassB:
		points++
		impact *= 1.2
	}

	u := newUrgencyItem(item, level)
	u.UrgencyScore = points
	u.CompositeScore = float64(points) / legacyMaxScore * 100
	u.BusinessImpact = impact

	return u
}

func newUrgencyItem(item domain.Analysis, level domain.UrgencyLevel) domain.UrgencyItem {
	advice := Advise(item, level)

	u := domain.UrgencyItem{
		ID:                item.ID,
		Code:              item.Code,
		Name:              item.Name,
		Category:          item.Category,
		StockStatus:       item.StockStatus,
		ABCClass:          item.ABCClass,
		UrgencyLevel:      level,
		Reason:            advice.Reason,
		RecommendedAction: advice.Action,
		Timeframe:         advice.Timeframe,
	}

	if item.StockStatus == domain.StatusLowStock {
		in := clamp(item.Product)
		days := int(math.Floor(in.ActualStock / in.AvgDemand))
		u.DaysUntilStockout = &days
	}

	return u
}
