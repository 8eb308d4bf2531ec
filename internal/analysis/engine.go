package analysis

import (
	"errors"
	"fmt"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

// ErrComputation is returned when a computation cycle fails and the fallback result is used.
var ErrComputation = errors.New("analysis computation failed")

// Engine runs the full analysis pipeline over a product snapshot.
// It holds no batch state, so one engine can serve concurrent callers.
type Engine struct {
	params    Params
	calculate func(domain.Product) domain.Analysis
	scorer    *UrgencyScorer
}

// NewEngine creates an engine after validating its parameters.
func NewEngine(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		params:    params,
		calculate: NewMetricCalculator(params).Calculate,
		scorer:    NewUrgencyScorer(params),
	}, nil
}

// Params returns the parameters the engine was built with.
func (e *Engine) Params() Params {
	return e.params
}

// Run computes analysis, summary, recommendations and urgency ranking for the
// products, from scratch. Analysis rows keep the input order.
func (e *Engine) Run(products []domain.Product) domain.AnalysisResult {
	items := make([]domain.Analysis, len(products))
	for i, p := range products {
		items[i] = e.calculate(p)
	}

	ClassifyABC(items, e.params)

	return domain.AnalysisResult{
		Analysis:        items,
		Summary:         Summarize(items, e.params),
		Recommendations: Recommend(items, e.params),
		Urgency:         e.scorer.Rank(items),
	}
}

// Analyze runs the pipeline and converts any failure into the fallback result:
// no analysis rows, no recommendations, no urgency items and a summary built
// from the raw product count.
func (e *Engine) Analyze(products []domain.Product) (result domain.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = Fallback(len(products))
			err = fmt.Errorf("%w: %v", ErrComputation, r)
		}
	}()

	return e.Run(products), nil
}

// Fallback returns the safe result reported when a cycle fails.
func Fallback(productCount int) domain.AnalysisResult {
	return domain.AnalysisResult{
		Analysis:        []domain.Analysis{},
		Summary:         FallbackSummary(productCount),
		Recommendations: []domain.Recommendation{},
		Urgency:         []domain.UrgencyItem{},
		Fallback:        true,
	}
}
