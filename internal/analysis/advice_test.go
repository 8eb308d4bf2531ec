package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

func TestAdvise_Timeframes(t *testing.T) {
	levels := []domain.UrgencyLevel{domain.UrgencyCritical, domain.UrgencyHigh, domain.UrgencyMedium, domain.UrgencyLow}

	tests := []struct {
		status domain.StockStatus
		want   map[domain.UrgencyLevel]string
	}{
		{
			status: domain.StatusOutOfStock,
			want: map[domain.UrgencyLevel]string{
				domain.UrgencyCritical: TimeframeImmediate,
				domain.UrgencyHigh:     TimeframeImmediate,
				domain.UrgencyMedium:   TimeframeImmediate,
				domain.UrgencyLow:      TimeframeImmediate,
			},
		},
		{
			status: domain.StatusLowStock,
			want: map[domain.UrgencyLevel]string{
				domain.UrgencyCritical: TimeframeOneDay,
				domain.UrgencyHigh:     TimeframeOneWeek,
				domain.UrgencyMedium:   TimeframeOneWeek,
				domain.UrgencyLow:      TimeframeOneWeek,
			},
		},
		{
			status: domain.StatusReorder,
			want: map[domain.UrgencyLevel]string{
				domain.UrgencyCritical: TimeframeTwoDays,
				domain.UrgencyHigh:     TimeframeTenDays,
				domain.UrgencyMedium:   TimeframeTenDays,
				domain.UrgencyLow:      TimeframeTenDays,
			},
		},
		{
			// CRITICAL overstock is handled at least as fast as HIGH.
			status: domain.StatusOverstock,
			want: map[domain.UrgencyLevel]string{
				domain.UrgencyCritical: TimeframeTwoWeeks,
				domain.UrgencyHigh:     TimeframeTwoWeeks,
				domain.UrgencyMedium:   TimeframeOneMonth,
				domain.UrgencyLow:      TimeframeOneMonth,
			},
		},
		{
			status: domain.StatusNormal,
			want: map[domain.UrgencyLevel]string{
				domain.UrgencyCritical: TimeframeOneMonth,
				domain.UrgencyHigh:     TimeframeOneMonth,
				domain.UrgencyMedium:   TimeframeOneMonth,
				domain.UrgencyLow:      TimeframeOneMonth,
			},
		},
	}

	for _, tt := range tests {
		for _, level := range levels {
			t.Run(string(tt.status)+"/"+string(level), func(t *testing.T) {
				item := domain.Analysis{StockStatus: tt.status, EOQ: 42}

				got := Advise(item, level)

				assert.Equal(t, tt.want[level], got.Timeframe)
				if tt.status == domain.StatusNormal {
					assert.Empty(t, got.Reason)
					assert.Empty(t, got.Action)
				} else {
					assert.NotEmpty(t, got.Reason)
					assert.NotEmpty(t, got.Action)
				}
			})
		}
	}
}

func TestAdvise_ActionQuotesEOQ(t *testing.T) {
	item := domain.Analysis{StockStatus: domain.StatusOutOfStock, EOQ: 109}

	assert.Equal(t, "Order at least 109 units now!", Advise(item, domain.UrgencyCritical).Action)
}
