package factors

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthFactorTable is the production seasonal strategy: a month-indexed
// multiplier table with a neutral fallback. Factors are opaque to the
// resolver; it never combines them with other adjustments ahead of time.
type MonthFactorTable struct {
	Factors map[time.Month]decimal.Decimal
}

func (t MonthFactorTable) Factor(_ context.Context, _ string, date time.Time) (decimal.Decimal, error) {
	if factor, ok := t.Factors[date.UTC().Month()]; ok {
		return factor, nil
	}
	return decimal.NewFromInt(1), nil
}

// DefaultSeasonalFactors reflects event-industry peaks: late spring through
// early autumn weddings plus the December party season.
func DefaultSeasonalFactors() MonthFactorTable {
	return MonthFactorTable{
		Factors: map[time.Month]decimal.Decimal{
			time.January:   decimal.RequireFromString("0.90"),
			time.February:  decimal.RequireFromString("0.95"),
			time.May:       decimal.RequireFromString("1.10"),
			time.June:      decimal.RequireFromString("1.20"),
			time.July:      decimal.RequireFromString("1.20"),
			time.August:    decimal.RequireFromString("1.15"),
			time.September: decimal.RequireFromString("1.10"),
			time.December:  decimal.RequireFromString("1.25"),
		},
	}
}
