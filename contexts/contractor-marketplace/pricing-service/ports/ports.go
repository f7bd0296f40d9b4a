package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PriceBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type ResolveQuoteInput struct {
	ServiceType string
	Location    *Location
	Seasonal    bool
	// EventDate drives the seasonal factor; zero value means "use now".
	EventDate time.Time
}

// PricingQuote is transient: the resolver never persists quotes. Each band
// shows one stage of the adjustment pipeline so callers can display how a
// price was derived.
type PricingQuote struct {
	ServiceType     string
	BaseBand        PriceBand
	LocationBand    PriceBand
	SeasonalBand    PriceBand
	RealTimeBand    *PriceBand
	Confidence      float64
	ContractorCount int
	FreshAt         time.Time
}

type BasePriceSource interface {
	GetBaseBand(ctx context.Context, serviceType string) (PriceBand, error)
}

// LocationFactorSource and SeasonalFactorSource are opaque multiplier
// strategies so tests can swap deterministic fakes for the live tables.
type LocationFactorSource interface {
	Factor(ctx context.Context, serviceType string, location Location) (decimal.Decimal, error)
}

type SeasonalFactorSource interface {
	Factor(ctx context.Context, serviceType string, date time.Time) (decimal.Decimal, error)
}

type MarketSnapshot struct {
	ContractorCount int
	AveragePrice    decimal.Decimal
}

type MarketDataSource interface {
	// Snapshot returns ok=false when no active contractor quotes exist for
	// the service type; that is not an error.
	Snapshot(ctx context.Context, serviceType string, location *Location) (MarketSnapshot, bool, error)
}

type Clock interface {
	Now() time.Time
}
