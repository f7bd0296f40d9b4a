package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainerrors "planora/contexts/contractor-marketplace/pricing-service/domain/errors"
	"planora/contexts/contractor-marketplace/pricing-service/ports"
)

const (
	confidenceWithMarketData    = 0.9
	confidenceWithoutMarketData = 0.7
)

var two = decimal.NewFromInt(2)

type Service struct {
	Prices          ports.BasePriceSource
	LocationFactors ports.LocationFactorSource
	SeasonalFactors ports.SeasonalFactorSource
	Market          ports.MarketDataSource
	Clock           ports.Clock
	// CollaboratorTimeout bounds each boundary call; zero means 3s.
	CollaboratorTimeout time.Duration
	Logger              *slog.Logger
}

// ResolveQuote applies adjustment factors multiplicatively and
// independently, in a fixed order: location, then seasonal, then the
// real-time market blend. Quotes are read-only; nothing is persisted.
func (s Service) ResolveQuote(ctx context.Context, input ports.ResolveQuoteInput) (ports.PricingQuote, error) {
	serviceType := strings.TrimSpace(input.ServiceType)
	if serviceType == "" {
		return ports.PricingQuote{}, domainerrors.ErrInvalidInput
	}

	base, err := s.fetchBaseBand(ctx, serviceType)
	if err != nil {
		return ports.PricingQuote{}, err
	}

	quote := ports.PricingQuote{
		ServiceType:  serviceType,
		BaseBand:     base,
		LocationBand: base,
		FreshAt:      s.now(),
	}

	if input.Location != nil {
		factor, err := s.locationFactor(ctx, serviceType, *input.Location)
		if err != nil {
			return ports.PricingQuote{}, err
		}
		quote.LocationBand = scaleBand(base, factor)
	}

	quote.SeasonalBand = quote.LocationBand
	if input.Seasonal {
		date := input.EventDate
		if date.IsZero() {
			date = s.now()
		}
		factor, err := s.seasonalFactor(ctx, serviceType, date)
		if err != nil {
			return ports.PricingQuote{}, err
		}
		quote.SeasonalBand = scaleBand(quote.LocationBand, factor)
	}

	snapshot, ok, err := s.marketSnapshot(ctx, serviceType, input.Location)
	if err != nil {
		return ports.PricingQuote{}, err
	}
	if ok && snapshot.ContractorCount > 0 {
		blended := blendBand(quote.SeasonalBand, snapshot.AveragePrice)
		quote.RealTimeBand = &blended
		quote.ContractorCount = snapshot.ContractorCount
		quote.Confidence = confidenceWithMarketData
	} else {
		quote.Confidence = confidenceWithoutMarketData
	}

	resolveLogger(s.Logger).Info("pricing quote resolved",
		"event", "pricing_quote_resolved",
		"module", "contractor-marketplace/pricing-service",
		"layer", "application",
		"service_type", serviceType,
		"confidence", quote.Confidence,
		"contractor_count", quote.ContractorCount,
	)
	return quote, nil
}

func (s Service) fetchBaseBand(ctx context.Context, serviceType string) (ports.PriceBand, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	band, err := s.Prices.GetBaseBand(ctx, serviceType)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNoBasePricing) {
			return ports.PriceBand{}, err
		}
		return ports.PriceBand{}, s.unavailable("base_price", err)
	}
	return band, nil
}

func (s Service) locationFactor(ctx context.Context, serviceType string, location ports.Location) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	factor, err := s.LocationFactors.Factor(ctx, serviceType, location)
	if err != nil {
		return decimal.Decimal{}, s.unavailable("location_factor", err)
	}
	return factor, nil
}

func (s Service) seasonalFactor(ctx context.Context, serviceType string, date time.Time) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	factor, err := s.SeasonalFactors.Factor(ctx, serviceType, date)
	if err != nil {
		return decimal.Decimal{}, s.unavailable("seasonal_factor", err)
	}
	return factor, nil
}

func (s Service) marketSnapshot(
	ctx context.Context,
	serviceType string,
	location *ports.Location,
) (ports.MarketSnapshot, bool, error) {
	if s.Market == nil {
		return ports.MarketSnapshot{}, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	snapshot, ok, err := s.Market.Snapshot(ctx, serviceType, location)
	if err != nil {
		return ports.MarketSnapshot{}, false, s.unavailable("market_data", err)
	}
	return snapshot, ok, nil
}

func (s Service) unavailable(collaborator string, err error) error {
	resolveLogger(s.Logger).Error("pricing collaborator call failed",
		"event", "pricing_collaborator_failed",
		"module", "contractor-marketplace/pricing-service",
		"layer", "application",
		"collaborator", collaborator,
		"error", err.Error(),
	)
	return domainerrors.ErrPricingUnavailable
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) timeout() time.Duration {
	if s.CollaboratorTimeout <= 0 {
		return 3 * time.Second
	}
	return s.CollaboratorTimeout
}

func scaleBand(band ports.PriceBand, factor decimal.Decimal) ports.PriceBand {
	return ports.PriceBand{
		Min: band.Min.Mul(factor).Round(2),
		Max: band.Max.Mul(factor).Round(2),
	}
}

// blendBand averages each adjusted bound with the live market average so a
// thin market nudges the band toward what contractors actually charge.
func blendBand(band ports.PriceBand, marketAverage decimal.Decimal) ports.PriceBand {
	return ports.PriceBand{
		Min: band.Min.Add(marketAverage).Div(two).Round(2),
		Max: band.Max.Add(marketAverage).Div(two).Round(2),
	}
}
