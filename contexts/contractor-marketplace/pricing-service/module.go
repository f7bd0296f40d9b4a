package pricingservice

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"planora/contexts/contractor-marketplace/pricing-service/adapters/factors"
	httpadapter "planora/contexts/contractor-marketplace/pricing-service/adapters/http"
	"planora/contexts/contractor-marketplace/pricing-service/adapters/memory"
	"planora/contexts/contractor-marketplace/pricing-service/application"
	"planora/contexts/contractor-marketplace/pricing-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Prices              ports.BasePriceSource
	LocationFactors     ports.LocationFactorSource
	SeasonalFactors     ports.SeasonalFactorSource
	Market              ports.MarketDataSource
	Clock               ports.Clock
	CollaboratorTimeout time.Duration
	Logger              *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Prices:              deps.Prices,
		LocationFactors:     deps.LocationFactors,
		SeasonalFactors:     deps.SeasonalFactors,
		Market:              deps.Market,
		Clock:               deps.Clock,
		CollaboratorTimeout: deps.CollaboratorTimeout,
		Logger:              deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Prices:          store,
		LocationFactors: factors.RegionRateTable{Rates: map[string]decimal.Decimal{}},
		SeasonalFactors: factors.DefaultSeasonalFactors(),
		Market:          store,
		Clock:           store,
		Logger:          logger,
	})
	module.Store = store
	return module
}
