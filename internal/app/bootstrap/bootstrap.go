// Package bootstrap is the composition root. Keep construction/wiring here
// so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pricingservice "planora/contexts/contractor-marketplace/pricing-service"
	"planora/contexts/contractor-marketplace/pricing-service/adapters/factors"
	pricingpostgres "planora/contexts/contractor-marketplace/pricing-service/adapters/postgres"
	budgetservice "planora/contexts/event-planning/budget-service"
	budgetpostgres "planora/contexts/event-planning/budget-service/adapters/postgres"
	workerapp "planora/contexts/event-planning/budget-service/application/workers"
	"planora/internal/platform/config"
	"planora/internal/platform/db"
	"planora/internal/platform/httpserver"
	"planora/internal/platform/messaging"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	pricingRepo := pricingpostgres.NewRepository(pg.DB, logger)
	pricingModule := pricingservice.NewModule(pricingservice.Dependencies{
		Prices:              pricingRepo,
		LocationFactors:     defaultLocationRates(),
		SeasonalFactors:     factors.DefaultSeasonalFactors(),
		Market:              pricingRepo,
		Clock:               pricingpostgres.SystemClock{},
		CollaboratorTimeout: cfg.CollaboratorTimeout,
		Logger:              logger,
	})

	budgetRepo := budgetpostgres.NewRepository(pg.DB, logger)
	budgetModule := budgetservice.NewModule(budgetservice.Dependencies{
		Events:               budgetRepo,
		Packages:             budgetRepo,
		Applications:         budgetRepo,
		Breakdown:            budgetRepo,
		Idempotency:          budgetRepo,
		Outbox:               budgetRepo,
		Clock:                budgetpostgres.SystemClock{},
		IDGenerator:          budgetpostgres.UUIDGenerator{},
		IdempotencyTTL:       cfg.IdempotencyTTL,
		DisableEventEmission: cfg.DisableBudgetEventEmission,
		Logger:               logger,
	})

	server := httpserver.New(pricingModule, budgetModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	budgetRepo := budgetpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    budgetRepo,
			Publisher: kafka,
			Clock:     budgetpostgres.SystemClock{},
			Topic:     "budget.events",
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		// RunOnce logs its own failures; a bad cycle must not stop the loop.
		_ = w.outboxRelay.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// defaultLocationRates covers the launch metros; unknown cells fall back
// to a neutral multiplier inside the rate table.
func defaultLocationRates() factors.RegionRateTable {
	return factors.RegionRateTable{
		Rates: map[string]decimal.Decimal{
			"-40:170": decimal.RequireFromString("1.15"), // Auckland / Wellington
			"-40:140": decimal.RequireFromString("1.10"), // Melbourne
			"-40:150": decimal.RequireFromString("1.12"), // Sydney
			"30:-80":  decimal.RequireFromString("1.20"), // US east coast
			"30:-120": decimal.RequireFromString("1.25"), // US west coast
			"50:-10":  decimal.RequireFromString("1.18"), // UK / Ireland
			"50:0":    decimal.RequireFromString("1.16"), // western Europe
		},
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
