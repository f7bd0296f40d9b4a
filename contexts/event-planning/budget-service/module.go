package budgetservice

import (
	"log/slog"
	"time"

	httpadapter "planora/contexts/event-planning/budget-service/adapters/http"
	"planora/contexts/event-planning/budget-service/adapters/memory"
	"planora/contexts/event-planning/budget-service/application"
	"planora/contexts/event-planning/budget-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Events               ports.EventRepository
	Packages             ports.PackageRepository
	Applications         ports.AppliedPackageRepository
	Breakdown            ports.BreakdownRepository
	Idempotency          ports.IdempotencyStore
	Outbox               ports.OutboxWriter
	Clock                ports.Clock
	IDGenerator          ports.IDGenerator
	IdempotencyTTL       time.Duration
	DisableEventEmission bool
	Logger               *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Events:               deps.Events,
		Packages:             deps.Packages,
		Applications:         deps.Applications,
		Breakdown:            deps.Breakdown,
		Idempotency:          deps.Idempotency,
		Outbox:               deps.Outbox,
		Clock:                deps.Clock,
		IDGen:                deps.IDGenerator,
		IdempotencyTTL:       deps.IdempotencyTTL,
		DisableEventEmission: deps.DisableEventEmission,
		Logger:               deps.Logger,
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
		Events:         store,
		Packages:       store,
		Applications:   store,
		Breakdown:      store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
