package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"planora/contexts/event-planning/budget-service/domain/entities"
	"planora/internal/shared/events"
)

type ListPackagesInput struct {
	EventType  string
	Categories []string
}

// PackageOffer is a catalog row with its computed discount figures.
type PackageOffer struct {
	Package        entities.PackageDeal
	DiscountAmount decimal.Decimal
	FinalPrice     decimal.Decimal
	Savings        decimal.Decimal
}

// PackageList carries the surviving offers ordered by descending savings.
// TotalSavings is a display aggregate: packages may be mutually exclusive,
// so it is not an achievable combined discount.
type PackageList struct {
	Offers       []PackageOffer
	TotalSavings decimal.Decimal
}

type ApplyPackageInput struct {
	EventID   string
	PackageID string
	ActorID   string
}

// ApplyPackageResult reports the association plus per-step effect flags so
// a caller can tell "recorded" apart from "changed the budget".
type ApplyPackageResult struct {
	Applied        entities.AppliedPackage
	Package        entities.PackageDeal
	Success        bool
	EventUpdated   bool
	BudgetUpdated  bool
	EntriesWritten int
	NewBudgetTotal decimal.Decimal
}

type GetBreakdownInput struct {
	EventID    string
	ActorID    string
	Categories []string
}

type BreakdownView struct {
	Entries []entities.BreakdownEntry
	Total   decimal.Decimal
}

type ApplyAdjustmentsInput struct {
	EventID     string
	ActorID     string
	Adjustments []entities.BudgetAdjustment
}

// AdjustedEntry wraps a breakdown entry with per-request metadata: whether
// the entry was created at zero before adjusting and whether the zero floor
// clamped it.
type AdjustedEntry struct {
	Entry   entities.BreakdownEntry
	Created bool
	Clamped bool
}

type AdjustmentResult struct {
	Entries []AdjustedEntry
	Total   decimal.Decimal
}

type EventRepository interface {
	GetEvent(ctx context.Context, eventID string) (entities.Event, error)
	UpdateEventBudget(ctx context.Context, eventID string, total decimal.Decimal, updatedAt time.Time) error
}

type PackageRepository interface {
	// ListActivePackages returns active deals for the event type in catalog
	// order (ascending CatalogRank).
	ListActivePackages(ctx context.Context, eventType string) ([]entities.PackageDeal, error)
	GetPackage(ctx context.Context, packageID string) (entities.PackageDeal, error)
}

type AppliedPackageRepository interface {
	UpsertAppliedPackage(ctx context.Context, applied entities.AppliedPackage) error
}

type BreakdownRepository interface {
	ListEntries(ctx context.Context, eventID string) ([]entities.BreakdownEntry, error)
	UpsertEntry(ctx context.Context, entry entities.BreakdownEntry) error
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type EventEnvelope = events.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
