package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the planner's event record as seen by the budget engine.
// Lifecycle status is owned by the event-workflow service and is read-only
// here.
type Event struct {
	EventID       string
	OwnerID       string
	EventType     string
	AttendeeCount int
	EventDate     time.Time
	BudgetTotal   decimal.Decimal
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PackageDeal is a bundled offer for one event type. Deals are immutable
// once referenced by an application; retiring a deal means Active=false,
// never mutating its price.
type PackageDeal struct {
	PackageID       string
	EventType       string
	Name            string
	BasePrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Categories      []string
	Active          bool
	CatalogRank     int
	CreatedAt       time.Time
}

type AppliedPackage struct {
	EventID   string
	PackageID string
	AppliedAt time.Time
}

// BreakdownEntry is the per-service-category cost allocation for an event.
// Unique per (event, category): re-application overwrites, never duplicates.
type BreakdownEntry struct {
	EventID          string
	ServiceCategory  string
	EstimatedCost    decimal.Decimal
	PackageApplied   bool
	AppliedPackageID string
	UpdatedAt        time.Time
}

type AdjustmentType string

const (
	AdjustmentPercentage AdjustmentType = "percentage"
	AdjustmentFixed      AdjustmentType = "fixed"
)

// BudgetAdjustment is a single owner-requested tweak to one category. It is
// an input value, not a persisted entity.
type BudgetAdjustment struct {
	ServiceCategory string
	Type            AdjustmentType
	Value           decimal.Decimal
	Reason          string
}
