package postgresadapter

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"planora/contexts/event-planning/budget-service/domain/entities"
	"planora/contexts/event-planning/budget-service/ports"
)

type eventModel struct {
	EventID       string          `gorm:"column:event_id;primaryKey"`
	OwnerID       string          `gorm:"column:owner_id"`
	EventType     string          `gorm:"column:event_type"`
	AttendeeCount int             `gorm:"column:attendee_count"`
	EventDate     time.Time       `gorm:"column:event_date"`
	BudgetTotal   decimal.Decimal `gorm:"column:budget_total;type:numeric(14,2)"`
	Status        string          `gorm:"column:status"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (eventModel) TableName() string {
	return "events"
}

func (m eventModel) toEntity() entities.Event {
	return entities.Event{
		EventID:       m.EventID,
		OwnerID:       m.OwnerID,
		EventType:     m.EventType,
		AttendeeCount: m.AttendeeCount,
		EventDate:     m.EventDate.UTC(),
		BudgetTotal:   m.BudgetTotal,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type packageModel struct {
	PackageID       string          `gorm:"column:package_id;primaryKey"`
	EventType       string          `gorm:"column:event_type"`
	Name            string          `gorm:"column:name"`
	BasePrice       decimal.Decimal `gorm:"column:base_price;type:numeric(14,2)"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2)"`
	Categories      []string        `gorm:"column:categories;serializer:json"`
	Active          bool            `gorm:"column:active"`
	CatalogRank     int             `gorm:"column:catalog_rank"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

func (packageModel) TableName() string {
	return "package_deals"
}

func (m packageModel) toEntity() entities.PackageDeal {
	return entities.PackageDeal{
		PackageID:       m.PackageID,
		EventType:       m.EventType,
		Name:            m.Name,
		BasePrice:       m.BasePrice,
		DiscountPercent: m.DiscountPercent,
		Categories:      m.Categories,
		Active:          m.Active,
		CatalogRank:     m.CatalogRank,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}

type appliedPackageModel struct {
	EventID   string    `gorm:"column:event_id;primaryKey"`
	PackageID string    `gorm:"column:package_id;primaryKey"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (appliedPackageModel) TableName() string {
	return "applied_packages"
}

type breakdownModel struct {
	EventID          string          `gorm:"column:event_id;primaryKey"`
	ServiceCategory  string          `gorm:"column:service_category;primaryKey"`
	EstimatedCost    decimal.Decimal `gorm:"column:estimated_cost;type:numeric(14,2)"`
	PackageApplied   bool            `gorm:"column:package_applied"`
	AppliedPackageID string          `gorm:"column:applied_package_id"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (breakdownModel) TableName() string {
	return "budget_breakdown_entries"
}

func breakdownModelFromEntity(entry entities.BreakdownEntry) breakdownModel {
	return breakdownModel{
		EventID:          entry.EventID,
		ServiceCategory:  entry.ServiceCategory,
		EstimatedCost:    entry.EstimatedCost,
		PackageApplied:   entry.PackageApplied,
		AppliedPackageID: entry.AppliedPackageID,
		UpdatedAt:        entry.UpdatedAt.UTC(),
	}
}

func (m breakdownModel) toEntity() entities.BreakdownEntry {
	return entities.BreakdownEntry{
		EventID:          m.EventID,
		ServiceCategory:  m.ServiceCategory,
		EstimatedCost:    m.EstimatedCost,
		PackageApplied:   m.PackageApplied,
		AppliedPackageID: m.AppliedPackageID,
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "budget_idempotency_keys"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "budget_outbox"
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}
