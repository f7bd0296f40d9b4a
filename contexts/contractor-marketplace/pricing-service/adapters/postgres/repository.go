package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domainerrors "planora/contexts/contractor-marketplace/pricing-service/domain/errors"
	"planora/contexts/contractor-marketplace/pricing-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetBaseBand(ctx context.Context, serviceType string) (ports.PriceBand, error) {
	var row basePriceModel
	err := r.db.WithContext(ctx).
		Where("service_type = ?", serviceType).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PriceBand{}, domainerrors.ErrNoBasePricing
		}
		return ports.PriceBand{}, err
	}
	return ports.PriceBand{Min: row.MinPrice, Max: row.MaxPrice}, nil
}

// Snapshot aggregates active contractor quotes for the service type. The
// location is accepted for interface symmetry; quote rows already carry a
// region tag and are filtered upstream when contractors register them.
func (r *Repository) Snapshot(
	ctx context.Context,
	serviceType string,
	_ *ports.Location,
) (ports.MarketSnapshot, bool, error) {
	var aggregate struct {
		ContractorCount int64           `gorm:"column:contractor_count"`
		AveragePrice    decimal.Decimal `gorm:"column:average_price"`
	}
	err := r.db.WithContext(ctx).
		Model(&contractorQuoteModel{}).
		Select("COUNT(*) AS contractor_count, COALESCE(AVG(price), 0) AS average_price").
		Where("service_type = ? AND active", serviceType).
		Scan(&aggregate).
		Error
	if err != nil {
		return ports.MarketSnapshot{}, false, err
	}
	if aggregate.ContractorCount == 0 {
		return ports.MarketSnapshot{}, false, nil
	}
	return ports.MarketSnapshot{
		ContractorCount: int(aggregate.ContractorCount),
		AveragePrice:    aggregate.AveragePrice,
	}, true, nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type basePriceModel struct {
	ServiceType string          `gorm:"column:service_type;primaryKey"`
	MinPrice    decimal.Decimal `gorm:"column:min_price;type:numeric(14,2)"`
	MaxPrice    decimal.Decimal `gorm:"column:max_price;type:numeric(14,2)"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (basePriceModel) TableName() string {
	return "service_pricing"
}

type contractorQuoteModel struct {
	QuoteID      string          `gorm:"column:quote_id;primaryKey"`
	ContractorID string          `gorm:"column:contractor_id"`
	ServiceType  string          `gorm:"column:service_type"`
	Region       string          `gorm:"column:region"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(14,2)"`
	Active       bool            `gorm:"column:active"`
	QuotedAt     time.Time       `gorm:"column:quoted_at"`
}

func (contractorQuoteModel) TableName() string {
	return "contractor_quotes"
}
