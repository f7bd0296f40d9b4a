package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainerrors "planora/contexts/contractor-marketplace/pricing-service/domain/errors"
	"planora/contexts/contractor-marketplace/pricing-service/ports"
)

// Store seeds base bands and market snapshots for tests and local runs.
type Store struct {
	mu sync.RWMutex

	bands     map[string]ports.PriceBand
	snapshots map[string]ports.MarketSnapshot
}

func NewStore() *Store {
	return &Store{
		bands:     make(map[string]ports.PriceBand),
		snapshots: make(map[string]ports.MarketSnapshot),
	}
}

func (s *Store) SeedBand(serviceType string, min, max decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bands[strings.TrimSpace(serviceType)] = ports.PriceBand{Min: min, Max: max}
}

func (s *Store) SeedMarket(serviceType string, contractorCount int, averagePrice decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[strings.TrimSpace(serviceType)] = ports.MarketSnapshot{
		ContractorCount: contractorCount,
		AveragePrice:    averagePrice,
	}
}

func (s *Store) GetBaseBand(_ context.Context, serviceType string) (ports.PriceBand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	band, ok := s.bands[strings.TrimSpace(serviceType)]
	if !ok {
		return ports.PriceBand{}, domainerrors.ErrNoBasePricing
	}
	return band, nil
}

func (s *Store) Snapshot(_ context.Context, serviceType string, _ *ports.Location) (ports.MarketSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[strings.TrimSpace(serviceType)]
	if !ok || snapshot.ContractorCount == 0 {
		return ports.MarketSnapshot{}, false, nil
	}
	return snapshot, true, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
