package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"planora/contexts/event-planning/budget-service/domain/entities"
	domainerrors "planora/contexts/event-planning/budget-service/domain/errors"
	"planora/contexts/event-planning/budget-service/ports"
)

// Store is the in-memory implementation of every budget-service port. It
// backs unit tests and local runs without postgres.
type Store struct {
	mu sync.RWMutex

	events       map[string]entities.Event
	packages     map[string]entities.PackageDeal
	applications map[string]entities.AppliedPackage
	breakdown    map[string]entities.BreakdownEntry
	idempotency  map[string]ports.IdempotencyRecord
	outbox       map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

func NewStore() *Store {
	return &Store{
		events:       make(map[string]entities.Event),
		packages:     make(map[string]entities.PackageDeal),
		applications: make(map[string]entities.AppliedPackage),
		breakdown:    make(map[string]entities.BreakdownEntry),
		idempotency:  make(map[string]ports.IdempotencyRecord),
		outbox:       make(map[string]outboxRecord),
	}
}

func (s *Store) SeedEvent(event entities.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.EventID] = event
}

func (s *Store) SeedPackage(deal entities.PackageDeal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[deal.PackageID] = deal
}

func (s *Store) GetEvent(_ context.Context, eventID string) (entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[strings.TrimSpace(eventID)]
	if !ok {
		return entities.Event{}, domainerrors.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) UpdateEventBudget(_ context.Context, eventID string, total decimal.Decimal, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[strings.TrimSpace(eventID)]
	if !ok {
		return domainerrors.ErrEventNotFound
	}
	event.BudgetTotal = total
	event.UpdatedAt = updatedAt.UTC()
	s.events[event.EventID] = event
	return nil
}

func (s *Store) ListActivePackages(_ context.Context, eventType string) ([]entities.PackageDeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deals := make([]entities.PackageDeal, 0)
	for _, deal := range s.packages {
		if deal.Active && deal.EventType == strings.TrimSpace(eventType) {
			deals = append(deals, deal)
		}
	}
	sort.Slice(deals, func(i, j int) bool {
		return deals[i].CatalogRank < deals[j].CatalogRank
	})
	return deals, nil
}

func (s *Store) GetPackage(_ context.Context, packageID string) (entities.PackageDeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deal, ok := s.packages[strings.TrimSpace(packageID)]
	if !ok {
		return entities.PackageDeal{}, domainerrors.ErrPackageNotFound
	}
	return deal, nil
}

func (s *Store) UpsertAppliedPackage(_ context.Context, applied entities.AppliedPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(applied.EventID) == "" || strings.TrimSpace(applied.PackageID) == "" {
		return domainerrors.ErrInvalidInput
	}
	s.applications[applied.EventID+"/"+applied.PackageID] = applied
	return nil
}

func (s *Store) ListEntries(_ context.Context, eventID string) ([]entities.BreakdownEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]entities.BreakdownEntry, 0)
	for _, entry := range s.breakdown {
		if entry.EventID == strings.TrimSpace(eventID) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ServiceCategory < entries[j].ServiceCategory
	})
	return entries, nil
}

func (s *Store) UpsertEntry(_ context.Context, entry entities.BreakdownEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(entry.EventID) == "" || strings.TrimSpace(entry.ServiceCategory) == "" {
		return domainerrors.ErrInvalidInput
	}
	s.breakdown[entry.EventID+"/"+entry.ServiceCategory] = entry
	return nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now.UTC()) {
		delete(s.idempotency, strings.TrimSpace(key))
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(record.Key)
	if key == "" {
		return domainerrors.ErrInvalidInput
	}
	if existing, ok := s.idempotency[key]; ok {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		if !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		return nil
	}
	s.idempotency[key] = record
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}

	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		return nil
	}

	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			messages = append(messages, row.Message)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrEventNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
