package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"planora/contexts/event-planning/budget-service/domain/entities"
	domainerrors "planora/contexts/event-planning/budget-service/domain/errors"
	"planora/contexts/event-planning/budget-service/ports"
)

const sourceService = "budget-service"

var oneHundred = decimal.NewFromInt(100)

type Service struct {
	Events               ports.EventRepository
	Packages             ports.PackageRepository
	Applications         ports.AppliedPackageRepository
	Breakdown            ports.BreakdownRepository
	Idempotency          ports.IdempotencyStore
	Outbox               ports.OutboxWriter
	Clock                ports.Clock
	IDGen                ports.IDGenerator
	IdempotencyTTL       time.Duration
	DisableEventEmission bool
	Logger               *slog.Logger
}

// ListPackages returns active deals for the event type, optionally narrowed
// to deals covering at least one requested category, with per-deal savings
// computed and the list ordered by descending savings (catalog order breaks
// ties).
func (s Service) ListPackages(ctx context.Context, input ports.ListPackagesInput) (ports.PackageList, error) {
	eventType := strings.TrimSpace(input.EventType)
	if eventType == "" {
		return ports.PackageList{}, domainerrors.ErrInvalidInput
	}
	requested, err := normalizeCategories(input.Categories)
	if err != nil {
		return ports.PackageList{}, err
	}

	deals, err := s.Packages.ListActivePackages(ctx, eventType)
	if err != nil {
		return ports.PackageList{}, err
	}

	offers := make([]ports.PackageOffer, 0, len(deals))
	total := decimal.Zero
	for _, deal := range deals {
		if len(requested) > 0 && !intersects(deal.Categories, requested) {
			continue
		}
		discount := round2(deal.BasePrice.Mul(deal.DiscountPercent).Div(oneHundred))
		offers = append(offers, ports.PackageOffer{
			Package:        deal,
			DiscountAmount: discount,
			FinalPrice:     round2(deal.BasePrice.Sub(discount)),
			Savings:        discount,
		})
		total = total.Add(discount)
	}

	// Stable sort keeps catalog order for equal savings.
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Savings.GreaterThan(offers[j].Savings)
	})

	return ports.PackageList{
		Offers:       offers,
		TotalSavings: round2(total),
	}, nil
}

// ApplyPackage records the package application, replaces the event's
// aggregate budget with the discounted package price, and regenerates the
// per-category breakdown. The association record is committed first; later
// step failures are reported through flags plus ErrPartialApply rather than
// rolled back, and every later step is an upsert so a retry converges.
func (s Service) ApplyPackage(
	ctx context.Context,
	idempotencyKey string,
	input ports.ApplyPackageInput,
) (ports.ApplyPackageResult, bool, error) {
	if strings.TrimSpace(input.EventID) == "" ||
		strings.TrimSpace(input.PackageID) == "" ||
		strings.TrimSpace(input.ActorID) == "" {
		return ports.ApplyPackageResult{}, false, domainerrors.ErrInvalidInput
	}

	now := s.now()
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	requestHash := hashPayload(map[string]any{
		"event_id":   strings.TrimSpace(input.EventID),
		"package_id": strings.TrimSpace(input.PackageID),
		"actor_id":   strings.TrimSpace(input.ActorID),
	})

	if idempotencyKey != "" && s.Idempotency != nil {
		record, found, err := s.Idempotency.GetRecord(ctx, idempotencyKey, now)
		if err != nil {
			return ports.ApplyPackageResult{}, false, err
		}
		if found {
			if record.RequestHash != requestHash {
				return ports.ApplyPackageResult{}, false, domainerrors.ErrIdempotencyKeyConflict
			}
			var replayed ports.ApplyPackageResult
			if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
				return ports.ApplyPackageResult{}, false, err
			}
			return replayed, true, nil
		}
	}

	event, err := s.Events.GetEvent(ctx, strings.TrimSpace(input.EventID))
	if err != nil {
		return ports.ApplyPackageResult{}, false, err
	}
	if event.OwnerID != strings.TrimSpace(input.ActorID) {
		return ports.ApplyPackageResult{}, false, domainerrors.ErrNotOwner
	}

	deal, err := s.Packages.GetPackage(ctx, strings.TrimSpace(input.PackageID))
	if err != nil {
		return ports.ApplyPackageResult{}, false, err
	}
	if !deal.Active {
		return ports.ApplyPackageResult{}, false, domainerrors.ErrPackageInactive
	}
	if deal.EventType != event.EventType {
		return ports.ApplyPackageResult{}, false, domainerrors.ErrPackageIncompatible
	}

	applied := entities.AppliedPackage{
		EventID:   event.EventID,
		PackageID: deal.PackageID,
		AppliedAt: now,
	}
	if err := s.Applications.UpsertAppliedPackage(ctx, applied); err != nil {
		return ports.ApplyPackageResult{}, false, err
	}

	result := ports.ApplyPackageResult{
		Applied: applied,
		Package: deal,
		Success: true,
	}

	// Step 2: replace (not add to) the aggregate budget with the discounted
	// package price.
	if deal.BasePrice.IsPositive() {
		discount := round2(deal.BasePrice.Mul(deal.DiscountPercent).Div(oneHundred))
		newTotal := round2(deal.BasePrice.Sub(discount))
		if err := s.Events.UpdateEventBudget(ctx, event.EventID, newTotal, now); err != nil {
			resolveLogger(s.Logger).Error("event budget update failed after package record",
				"event", "package_apply_budget_update_failed",
				"module", "event-planning/budget-service",
				"layer", "application",
				"event_id", event.EventID,
				"package_id", deal.PackageID,
				"error", err.Error(),
			)
			return result, false, domainerrors.ErrPartialApply
		}
		result.EventUpdated = true
		result.NewBudgetTotal = newTotal
	}

	// Step 3: one entry per covered category, upserted by (event, category)
	// so repeated application stays idempotent.
	if len(deal.Categories) > 0 {
		perCategory := round2(
			deal.BasePrice.
				Div(decimal.NewFromInt(int64(len(deal.Categories)))).
				Mul(decimal.NewFromInt(1).Sub(deal.DiscountPercent.Div(oneHundred))),
		)
		for _, category := range deal.Categories {
			entry := entities.BreakdownEntry{
				EventID:          event.EventID,
				ServiceCategory:  category,
				EstimatedCost:    perCategory,
				PackageApplied:   true,
				AppliedPackageID: deal.PackageID,
				UpdatedAt:        now,
			}
			if err := s.Breakdown.UpsertEntry(ctx, entry); err != nil {
				resolveLogger(s.Logger).Error("breakdown generation failed after package record",
					"event", "package_apply_breakdown_failed",
					"module", "event-planning/budget-service",
					"layer", "application",
					"event_id", event.EventID,
					"package_id", deal.PackageID,
					"category", category,
					"error", err.Error(),
				)
				return result, false, domainerrors.ErrPartialApply
			}
			result.EntriesWritten++
		}
		result.BudgetUpdated = true
	}

	s.appendPackageAppliedOutbox(ctx, result)

	if idempotencyKey != "" && s.Idempotency != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			return ports.ApplyPackageResult{}, false, err
		}
		if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
			Key:             idempotencyKey,
			RequestHash:     requestHash,
			ResponsePayload: payload,
			ExpiresAt:       now.Add(s.idempotencyTTL()),
		}); err != nil {
			return ports.ApplyPackageResult{}, false, err
		}
	}

	resolveLogger(s.Logger).Info("package applied to event",
		"event", "package_applied",
		"module", "event-planning/budget-service",
		"layer", "application",
		"event_id", event.EventID,
		"package_id", deal.PackageID,
		"entries_written", result.EntriesWritten,
	)
	return result, false, nil
}

// GetBreakdown returns the event's category allocation and the rounded sum
// of the returned entries' costs. The sum is intentionally independent of
// the event's stored aggregate budget: both figures are meaningful and they
// can diverge after manual adjustments.
func (s Service) GetBreakdown(ctx context.Context, input ports.GetBreakdownInput) (ports.BreakdownView, error) {
	if strings.TrimSpace(input.EventID) == "" || strings.TrimSpace(input.ActorID) == "" {
		return ports.BreakdownView{}, domainerrors.ErrInvalidInput
	}
	requested, err := normalizeCategories(input.Categories)
	if err != nil {
		return ports.BreakdownView{}, err
	}

	event, err := s.Events.GetEvent(ctx, strings.TrimSpace(input.EventID))
	if err != nil {
		return ports.BreakdownView{}, err
	}
	if event.OwnerID != strings.TrimSpace(input.ActorID) {
		return ports.BreakdownView{}, domainerrors.ErrNotOwner
	}

	entries, err := s.Breakdown.ListEntries(ctx, event.EventID)
	if err != nil {
		return ports.BreakdownView{}, err
	}

	view := ports.BreakdownView{Entries: make([]entities.BreakdownEntry, 0, len(entries))}
	total := decimal.Zero
	for _, entry := range entries {
		if len(requested) > 0 && !containsCategory(requested, entry.ServiceCategory) {
			continue
		}
		view.Entries = append(view.Entries, entry)
		total = total.Add(entry.EstimatedCost)
	}
	view.Total = round2(total)
	return view, nil
}

// ApplyAdjustments applies owner adjustments sequentially in input order.
// A category without an entry is created at zero cost first and tagged as
// created, so adjustments never silently drop. Costs are floored at zero
// with the clamp reported per entry.
func (s Service) ApplyAdjustments(ctx context.Context, input ports.ApplyAdjustmentsInput) (ports.AdjustmentResult, error) {
	if strings.TrimSpace(input.EventID) == "" ||
		strings.TrimSpace(input.ActorID) == "" ||
		len(input.Adjustments) == 0 {
		return ports.AdjustmentResult{}, domainerrors.ErrInvalidInput
	}
	for _, adjustment := range input.Adjustments {
		if strings.TrimSpace(adjustment.ServiceCategory) == "" {
			return ports.AdjustmentResult{}, domainerrors.ErrInvalidInput
		}
		if adjustment.Type != entities.AdjustmentPercentage && adjustment.Type != entities.AdjustmentFixed {
			return ports.AdjustmentResult{}, domainerrors.ErrInvalidInput
		}
	}

	event, err := s.Events.GetEvent(ctx, strings.TrimSpace(input.EventID))
	if err != nil {
		return ports.AdjustmentResult{}, err
	}
	if event.OwnerID != strings.TrimSpace(input.ActorID) {
		return ports.AdjustmentResult{}, domainerrors.ErrNotOwner
	}

	existing, err := s.Breakdown.ListEntries(ctx, event.EventID)
	if err != nil {
		return ports.AdjustmentResult{}, err
	}

	now := s.now()
	byCategory := make(map[string]*ports.AdjustedEntry, len(existing))
	order := make([]string, 0, len(existing))
	for _, entry := range existing {
		item := ports.AdjustedEntry{Entry: entry}
		byCategory[entry.ServiceCategory] = &item
		order = append(order, entry.ServiceCategory)
	}

	touched := make(map[string]bool, len(input.Adjustments))
	for _, adjustment := range input.Adjustments {
		category := strings.TrimSpace(adjustment.ServiceCategory)
		item, ok := byCategory[category]
		if !ok {
			// Explicit create-then-adjust: missing categories start at zero.
			item = &ports.AdjustedEntry{
				Entry: entities.BreakdownEntry{
					EventID:         event.EventID,
					ServiceCategory: category,
					EstimatedCost:   decimal.Zero,
				},
				Created: true,
			}
			byCategory[category] = item
			order = append(order, category)
		}

		current := item.Entry.EstimatedCost
		var next decimal.Decimal
		switch adjustment.Type {
		case entities.AdjustmentPercentage:
			next = current.Mul(decimal.NewFromInt(1).Add(adjustment.Value.Div(oneHundred)))
		case entities.AdjustmentFixed:
			next = current.Add(adjustment.Value)
		}
		if next.IsNegative() {
			next = decimal.Zero
			item.Clamped = true
		}
		item.Entry.EstimatedCost = next
		item.Entry.UpdatedAt = now
		touched[category] = true
	}

	result := ports.AdjustmentResult{Entries: make([]ports.AdjustedEntry, 0, len(order))}
	total := decimal.Zero
	for _, category := range order {
		item := byCategory[category]
		if touched[category] {
			item.Entry.EstimatedCost = round2(item.Entry.EstimatedCost)
			if err := s.Breakdown.UpsertEntry(ctx, item.Entry); err != nil {
				return ports.AdjustmentResult{}, err
			}
		}
		result.Entries = append(result.Entries, *item)
		total = total.Add(item.Entry.EstimatedCost)
	}
	result.Total = round2(total)

	s.appendBudgetAdjustedOutbox(ctx, event.EventID, input.Adjustments, result.Total)

	resolveLogger(s.Logger).Info("budget adjustments applied",
		"event", "budget_adjusted",
		"module", "event-planning/budget-service",
		"layer", "application",
		"event_id", event.EventID,
		"adjustments", len(input.Adjustments),
		"total", result.Total.StringFixed(2),
	)
	return result, nil
}

func (s Service) appendPackageAppliedOutbox(ctx context.Context, result ports.ApplyPackageResult) {
	if s.Outbox == nil || s.DisableEventEmission {
		return
	}
	eventID, err := s.newID(ctx)
	if err != nil {
		s.logOutboxSkip("package.applied", result.Applied.EventID, err)
		return
	}
	data, err := json.Marshal(map[string]any{
		"event_id":         result.Applied.EventID,
		"package_id":       result.Applied.PackageID,
		"applied_at":       result.Applied.AppliedAt.UTC().Format(time.RFC3339),
		"event_updated":    result.EventUpdated,
		"budget_updated":   result.BudgetUpdated,
		"new_budget_total": result.NewBudgetTotal.StringFixed(2),
	})
	if err != nil {
		s.logOutboxSkip("package.applied", result.Applied.EventID, err)
		return
	}
	if err := s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        "package.applied",
		OccurredAt:       result.Applied.AppliedAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "event_id",
		PartitionKey:     result.Applied.EventID,
		Data:             data,
	}); err != nil {
		s.logOutboxSkip("package.applied", result.Applied.EventID, err)
	}
}

func (s Service) appendBudgetAdjustedOutbox(
	ctx context.Context,
	planEventID string,
	adjustments []entities.BudgetAdjustment,
	total decimal.Decimal,
) {
	if s.Outbox == nil || s.DisableEventEmission {
		return
	}
	eventID, err := s.newID(ctx)
	if err != nil {
		s.logOutboxSkip("budget.adjusted", planEventID, err)
		return
	}
	categories := make([]string, 0, len(adjustments))
	for _, adjustment := range adjustments {
		categories = append(categories, strings.TrimSpace(adjustment.ServiceCategory))
	}
	data, err := json.Marshal(map[string]any{
		"event_id":   planEventID,
		"categories": categories,
		"total":      total.StringFixed(2),
	})
	if err != nil {
		s.logOutboxSkip("budget.adjusted", planEventID, err)
		return
	}
	if err := s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        "budget.adjusted",
		OccurredAt:       s.now(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "event_id",
		PartitionKey:     planEventID,
		Data:             data,
	}); err != nil {
		s.logOutboxSkip("budget.adjusted", planEventID, err)
	}
}

// Outbox emission is advisory for downstream dashboards; a failed append
// must not fail an otherwise committed budget operation.
func (s Service) logOutboxSkip(eventType string, planEventID string, err error) {
	resolveLogger(s.Logger).Warn("outbox append skipped",
		"event", "budget_outbox_append_skipped",
		"module", "event-planning/budget-service",
		"layer", "application",
		"event_type", eventType,
		"event_id", planEventID,
		"error", err.Error(),
	)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) newID(ctx context.Context) (string, error) {
	if s.IDGen == nil {
		return "", domainerrors.ErrStorageUnavailable
	}
	return s.IDGen.NewID(ctx)
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func normalizeCategories(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	categories := make([]string, 0, len(raw))
	for _, category := range raw {
		value := strings.TrimSpace(category)
		if value == "" {
			return nil, domainerrors.ErrInvalidInput
		}
		categories = append(categories, value)
	}
	return categories, nil
}

func intersects(covered []string, requested []string) bool {
	for _, category := range covered {
		if containsCategory(requested, category) {
			return true
		}
	}
	return false
}

func containsCategory(categories []string, category string) bool {
	for _, candidate := range categories {
		if candidate == category {
			return true
		}
	}
	return false
}

func round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

func hashPayload(payload map[string]any) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
