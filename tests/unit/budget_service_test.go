package unit

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	budgetservice "planora/contexts/event-planning/budget-service"
	"planora/contexts/event-planning/budget-service/domain/entities"
	httptransport "planora/contexts/event-planning/budget-service/transport/http"
)

func seedWeddingEvent(module budgetservice.Module) {
	module.Store.SeedEvent(entities.Event{
		EventID:   "event-wed-1",
		OwnerID:   "user-wed-1",
		EventType: "wedding",
	})
	module.Store.SeedPackage(entities.PackageDeal{
		PackageID:       "pkg-wed-1",
		EventType:       "wedding",
		Name:            "Classic Wedding Bundle",
		BasePrice:       decimal.NewFromInt(1000),
		DiscountPercent: decimal.NewFromInt(20),
		Categories:      []string{"catering", "venue"},
		Active:          true,
		CatalogRank:     1,
	})
	module.Store.SeedPackage(entities.PackageDeal{
		PackageID:       "pkg-wed-2",
		EventType:       "wedding",
		Name:            "Premiere Wedding Bundle",
		BasePrice:       decimal.NewFromInt(3000),
		DiscountPercent: decimal.NewFromInt(25),
		Categories:      []string{"catering", "venue", "photography", "music"},
		Active:          true,
		CatalogRank:     2,
	})
}

func TestBudgetListPackagesSavingsOrdering(t *testing.T) {
	module := budgetservice.NewInMemoryModule(nil)
	seedWeddingEvent(module)
	ctx := context.Background()

	resp, err := module.Handler.ListPackagesHandler(ctx, httptransport.ListPackagesRequest{
		EventType: "wedding",
	})
	if err != nil {
		t.Fatalf("list packages failed: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(resp.Data))
	}
	if resp.Data[0].PackageID != "pkg-wed-2" {
		t.Fatalf("expected premiere bundle first by savings, got %s", resp.Data[0].PackageID)
	}
	if resp.Data[0].Savings != "750.00" || resp.Data[0].FinalPrice != "2250.00" {
		t.Fatalf("unexpected premiere math: %+v", resp.Data[0])
	}
	if resp.Data[1].Savings != "200.00" || resp.Data[1].FinalPrice != "800.00" {
		t.Fatalf("unexpected classic math: %+v", resp.Data[1])
	}
	if resp.TotalSavings != "950.00" {
		t.Fatalf("expected total savings 950.00, got %s", resp.TotalSavings)
	}
}

func TestBudgetApplyPackageEndToEnd(t *testing.T) {
	module := budgetservice.NewInMemoryModule(nil)
	seedWeddingEvent(module)
	ctx := context.Background()

	applied, err := module.Handler.ApplyPackageHandler(
		ctx,
		"user-wed-1",
		"event-wed-1",
		"",
		httptransport.ApplyPackageRequest{PackageID: "pkg-wed-1"},
	)
	if err != nil {
		t.Fatalf("apply package failed: %v", err)
	}
	if applied.Status != "success" || !applied.Success {
		t.Fatalf("expected success response, got %+v", applied)
	}
	if applied.Data.NewBudgetTotal != "800.00" {
		t.Fatalf("expected new budget 800.00, got %s", applied.Data.NewBudgetTotal)
	}

	breakdown, err := module.Handler.GetBreakdownHandler(ctx, "user-wed-1", httptransport.GetBreakdownRequest{
		EventID: "event-wed-1",
	})
	if err != nil {
		t.Fatalf("get breakdown failed: %v", err)
	}
	if len(breakdown.Data) != 2 || breakdown.Total != "800.00" {
		t.Fatalf("expected two 400.00 entries totalling 800.00, got %+v", breakdown)
	}
}

func TestBudgetApplyPackageReplacesPriorPackageEntries(t *testing.T) {
	module := budgetservice.NewInMemoryModule(nil)
	seedWeddingEvent(module)
	ctx := context.Background()

	if _, err := module.Handler.ApplyPackageHandler(ctx, "user-wed-1", "event-wed-1", "",
		httptransport.ApplyPackageRequest{PackageID: "pkg-wed-1"}); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	second, err := module.Handler.ApplyPackageHandler(ctx, "user-wed-1", "event-wed-1", "",
		httptransport.ApplyPackageRequest{PackageID: "pkg-wed-2"})
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if second.Data.NewBudgetTotal != "2250.00" {
		t.Fatalf("expected budget replaced with 2250.00, got %s", second.Data.NewBudgetTotal)
	}

	breakdown, err := module.Handler.GetBreakdownHandler(ctx, "user-wed-1", httptransport.GetBreakdownRequest{
		EventID: "event-wed-1",
	})
	if err != nil {
		t.Fatalf("get breakdown failed: %v", err)
	}
	// Shared categories are overwritten by the second package; its two new
	// categories are added alongside.
	if len(breakdown.Data) != 4 {
		t.Fatalf("expected 4 entries after second package, got %d", len(breakdown.Data))
	}
	for _, entry := range breakdown.Data {
		if entry.AppliedPackageID != "pkg-wed-2" {
			t.Fatalf("expected every entry to reference pkg-wed-2, got %+v", entry)
		}
		if entry.EstimatedCost != "562.50" {
			t.Fatalf("expected per-category cost 562.50, got %s", entry.EstimatedCost)
		}
	}
}

func TestBudgetAdjustmentLifecycle(t *testing.T) {
	module := budgetservice.NewInMemoryModule(nil)
	seedWeddingEvent(module)
	ctx := context.Background()

	if _, err := module.Handler.ApplyPackageHandler(ctx, "user-wed-1", "event-wed-1", "",
		httptransport.ApplyPackageRequest{PackageID: "pkg-wed-1"}); err != nil {
		t.Fatalf("apply package failed: %v", err)
	}

	resp, err := module.Handler.ApplyAdjustmentsHandler(ctx, "user-wed-1", "event-wed-1",
		httptransport.ApplyAdjustmentsRequest{
			Adjustments: []httptransport.AdjustmentDTO{
				{ServiceCategory: "catering", Type: "percentage", Value: "-10"},
				{ServiceCategory: "venue", Type: "fixed", Value: "-500"},
				{ServiceCategory: "florals", Type: "fixed", Value: "150.50"},
			},
		})
	if err != nil {
		t.Fatalf("apply adjustments failed: %v", err)
	}

	byCategory := make(map[string]httptransport.BreakdownEntryDTO, len(resp.Data))
	for _, entry := range resp.Data {
		byCategory[entry.ServiceCategory] = entry
	}
	if got := byCategory["catering"].EstimatedCost; got != "360.00" {
		t.Fatalf("expected catering 360.00 after -10%%, got %s", got)
	}
	venue := byCategory["venue"]
	if venue.EstimatedCost != "0.00" || !venue.Clamped {
		t.Fatalf("expected venue clamped at 0.00, got %+v", venue)
	}
	florals := byCategory["florals"]
	if florals.EstimatedCost != "150.50" || !florals.Created {
		t.Fatalf("expected florals created at 150.50, got %+v", florals)
	}
	if resp.Total != "510.50" {
		t.Fatalf("expected total 510.50, got %s", resp.Total)
	}
}
