package factors

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"planora/contexts/contractor-marketplace/pricing-service/ports"
)

func TestCellKeyFloorsTowardNegativeInfinity(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     string
	}{
		{-36.85, 174.76, "-40:170"}, // Auckland
		{51.50, -0.12, "50:-10"},    // London
		{40.71, -74.00, "40:-80"},   // New York
		{0, 0, "0:0"},
	}
	for _, tc := range cases {
		got := CellKey(ports.Location{Latitude: tc.lat, Longitude: tc.lng})
		if got != tc.want {
			t.Fatalf("CellKey(%v,%v) = %s, want %s", tc.lat, tc.lng, got, tc.want)
		}
	}
}

func TestRegionRateTableFallsBackToNeutral(t *testing.T) {
	table := RegionRateTable{
		Rates: map[string]decimal.Decimal{
			"-40:170": decimal.RequireFromString("1.15"),
		},
	}

	factor, err := table.Factor(context.Background(), "catering", ports.Location{Latitude: -36.85, Longitude: 174.76})
	if err != nil {
		t.Fatalf("factor lookup failed: %v", err)
	}
	if got := factor.String(); got != "1.15" {
		t.Fatalf("expected 1.15 for seeded cell, got %s", got)
	}

	neutral, err := table.Factor(context.Background(), "catering", ports.Location{Latitude: 10, Longitude: 10})
	if err != nil {
		t.Fatalf("fallback lookup failed: %v", err)
	}
	if !neutral.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected neutral fallback, got %s", neutral)
	}
}
