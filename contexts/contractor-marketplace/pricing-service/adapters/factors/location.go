package factors

import (
	"context"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"planora/contexts/contractor-marketplace/pricing-service/ports"
)

// RegionRateTable maps coarse coordinate cells to cost-of-living
// multipliers. Resolve may be overridden to plug in a real geocoding
// collaborator; the default buckets coordinates into 10-degree cells.
type RegionRateTable struct {
	Rates   map[string]decimal.Decimal
	Resolve func(location ports.Location) string
}

func (t RegionRateTable) Factor(_ context.Context, _ string, location ports.Location) (decimal.Decimal, error) {
	resolve := t.Resolve
	if resolve == nil {
		resolve = CellKey
	}
	if factor, ok := t.Rates[resolve(location)]; ok {
		return factor, nil
	}
	return decimal.NewFromInt(1), nil
}

// CellKey buckets a coordinate into a 10-degree grid cell, e.g. "-40:170"
// for Auckland. Coarse on purpose: rates vary by metro region, not street.
func CellKey(location ports.Location) string {
	lat := int(math.Floor(location.Latitude/10)) * 10
	lng := int(math.Floor(location.Longitude/10)) * 10
	return strconv.Itoa(lat) + ":" + strconv.Itoa(lng)
}
