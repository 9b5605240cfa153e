// internal/simulation/demand.go
package simulation

import (
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
)

// DemandSource serves per-day demand for a single product. Ad-hoc overrides
// take precedence over the base series. A date covered by neither is an
// error, never a silent zero: masking a data gap would corrupt the cost and
// continuity checks downstream.
type DemandSource struct {
	productID string
	base      map[time.Time]int
	overrides map[time.Time]int
}

// NewDemandSource builds a source from a base series and optional overrides.
// All dates are normalized to day precision.
func NewDemandSource(productID string, series []domain.DemandRecord, overrides map[time.Time]int) *DemandSource {
	base := make(map[time.Time]int, len(series))
	for _, rec := range series {
		base[domain.Day(rec.Date)] = rec.Quantity
	}

	ov := make(map[time.Time]int, len(overrides))
	for d, qty := range overrides {
		ov[domain.Day(d)] = qty
	}

	return &DemandSource{
		productID: productID,
		base:      base,
		overrides: ov,
	}
}

// Demand returns the quantity demanded on the given day.
func (s *DemandSource) Demand(date time.Time) (int, error) {
	day := domain.Day(date)

	if qty, ok := s.overrides[day]; ok {
		return qty, nil
	}
	if qty, ok := s.base[day]; ok {
		return qty, nil
	}

	return 0, &domain.NotFoundError{Entity: "demand", ID: s.productID, Date: day}
}
