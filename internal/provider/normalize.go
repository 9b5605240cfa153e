package provider

import "github.com/andresuchdata/stocksim/internal/domain"

// NormalizeSupplier brings a raw supplier row onto the engine's scales:
// lead time clamped to 1-30 days, reliability converted from a 0-100
// percentage to [0,1] when needed. Source data mixes both reliability
// representations, so the conversion happens once here and nowhere else.
func NormalizeSupplier(s domain.Supplier) domain.Supplier {
	if s.LeadTimeDays < 1 {
		s.LeadTimeDays = 1
	}
	if s.LeadTimeDays > 30 {
		s.LeadTimeDays = 30
	}

	if s.Reliability > 1 {
		s.Reliability = s.Reliability / 100
	}
	if s.Reliability < 0 {
		s.Reliability = 0
	}
	if s.Reliability > 1 {
		s.Reliability = 1
	}

	return s
}

// CheckCoverage verifies that the requested range lies inside the demand
// series coverage.
func CheckCoverage(productID string, rng domain.DateRange, series []domain.DemandRecord) error {
	if len(series) == 0 {
		return &domain.DateRangeError{
			ProductID: productID,
			Start:     rng.Start,
			End:       rng.End,
			Reason:    "no demand series available",
		}
	}

	coverage := domain.NewDateRange(series[0].Date, series[0].Date)
	for _, rec := range series[1:] {
		day := domain.Day(rec.Date)
		if day.Before(coverage.Start) {
			coverage.Start = day
		}
		if day.After(coverage.End) {
			coverage.End = day
		}
	}

	if rng.Start.Before(coverage.Start) || rng.End.After(coverage.End) {
		return &domain.DateRangeError{
			ProductID:     productID,
			Start:         rng.Start,
			End:           rng.End,
			CoverageStart: coverage.Start,
			CoverageEnd:   coverage.End,
		}
	}

	return nil
}
