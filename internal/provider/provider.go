// internal/provider/provider.go
package provider

import (
	"context"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
)

// Provider is the typed-record data source the simulation core consumes.
// Implementations normalize supplier rows (lead-time clamp, reliability
// scale) before returning them, so the engine only ever sees clean data.
type Provider interface {
	// GetPolicy returns the replenishment policy for a product. A missing
	// product is a NotFoundError, a duplicated policy row a ValidationError.
	GetPolicy(ctx context.Context, productID string) (domain.Policy, error)

	// GetSupplier returns a normalized supplier contract.
	GetSupplier(ctx context.Context, supplierID string) (domain.Supplier, error)

	// GetDemandSeries returns the demand records covering the requested
	// range, ordered by date. A range exceeding the series coverage is a
	// DateRangeError.
	GetDemandSeries(ctx context.Context, productID string, rng domain.DateRange) ([]domain.DemandRecord, error)

	// GetOpeningStock returns the ledger opening stock for a product on a
	// date. A date absent from the ledger is a NotFoundError.
	GetOpeningStock(ctx context.Context, productID string, date time.Time) (int, error)
}
