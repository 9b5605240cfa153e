package memory

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProviderRoundTrip(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	p.AddPolicy(domain.Policy{
		ProductID: "P1", SupplierID: "SUP-1",
		EOQ: 200, ReorderPoint: 50, SafetyStock: 10, UnitCost: 4.5,
	})
	p.AddSupplier(domain.Supplier{
		SupplierID: "SUP-1", MOQ: 100, LeadTimeDays: 5, Reliability: 90, UnitCost: 4.0,
	})
	p.AddDemand(
		domain.DemandRecord{Date: day(2025, 3, 2), ProductID: "P1", Quantity: 25},
		domain.DemandRecord{Date: day(2025, 3, 1), ProductID: "P1", Quantity: 20},
	)
	p.AddOpeningStock("P1", day(2025, 3, 1), 60)

	policy, err := p.GetPolicy(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 200, policy.EOQ)

	// Reliability normalized from a percentage at the boundary.
	supplier, err := p.GetSupplier(ctx, "SUP-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, supplier.Reliability, 1e-9)

	// Series comes back date-sorted regardless of insertion order.
	series, err := p.GetDemandSeries(ctx, "P1", domain.NewDateRange(day(2025, 3, 1), day(2025, 3, 2)))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 20, series[0].Quantity)
	assert.Equal(t, 25, series[1].Quantity)

	opening, err := p.GetOpeningStock(ctx, "P1", day(2025, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 60, opening)
}

func TestProviderDuplicatePolicy(t *testing.T) {
	p := NewProvider()
	p.AddPolicy(domain.Policy{ProductID: "P1", EOQ: 200, UnitCost: 4.5})
	p.AddPolicy(domain.Policy{ProductID: "P1", EOQ: 120, UnitCost: 9.0})

	_, err := p.GetPolicy(context.Background(), "P1")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestProviderNotFound(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	_, err := p.GetPolicy(ctx, "P1")
	assert.True(t, domain.IsNotFound(err))

	_, err = p.GetSupplier(ctx, "SUP-1")
	assert.True(t, domain.IsNotFound(err))

	_, err = p.GetOpeningStock(ctx, "P1", day(2025, 3, 1))
	assert.True(t, domain.IsNotFound(err))
}

func TestProviderCoverage(t *testing.T) {
	p := NewProvider()
	p.AddDemand(domain.DemandRecord{Date: day(2025, 3, 1), ProductID: "P1", Quantity: 20})

	_, err := p.GetDemandSeries(context.Background(), "P1", domain.NewDateRange(day(2025, 3, 1), day(2025, 3, 5)))
	require.Error(t, err)
	assert.True(t, domain.IsDateRange(err))
}
