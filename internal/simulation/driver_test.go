package simulation

import (
	"testing"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatDemand(productID string, start, end time.Time, qty int) *DemandSource {
	series := make([]domain.DemandRecord, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		series = append(series, domain.DemandRecord{Date: d, ProductID: productID, Quantity: qty})
	}
	return NewDemandSource(productID, series, nil)
}

func baseConfig(reliability float64) Config {
	start := day(2025, 3, 1)
	end := day(2025, 3, 10)

	return Config{
		ProductID: "P1",
		Policy: domain.Policy{
			ProductID:    "P1",
			SupplierID:   "SUP-1",
			EOQ:          200,
			ReorderPoint: 50,
			SafetyStock:  0,
			UnitCost:     10,
		},
		Supplier: domain.Supplier{
			SupplierID:   "SUP-1",
			MOQ:          100,
			LeadTimeDays: 5,
			Reliability:  reliability,
			UnitCost:     8,
		},
		Range:        domain.NewDateRange(start, end),
		OpeningStock: 60,
		Demand:       flatDemand("P1", start, end, 20),
		Seed:         42,
	}
}

func TestDriverRunReplenishmentCycle(t *testing.T) {
	driver, err := NewDriver(baseConfig(1.0))
	require.NoError(t, err)

	result, err := driver.Run()
	require.NoError(t, err)
	require.Len(t, result.Timeline, 10)

	// Day 1: stock drops to 40, at or below the reorder level of 50, so an
	// order for the EOQ goes out with the flat ordering cost attached.
	first := result.Timeline[0]
	assert.Equal(t, 60, first.OpeningStock)
	assert.Equal(t, 20, first.Sold)
	assert.Equal(t, 40, first.ClosingStock)
	assert.InDelta(t, 0.1*100*8, first.OrderingCost, 1e-9)

	// Days 4 and 5 stock out while the order is in flight.
	assert.Equal(t, 20, result.Timeline[3].UnmetDemand)
	assert.Equal(t, 20, result.Timeline[4].UnmetDemand)

	// Day 6: the 200-unit order lands five days after placement. Opening
	// stock is recorded before the arrival.
	arrivalDay := result.Timeline[5]
	assert.Equal(t, day(2025, 3, 6), arrivalDay.Date)
	assert.Equal(t, 0, arrivalDay.OpeningStock)
	assert.Equal(t, 200, arrivalDay.RestockedQty)
	assert.Equal(t, 180, arrivalDay.ClosingStock)

	// No further order: stock stays above the reorder level.
	for _, rec := range result.Timeline[1:] {
		assert.Zero(t, rec.OrderingCost)
	}

	assert.Equal(t, 2, result.Metrics.StockoutDays)
	assert.InDelta(t, 0.8, result.Metrics.ServiceLevel, 1e-9)
	assert.InDelta(t, 0.1*100*8, result.Metrics.TotalOrderingCost, 1e-9)
	assert.InDelta(t, 40*5.0, result.Metrics.TotalStockoutCost, 1e-9)

	// 40+20+0+0+0+180+160+140+120+100 closing units over the run.
	assert.InDelta(t, 760*10*0.25/365, result.Metrics.TotalHoldingCost, 1e-9)
}

func TestDriverRunConservation(t *testing.T) {
	driver, err := NewDriver(baseConfig(1.0))
	require.NoError(t, err)

	result, err := driver.Run()
	require.NoError(t, err)

	for _, rec := range result.Timeline {
		assert.Equal(t, rec.OpeningStock+rec.RestockedQty-rec.Sold, rec.ClosingStock,
			"conservation violated on %s", rec.Date.Format(domain.DateFormat))
		assert.Equal(t, rec.Demand, rec.Sold+rec.UnmetDemand)
	}
}

func TestDriverRunUnreliableSupplierNeverDelivers(t *testing.T) {
	driver, err := NewDriver(baseConfig(0.0))
	require.NoError(t, err)

	result, err := driver.Run()
	require.NoError(t, err)

	// Every trial fails: no ordering cost, no restock, stock drains to zero
	// and stays there.
	assert.Zero(t, result.Metrics.TotalOrderingCost)
	for _, rec := range result.Timeline {
		assert.Zero(t, rec.RestockedQty)
	}
	assert.Zero(t, result.Timeline[len(result.Timeline)-1].ClosingStock)
	assert.Greater(t, result.Metrics.StockoutDays, 0)
}

func TestDriverRunIsDeterministic(t *testing.T) {
	run := func() *domain.SimulationResult {
		driver, err := NewDriver(baseConfig(0.7))
		require.NoError(t, err)
		result, err := driver.Run()
		require.NoError(t, err)
		return result
	}

	require.Equal(t, run(), run())
}

func TestDriverRunZeroDemandServiceLevel(t *testing.T) {
	cfg := baseConfig(1.0)
	cfg.Demand = flatDemand("P1", cfg.Range.Start, cfg.Range.End, 0)

	driver, err := NewDriver(cfg)
	require.NoError(t, err)

	result, err := driver.Run()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Metrics.ServiceLevel, 1e-9)
	assert.Zero(t, result.Metrics.StockoutDays)
}

func TestDriverRunMissingDemandAborts(t *testing.T) {
	cfg := baseConfig(1.0)
	// Series stops three days short of the range.
	cfg.Demand = flatDemand("P1", cfg.Range.Start, cfg.Range.End.AddDate(0, 0, -3), 20)

	driver, err := NewDriver(cfg)
	require.NoError(t, err)

	result, err := driver.Run()
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Nil(t, result)
}

func TestNewDriverValidation(t *testing.T) {
	t.Run("inverted range", func(t *testing.T) {
		cfg := baseConfig(1.0)
		cfg.Range = domain.DateRange{Start: day(2025, 3, 10), End: day(2025, 3, 1)}

		_, err := NewDriver(cfg)
		require.Error(t, err)
		assert.True(t, domain.IsDateRange(err))
	})

	t.Run("missing demand source", func(t *testing.T) {
		cfg := baseConfig(1.0)
		cfg.Demand = nil

		_, err := NewDriver(cfg)
		require.Error(t, err)
	})

	t.Run("invalid policy", func(t *testing.T) {
		cfg := baseConfig(1.0)
		cfg.Policy.EOQ = 0

		_, err := NewDriver(cfg)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("out-of-range reliability", func(t *testing.T) {
		cfg := baseConfig(1.5)

		_, err := NewDriver(cfg)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestDriverExplicitCostParameters(t *testing.T) {
	cfg := baseConfig(1.0)
	cfg.AnnualHoldingRate = 0.5
	cfg.StockoutPenalty = 2.0
	cfg.OrderCost = 33.0

	driver, err := NewDriver(cfg)
	require.NoError(t, err)

	result, err := driver.Run()
	require.NoError(t, err)

	assert.InDelta(t, 33.0, result.Metrics.TotalOrderingCost, 1e-9)
	assert.InDelta(t, 40*2.0, result.Metrics.TotalStockoutCost, 1e-9)
	assert.InDelta(t, 760*10*0.5/365, result.Metrics.TotalHoldingCost, 1e-9)
}
