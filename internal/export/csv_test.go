package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *domain.SimulationResult {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.SimulationResult{
		ProductID: "P1",
		Start:     start,
		End:       start.AddDate(0, 0, 1),
		Seed:      42,
		Timeline: []domain.DailyRecord{
			{
				Date: start, OpeningStock: 60, Demand: 20, Sold: 20,
				ClosingStock: 40, HoldingCost: 0.274, OrderingCost: 80,
			},
			{
				Date: start.AddDate(0, 0, 1), OpeningStock: 40, Demand: 50, Sold: 40,
				UnmetDemand: 10, ClosingStock: 0, HoldingCost: 0,
			},
		},
		Metrics: domain.Metrics{
			TotalHoldingCost:  0.274,
			TotalOrderingCost: 80,
			TotalStockoutCost: 50,
			StockoutDays:      1,
			ServiceLevel:      60.0 / 70.0,
		},
	}
}

func TestWriteTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.csv")
	require.NoError(t, WriteTimeline(path, sampleResult()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"date", "opening_stock", "demand", "sold", "unmet_demand",
		"closing_stock", "restocked_qty", "holding_cost", "ordering_cost",
	}, rows[0])
	assert.Equal(t, []string{"2025-03-01", "60", "20", "20", "0", "40", "0", "0.2740", "80.0000"}, rows[1])
	assert.Equal(t, "10", rows[2][4])
}

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, WriteMetrics(path, sampleResult()))

	payload, err := os.ReadFile(path)
	require.NoError(t, err)

	var metrics domain.Metrics
	require.NoError(t, json.Unmarshal(payload, &metrics))
	assert.Equal(t, 1, metrics.StockoutDays)
	assert.InDelta(t, 80.0, metrics.TotalOrderingCost, 1e-9)
}

func TestWriteComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.json")

	comparison := &domain.ComparisonResult{
		ProductID: "P1",
		Baseline:  sampleResult().Metrics,
		Scenarios: map[string]domain.ScenarioOutcome{
			"cheaper-supplier": {CostDelta: -12.5, ServiceLevelDelta: 0.1},
		},
	}
	require.NoError(t, WriteComparison(path, comparison))

	payload, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.ComparisonResult
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "P1", decoded.ProductID)
	require.Contains(t, decoded.Scenarios, "cheaper-supplier")
	assert.InDelta(t, -12.5, decoded.Scenarios["cheaper-supplier"].CostDelta, 1e-9)
}

func TestWriteTimelineBadPath(t *testing.T) {
	err := WriteTimeline(filepath.Join(t.TempDir(), "missing", "timeline.csv"), sampleResult())
	require.Error(t, err)
}
