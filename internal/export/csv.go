// internal/export/csv.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/andresuchdata/stocksim/internal/domain"
)

// WriteTimeline writes the daily ledger of a simulation result as CSV.
func WriteTimeline(path string, result *domain.SimulationResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"date", "opening_stock", "demand", "sold", "unmet_demand",
		"closing_stock", "restocked_qty", "holding_cost", "ordering_cost",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range result.Timeline {
		record := []string{
			row.Date.Format(domain.DateFormat),
			fmt.Sprintf("%d", row.OpeningStock),
			fmt.Sprintf("%d", row.Demand),
			fmt.Sprintf("%d", row.Sold),
			fmt.Sprintf("%d", row.UnmetDemand),
			fmt.Sprintf("%d", row.ClosingStock),
			fmt.Sprintf("%d", row.RestockedQty),
			fmt.Sprintf("%.4f", row.HoldingCost),
			fmt.Sprintf("%.4f", row.OrderingCost),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// WriteMetrics writes the aggregate metrics of a result as indented JSON.
func WriteMetrics(path string, result *domain.SimulationResult) error {
	payload, err := json.MarshalIndent(result.Metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	return os.WriteFile(path, payload, 0o644)
}

// WriteComparison writes a scenario comparison as indented JSON.
func WriteComparison(path string, result *domain.ComparisonResult) error {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode comparison: %w", err)
	}
	return os.WriteFile(path, payload, 0o644)
}
