// cmd/simulate/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/stocksim/internal/cache"
	"github.com/andresuchdata/stocksim/internal/config"
	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/andresuchdata/stocksim/internal/export"
	csvprovider "github.com/andresuchdata/stocksim/internal/provider/csv"
	"github.com/andresuchdata/stocksim/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory containing the CSV datasets",
			Value:   "./data",
			EnvVars: []string{"SIM_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:     "product",
			Usage:    "Product ID to simulate",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "start",
			Usage:    "Simulation start date (YYYY-MM-DD)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "end",
			Usage:    "Simulation end date (YYYY-MM-DD)",
			Required: true,
		},
		&cli.Int64Flag{
			Name:    "seed",
			Usage:   "Random seed for the reliability trials",
			Value:   42,
			EnvVars: []string{"SIM_SEED"},
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Output directory for result artifacts",
			Value: ".",
		},
		&cli.BoolFlag{
			Name:  "upload",
			Usage: "Publish result artifacts to the configured export bucket",
		},
	}
}

func buildService(c *cli.Context) (*service.SimulationService, error) {
	dataProvider, err := csvprovider.NewProvider(c.String("data-dir"))
	if err != nil {
		return nil, err
	}

	simCfg := config.Load().Simulation
	simCfg.Seed = c.Int64("seed")

	return service.NewSimulationService(dataProvider, cache.NewNoopResultCache(), simCfg), nil
}

func parseRange(c *cli.Context) (domain.DateRange, error) {
	start, err := domain.ParseDay(c.String("start"))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := domain.ParseDay(c.String("end"))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid --end: %w", err)
	}
	return domain.NewDateRange(start, end), nil
}

func uploadArtifacts(ctx context.Context, paths ...string) error {
	client, err := export.NewMinioClient(config.Load().Export)
	if err != nil {
		return err
	}
	for _, path := range paths {
		key := filepath.Base(path)
		if err := client.UploadFile(ctx, key, path); err != nil {
			return err
		}
		log.Info().Str("key", key).Msg("artifact uploaded")
	}
	return nil
}

func runCommand(c *cli.Context) error {
	svc, err := buildService(c)
	if err != nil {
		return err
	}

	rng, err := parseRange(c)
	if err != nil {
		return err
	}

	product := c.String("product")
	result, err := svc.RunSimulation(c.Context, product, rng, nil)
	if err != nil {
		return err
	}

	outDir := c.String("out")
	timelinePath := filepath.Join(outDir, fmt.Sprintf("%s_timeline.csv", product))
	metricsPath := filepath.Join(outDir, fmt.Sprintf("%s_metrics.json", product))

	if err := export.WriteTimeline(timelinePath, result); err != nil {
		return fmt.Errorf("write timeline: %w", err)
	}
	if err := export.WriteMetrics(metricsPath, result); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	fmt.Printf("Simulated %s from %s to %s (%d days)\n",
		product, rng.Start.Format(domain.DateFormat), rng.End.Format(domain.DateFormat), rng.Days())
	fmt.Printf("  holding cost:  %10.2f\n", result.Metrics.TotalHoldingCost)
	fmt.Printf("  ordering cost: %10.2f\n", result.Metrics.TotalOrderingCost)
	fmt.Printf("  stockout cost: %10.2f\n", result.Metrics.TotalStockoutCost)
	fmt.Printf("  stockout days: %d\n", result.Metrics.StockoutDays)
	fmt.Printf("  service level: %.1f%%\n", result.Metrics.ServiceLevel*100)

	if c.Bool("upload") {
		return uploadArtifacts(c.Context, timelinePath, metricsPath)
	}
	return nil
}

func compareCommand(c *cli.Context) error {
	svc, err := buildService(c)
	if err != nil {
		return err
	}

	rng, err := parseRange(c)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(c.String("scenarios"))
	if err != nil {
		return fmt.Errorf("read scenarios file: %w", err)
	}
	var scenarios []domain.Scenario
	if err := json.Unmarshal(payload, &scenarios); err != nil {
		return fmt.Errorf("parse scenarios file: %w", err)
	}

	product := c.String("product")
	result, err := svc.CompareScenarios(c.Context, product, scenarios, rng)
	if err != nil {
		return err
	}

	outDir := c.String("out")
	comparisonPath := filepath.Join(outDir, fmt.Sprintf("%s_comparison.json", product))
	if err := export.WriteComparison(comparisonPath, result); err != nil {
		return fmt.Errorf("write comparison: %w", err)
	}

	fmt.Printf("Baseline total cost: %.2f, service level %.1f%%\n",
		result.Baseline.TotalCost(), result.Baseline.ServiceLevel*100)
	for name, outcome := range result.Scenarios {
		fmt.Printf("  %-20s cost delta %+10.2f  service delta %+.1f%%\n",
			name, outcome.CostDelta, outcome.ServiceLevelDelta*100)
	}

	if c.Bool("upload") {
		return uploadArtifacts(c.Context, comparisonPath)
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	dataProvider, err := csvprovider.NewProvider(c.String("data-dir"))
	if err != nil {
		return err
	}

	product := c.String("product")
	if err := dataProvider.ValidateContinuity(product); err != nil {
		return err
	}

	fmt.Printf("Ledger continuity OK for %s\n", product)
	return nil
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "simulate",
		Usage: "Run inventory what-if simulations against CSV datasets",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run a single simulation and write its ledger and metrics",
				Flags:  commonFlags(),
				Action: runCommand,
			},
			{
				Name:  "compare",
				Usage: "Compare named scenarios against the baseline policy",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "scenarios",
						Usage:    "JSON file with named scenario overrides",
						Required: true,
					},
				),
				Action: compareCommand,
			},
			{
				Name:  "validate",
				Usage: "Check inventory ledger continuity for a product",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing the CSV datasets",
						Value:   "./data",
						EnvVars: []string{"SIM_DATA_DIR"},
					},
					&cli.StringFlag{
						Name:     "product",
						Usage:    "Product ID to validate",
						Required: true,
					},
				},
				Action: validateCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("simulate failed")
	}
}
