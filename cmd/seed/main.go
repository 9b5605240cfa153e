// cmd/seed/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/stocksim/internal/config"
	"github.com/andresuchdata/stocksim/internal/ingest"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// Datasets are loaded in this order so suppliers exist before the policies
// that reference them.
var seedFiles = []struct {
	dataset  string
	filename string
}{
	{ingest.DatasetSuppliers, "suppliers.csv"},
	{ingest.DatasetPolicies, "inventory_policy.csv"},
	{ingest.DatasetForecast, "clean_forecast.csv"},
	{ingest.DatasetLedger, "inventory_ledger.csv"},
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		supplier_id TEXT PRIMARY KEY,
		moq INTEGER NOT NULL,
		lead_time INTEGER NOT NULL,
		reliability DOUBLE PRECISION NOT NULL,
		unit_cost DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_policies (
		product_id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		eoq INTEGER NOT NULL,
		reorder_point INTEGER NOT NULL,
		safety_stock INTEGER NOT NULL,
		unit_cost DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS forecast (
		date DATE NOT NULL,
		product_id TEXT NOT NULL,
		predicted_units INTEGER NOT NULL,
		PRIMARY KEY (date, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_ledger (
		date DATE NOT NULL,
		product_id TEXT NOT NULL,
		opening_stock INTEGER NOT NULL,
		closing_stock INTEGER NOT NULL,
		restocked_qty INTEGER NOT NULL,
		PRIMARY KEY (date, product_id)
	)`,
}

func connect(c *cli.Context) (*sqlx.DB, error) {
	dbURL := c.String("db-url")
	if dbURL == "" {
		dbCfg := config.Load().Database
		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.DBName, dbCfg.SSLMode)
	}
	return sqlx.Connect("pgx", dbURL)
}

func seedAction(c *cli.Context) error {
	db, err := connect(c)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	ctx := c.Context
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	svc := ingest.NewService(db)
	dataDir := c.String("data-dir")

	for _, sf := range seedFiles {
		path := filepath.Join(dataDir, sf.filename)

		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) && c.Bool("skip-missing") {
				log.Warn().Str("file", path).Msg("dataset file missing, skipped")
				continue
			}
			return fmt.Errorf("open %s: %w", path, err)
		}

		rows, err := svc.IngestDataset(ctx, sf.dataset, file)
		file.Close()
		if err != nil {
			return fmt.Errorf("seed %s: %w", sf.dataset, err)
		}

		log.Info().Str("dataset", sf.dataset).Int("rows", rows).Msg("dataset seeded")
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "seed",
		Usage: "Load the CSV datasets into Postgres",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory containing the CSV datasets",
				Value:   "./data",
				EnvVars: []string{"SIM_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Postgres connection URL (overrides DB_* environment variables)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.BoolFlag{
				Name:  "skip-missing",
				Usage: "Skip dataset files that do not exist instead of failing",
			},
		},
		Action: seedAction,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}
