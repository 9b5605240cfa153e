// internal/ingest/service.go
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/andresuchdata/stocksim/internal/provider"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Dataset names accepted by the ingest surface.
const (
	DatasetPolicies  = "policies"
	DatasetSuppliers = "suppliers"
	DatasetForecast  = "forecast"
	DatasetLedger    = "ledger"
)

var datasetColumns = map[string][]string{
	DatasetPolicies:  {"product_id", "supplier_id", "eoq", "reorder_point", "safety_stock", "unit_cost"},
	DatasetSuppliers: {"supplier_id", "MOQ", "cost", "lead_time", "reliability"},
	DatasetForecast:  {"date", "product_id", "predicted_units"},
	DatasetLedger:    {"date", "product_id", "opening_stock", "closing_stock", "restocked_qty"},
}

// Service ingests CSV datasets into the Postgres tables the provider reads.
type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// IngestDataset parses one CSV stream and upserts its rows. It returns the
// number of rows written; any malformed row aborts the whole file so a
// partially loaded dataset never reaches the provider.
func (s *Service) IngestDataset(ctx context.Context, dataset string, r io.Reader) (int, error) {
	required, ok := datasetColumns[dataset]
	if !ok {
		return 0, &domain.ValidationError{Entity: "dataset", ID: dataset, Reason: "unknown dataset"}
	}

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read CSV header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := colMap[col]; !ok {
			return 0, &domain.ValidationError{
				Entity: "dataset", ID: dataset, Reason: "missing required column " + col,
			}
		}
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("read CSV record: %w", err)
		}

		if err := s.processRow(ctx, dataset, record, colMap); err != nil {
			return rows, fmt.Errorf("row %d: %w", rows+1, err)
		}
		rows++
	}

	log.Info().Str("dataset", dataset).Int("rows", rows).Msg("dataset ingested")
	return rows, nil
}

func (s *Service) processRow(ctx context.Context, dataset string, record []string, colMap map[string]int) error {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	getFloat := func(colName string) float64 {
		val := getValue(colName)
		if val == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(val, 64)
		return f
	}

	getInt := func(colName string) int {
		val := getValue(colName)
		if val == "" {
			return 0
		}
		// Handle float strings like "1.0"
		f, _ := strconv.ParseFloat(val, 64)
		return int(f)
	}

	switch dataset {
	case DatasetPolicies:
		policy := domain.Policy{
			ProductID:    getValue("product_id"),
			SupplierID:   getValue("supplier_id"),
			EOQ:          getInt("eoq"),
			ReorderPoint: getInt("reorder_point"),
			SafetyStock:  getInt("safety_stock"),
			UnitCost:     getFloat("unit_cost"),
		}
		if err := policy.Validate(); err != nil {
			return err
		}
		return s.upsertPolicy(ctx, policy)

	case DatasetSuppliers:
		supplier := provider.NormalizeSupplier(domain.Supplier{
			SupplierID:   getValue("supplier_id"),
			MOQ:          getInt("MOQ"),
			LeadTimeDays: getInt("lead_time"),
			Reliability:  getFloat("reliability"),
			UnitCost:     getFloat("cost"),
		})
		if err := supplier.Validate(); err != nil {
			return err
		}
		return s.upsertSupplier(ctx, supplier)

	case DatasetForecast:
		date, err := domain.ParseDay(getValue("date"))
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		qty := getInt("predicted_units")
		if qty < 0 {
			return &domain.ValidationError{
				Entity: "demand", ID: getValue("product_id"), Reason: "negative quantity",
			}
		}
		return s.upsertForecast(ctx, getValue("product_id"), date, qty)

	case DatasetLedger:
		date, err := domain.ParseDay(getValue("date"))
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		return s.upsertLedger(ctx, getValue("product_id"), date,
			getInt("opening_stock"), getInt("closing_stock"), getInt("restocked_qty"))
	}

	return nil
}

func (s *Service) upsertPolicy(ctx context.Context, p domain.Policy) error {
	query := `
		INSERT INTO inventory_policies (product_id, supplier_id, eoq, reorder_point, safety_stock, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO UPDATE SET
			supplier_id = EXCLUDED.supplier_id,
			eoq = EXCLUDED.eoq,
			reorder_point = EXCLUDED.reorder_point,
			safety_stock = EXCLUDED.safety_stock,
			unit_cost = EXCLUDED.unit_cost`
	_, err := s.db.ExecContext(ctx, query,
		p.ProductID, p.SupplierID, p.EOQ, p.ReorderPoint, p.SafetyStock, p.UnitCost)
	if err != nil {
		return fmt.Errorf("upsert policy: %w", err)
	}
	return nil
}

func (s *Service) upsertSupplier(ctx context.Context, sup domain.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, moq, lead_time, reliability, unit_cost)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (supplier_id) DO UPDATE SET
			moq = EXCLUDED.moq,
			lead_time = EXCLUDED.lead_time,
			reliability = EXCLUDED.reliability,
			unit_cost = EXCLUDED.unit_cost`
	_, err := s.db.ExecContext(ctx, query,
		sup.SupplierID, sup.MOQ, sup.LeadTimeDays, sup.Reliability, sup.UnitCost)
	if err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}
	return nil
}

func (s *Service) upsertForecast(ctx context.Context, productID string, date time.Time, qty int) error {
	query := `
		INSERT INTO forecast (date, product_id, predicted_units)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, product_id) DO UPDATE SET
			predicted_units = EXCLUDED.predicted_units`
	if _, err := s.db.ExecContext(ctx, query, date, productID, qty); err != nil {
		return fmt.Errorf("upsert forecast: %w", err)
	}
	return nil
}

func (s *Service) upsertLedger(ctx context.Context, productID string, date time.Time, opening, closing, restocked int) error {
	query := `
		INSERT INTO inventory_ledger (date, product_id, opening_stock, closing_stock, restocked_qty)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date, product_id) DO UPDATE SET
			opening_stock = EXCLUDED.opening_stock,
			closing_stock = EXCLUDED.closing_stock,
			restocked_qty = EXCLUDED.restocked_qty`
	if _, err := s.db.ExecContext(ctx, query, date, productID, opening, closing, restocked); err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}
	return nil
}
