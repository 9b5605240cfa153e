// internal/provider/csv/csv.go
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/andresuchdata/stocksim/internal/provider"
	"github.com/rs/zerolog/log"
)

// Dataset file names expected inside the data directory.
const (
	PolicyFile   = "inventory_policy.csv"
	SupplierFile = "suppliers.csv"
	ForecastFile = "clean_forecast.csv"
	LedgerFile   = "inventory_ledger.csv"
)

var requiredColumns = map[string][]string{
	PolicyFile:   {"product_id", "supplier_id", "eoq", "reorder_point", "safety_stock", "unit_cost"},
	SupplierFile: {"supplier_id", "MOQ", "cost", "lead_time", "reliability"},
	ForecastFile: {"date", "product_id", "predicted_units"},
	LedgerFile:   {"date", "product_id", "opening_stock", "closing_stock", "restocked_qty"},
}

type ledgerRow struct {
	date      time.Time
	opening   int
	closing   int
	restocked int
}

// Provider serves the four CSV datasets from a data directory. All files are
// parsed and validated up front; reliability and lead time are normalized at
// load so the engine never sees raw rows.
type Provider struct {
	policies    map[string]domain.Policy
	dupPolicies map[string]bool
	suppliers   map[string]domain.Supplier
	forecast    map[string][]domain.DemandRecord
	ledger      map[string][]ledgerRow
}

// NewProvider loads and validates every dataset in dataDir.
func NewProvider(dataDir string) (*Provider, error) {
	p := &Provider{
		policies:    make(map[string]domain.Policy),
		dupPolicies: make(map[string]bool),
		suppliers:   make(map[string]domain.Supplier),
		forecast:    make(map[string][]domain.DemandRecord),
		ledger:      make(map[string][]ledgerRow),
	}

	loaders := []struct {
		file string
		fn   func(rows *rowReader) error
	}{
		{PolicyFile, p.loadPolicies},
		{SupplierFile, p.loadSuppliers},
		{ForecastFile, p.loadForecast},
		{LedgerFile, p.loadLedger},
	}

	for _, l := range loaders {
		path := filepath.Join(dataDir, l.file)
		if err := loadFile(path, l.file, l.fn); err != nil {
			return nil, err
		}
	}

	for product := range p.ledger {
		sort.Slice(p.ledger[product], func(i, j int) bool {
			return p.ledger[product][i].date.Before(p.ledger[product][j].date)
		})
	}
	for product := range p.forecast {
		sort.Slice(p.forecast[product], func(i, j int) bool {
			return p.forecast[product][i].Date.Before(p.forecast[product][j].Date)
		})
	}

	log.Info().
		Str("data_dir", dataDir).
		Int("policies", len(p.policies)).
		Int("suppliers", len(p.suppliers)).
		Msg("csv datasets loaded")

	return p, nil
}

func loadFile(path, name string, fn func(rows *rowReader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	rows, err := newRowReader(f, name, requiredColumns[name])
	if err != nil {
		return err
	}

	if err := fn(rows); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

func (p *Provider) loadPolicies(rows *rowReader) error {
	for rows.Next() {
		policy := domain.Policy{
			ProductID:    rows.str("product_id"),
			SupplierID:   rows.str("supplier_id"),
			EOQ:          rows.intVal("eoq"),
			ReorderPoint: rows.intVal("reorder_point"),
			SafetyStock:  rows.intVal("safety_stock"),
			UnitCost:     rows.floatVal("unit_cost"),
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if err := policy.Validate(); err != nil {
			return err
		}

		if _, exists := p.policies[policy.ProductID]; exists {
			p.dupPolicies[policy.ProductID] = true
			continue
		}
		p.policies[policy.ProductID] = policy
	}
	return rows.Err()
}

func (p *Provider) loadSuppliers(rows *rowReader) error {
	for rows.Next() {
		supplier := domain.Supplier{
			SupplierID:   rows.str("supplier_id"),
			MOQ:          rows.intVal("MOQ"),
			LeadTimeDays: rows.intVal("lead_time"),
			Reliability:  rows.floatVal("reliability"),
			UnitCost:     rows.floatVal("cost"),
		}
		if err := rows.Err(); err != nil {
			return err
		}

		supplier = provider.NormalizeSupplier(supplier)
		if err := supplier.Validate(); err != nil {
			return err
		}
		p.suppliers[supplier.SupplierID] = supplier
	}
	return rows.Err()
}

func (p *Provider) loadForecast(rows *rowReader) error {
	for rows.Next() {
		rec := domain.DemandRecord{
			Date:      rows.date("date"),
			ProductID: rows.str("product_id"),
			Quantity:  rows.intVal("predicted_units"),
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if rec.Quantity < 0 {
			return &domain.ValidationError{
				Entity: "demand", ID: rec.ProductID,
				Reason: fmt.Sprintf("negative quantity on %s", rec.Date.Format(domain.DateFormat)),
			}
		}
		p.forecast[rec.ProductID] = append(p.forecast[rec.ProductID], rec)
	}
	return rows.Err()
}

func (p *Provider) loadLedger(rows *rowReader) error {
	for rows.Next() {
		product := rows.str("product_id")
		row := ledgerRow{
			date:      rows.date("date"),
			opening:   rows.intVal("opening_stock"),
			closing:   rows.intVal("closing_stock"),
			restocked: rows.intVal("restocked_qty"),
		}
		if err := rows.Err(); err != nil {
			return err
		}
		p.ledger[product] = append(p.ledger[product], row)
	}
	return rows.Err()
}

func (p *Provider) GetPolicy(_ context.Context, productID string) (domain.Policy, error) {
	if p.dupPolicies[productID] {
		return domain.Policy{}, &domain.ValidationError{
			Entity: "policy", ID: productID, Reason: "duplicate policy rows",
		}
	}

	policy, ok := p.policies[productID]
	if !ok {
		return domain.Policy{}, &domain.NotFoundError{Entity: "policy", ID: productID}
	}
	return policy, nil
}

func (p *Provider) GetSupplier(_ context.Context, supplierID string) (domain.Supplier, error) {
	supplier, ok := p.suppliers[supplierID]
	if !ok {
		return domain.Supplier{}, &domain.NotFoundError{Entity: "supplier", ID: supplierID}
	}
	return supplier, nil
}

func (p *Provider) GetDemandSeries(_ context.Context, productID string, rng domain.DateRange) ([]domain.DemandRecord, error) {
	series := p.forecast[productID]
	if err := provider.CheckCoverage(productID, rng, series); err != nil {
		return nil, err
	}

	out := make([]domain.DemandRecord, 0, rng.Days())
	for _, rec := range series {
		if rng.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (p *Provider) GetOpeningStock(_ context.Context, productID string, date time.Time) (int, error) {
	day := domain.Day(date)
	for _, row := range p.ledger[productID] {
		if row.date.Equal(day) {
			return row.opening, nil
		}
	}
	return 0, &domain.NotFoundError{Entity: "opening stock", ID: productID, Date: day}
}

// ValidateContinuity checks that each ledger day's opening stock is
// explainable by the previous day's closing stock plus its reported restock.
// A gap larger than one unit means the ledger and the restock log disagree.
func (p *Provider) ValidateContinuity(productID string) error {
	rows := p.ledger[productID]
	if len(rows) == 0 {
		return &domain.NotFoundError{Entity: "ledger", ID: productID}
	}

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if cur.opening <= prev.closing {
			continue
		}
		implied := cur.opening - prev.closing
		if diff := implied - prev.restocked; diff > 1 || diff < -1 {
			return &domain.ValidationError{
				Entity: "ledger",
				ID:     productID,
				Reason: fmt.Sprintf("continuity break on %s: expected restock of ~%d, ledger recorded %d",
					cur.date.Format(domain.DateFormat), implied, prev.restocked),
			}
		}
	}
	return nil
}

// rowReader walks CSV records through a header->index map, collecting the
// first parse error instead of failing field by field.
type rowReader struct {
	file    string
	reader  *csv.Reader
	cols    map[string]int
	current []string
	err     error
}

func newRowReader(r io.Reader, file string, required []string) (*rowReader, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", file, err)
	}

	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.TrimSpace(col)] = i
	}

	for _, col := range required {
		if _, ok := cols[col]; !ok {
			return nil, &domain.ValidationError{
				Entity: "dataset", ID: file, Reason: "missing required column " + col,
			}
		}
	}

	return &rowReader{file: file, reader: reader, cols: cols}, nil
}

func (r *rowReader) Next() bool {
	if r.err != nil {
		return false
	}
	record, err := r.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		r.err = fmt.Errorf("read %s record: %w", r.file, err)
		return false
	}
	r.current = record
	return true
}

func (r *rowReader) Err() error {
	return r.err
}

func (r *rowReader) str(col string) string {
	idx, ok := r.cols[col]
	if !ok || idx >= len(r.current) {
		return ""
	}
	return strings.TrimSpace(r.current[idx])
}

func (r *rowReader) intVal(col string) int {
	val := r.str(col)
	if val == "" {
		return 0
	}
	// Handle float strings like "1.0"
	f, err := strconv.ParseFloat(val, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: column %s: %w", r.file, col, err)
	}
	return int(f)
}

func (r *rowReader) floatVal(col string) float64 {
	val := r.str(col)
	if val == "" {
		return 0
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: column %s: %w", r.file, col, err)
	}
	return f
}

func (r *rowReader) date(col string) time.Time {
	val := r.str(col)
	t, err := domain.ParseDay(val)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: column %s: %w", r.file, col, err)
	}
	return t
}

var _ provider.Provider = (*Provider)(nil)
