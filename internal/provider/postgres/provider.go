package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/andresuchdata/stocksim/internal/provider"
)

// Provider serves simulation inputs from the inventory_policies, suppliers,
// forecast and inventory_ledger tables.
type Provider struct {
	db *DB
}

func NewProvider(db *DB) *Provider {
	return &Provider{db: db}
}

func (p *Provider) GetPolicy(ctx context.Context, productID string) (domain.Policy, error) {
	release, err := p.db.acquire(ctx)
	if err != nil {
		return domain.Policy{}, err
	}
	defer release()

	var policies []domain.Policy
	query := `
		SELECT product_id, supplier_id, eoq, reorder_point, safety_stock, unit_cost
		FROM inventory_policies
		WHERE product_id = $1`
	if err := p.db.SelectContext(ctx, &policies, query, productID); err != nil {
		return domain.Policy{}, fmt.Errorf("query policy: %w", err)
	}

	switch len(policies) {
	case 0:
		return domain.Policy{}, &domain.NotFoundError{Entity: "policy", ID: productID}
	case 1:
		if err := policies[0].Validate(); err != nil {
			return domain.Policy{}, err
		}
		return policies[0], nil
	default:
		return domain.Policy{}, &domain.ValidationError{
			Entity: "policy", ID: productID, Reason: "duplicate policy rows",
		}
	}
}

func (p *Provider) GetSupplier(ctx context.Context, supplierID string) (domain.Supplier, error) {
	release, err := p.db.acquire(ctx)
	if err != nil {
		return domain.Supplier{}, err
	}
	defer release()

	var supplier domain.Supplier
	query := `
		SELECT supplier_id, moq, lead_time, reliability, unit_cost
		FROM suppliers
		WHERE supplier_id = $1`
	if err := p.db.GetContext(ctx, &supplier, query, supplierID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Supplier{}, &domain.NotFoundError{Entity: "supplier", ID: supplierID}
		}
		return domain.Supplier{}, fmt.Errorf("query supplier: %w", err)
	}

	supplier = provider.NormalizeSupplier(supplier)
	if err := supplier.Validate(); err != nil {
		return domain.Supplier{}, err
	}
	return supplier, nil
}

func (p *Provider) GetDemandSeries(ctx context.Context, productID string, rng domain.DateRange) ([]domain.DemandRecord, error) {
	release, err := p.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var coverage struct {
		Min sql.NullTime `db:"min_date"`
		Max sql.NullTime `db:"max_date"`
	}
	coverageQuery := `
		SELECT MIN(date) AS min_date, MAX(date) AS max_date
		FROM forecast
		WHERE product_id = $1`
	if err := p.db.GetContext(ctx, &coverage, coverageQuery, productID); err != nil {
		return nil, fmt.Errorf("query forecast coverage: %w", err)
	}
	if !coverage.Min.Valid {
		return nil, &domain.DateRangeError{
			ProductID: productID,
			Start:     rng.Start,
			End:       rng.End,
			Reason:    "no demand series available",
		}
	}
	covStart, covEnd := domain.Day(coverage.Min.Time), domain.Day(coverage.Max.Time)
	if rng.Start.Before(covStart) || rng.End.After(covEnd) {
		return nil, &domain.DateRangeError{
			ProductID:     productID,
			Start:         rng.Start,
			End:           rng.End,
			CoverageStart: covStart,
			CoverageEnd:   covEnd,
		}
	}

	var records []domain.DemandRecord
	query := `
		SELECT date, product_id, predicted_units
		FROM forecast
		WHERE product_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`
	if err := p.db.SelectContext(ctx, &records, query, productID, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("query forecast: %w", err)
	}

	for i := range records {
		records[i].Date = domain.Day(records[i].Date)
	}
	return records, nil
}

func (p *Provider) GetOpeningStock(ctx context.Context, productID string, date time.Time) (int, error) {
	release, err := p.db.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	var opening int
	query := `
		SELECT opening_stock
		FROM inventory_ledger
		WHERE product_id = $1 AND date = $2`
	if err := p.db.GetContext(ctx, &opening, query, productID, domain.Day(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &domain.NotFoundError{Entity: "opening stock", ID: productID, Date: domain.Day(date)}
		}
		return 0, fmt.Errorf("query opening stock: %w", err)
	}
	return opening, nil
}

var _ provider.Provider = (*Provider)(nil)
