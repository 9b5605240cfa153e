// internal/provider/memory/memory.go
package memory

import (
	"context"
	"sort"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/andresuchdata/stocksim/internal/provider"
)

// Provider is a map-backed data source for tests and the HTTP ingest path.
type Provider struct {
	policies     map[string]domain.Policy
	dupPolicies  map[string]bool
	suppliers    map[string]domain.Supplier
	demand       map[string][]domain.DemandRecord
	openingStock map[string]map[time.Time]int
}

func NewProvider() *Provider {
	return &Provider{
		policies:     make(map[string]domain.Policy),
		dupPolicies:  make(map[string]bool),
		suppliers:    make(map[string]domain.Supplier),
		demand:       make(map[string][]domain.DemandRecord),
		openingStock: make(map[string]map[time.Time]int),
	}
}

// AddPolicy registers a policy row. A second row for the same product marks
// the product as duplicated, which GetPolicy reports as a ValidationError.
func (p *Provider) AddPolicy(policy domain.Policy) {
	if _, exists := p.policies[policy.ProductID]; exists {
		p.dupPolicies[policy.ProductID] = true
		return
	}
	p.policies[policy.ProductID] = policy
}

func (p *Provider) AddSupplier(supplier domain.Supplier) {
	p.suppliers[supplier.SupplierID] = provider.NormalizeSupplier(supplier)
}

func (p *Provider) AddDemand(records ...domain.DemandRecord) {
	for _, rec := range records {
		rec.Date = domain.Day(rec.Date)
		p.demand[rec.ProductID] = append(p.demand[rec.ProductID], rec)
	}
}

func (p *Provider) AddOpeningStock(productID string, date time.Time, qty int) {
	if p.openingStock[productID] == nil {
		p.openingStock[productID] = make(map[time.Time]int)
	}
	p.openingStock[productID][domain.Day(date)] = qty
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
	series := p.demand[productID]
	if err := provider.CheckCoverage(productID, rng, series); err != nil {
		return nil, err
	}

	out := make([]domain.DemandRecord, 0, rng.Days())
	for _, rec := range series {
		if rng.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

func (p *Provider) GetOpeningStock(_ context.Context, productID string, date time.Time) (int, error) {
	day := domain.Day(date)
	if ledger, ok := p.openingStock[productID]; ok {
		if qty, ok := ledger[day]; ok {
			return qty, nil
		}
	}
	return 0, &domain.NotFoundError{Entity: "opening stock", ID: productID, Date: day}
}

var _ provider.Provider = (*Provider)(nil)
