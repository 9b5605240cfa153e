package simulation

import (
	"fmt"
	"math/rand"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/rs/zerolog/log"
)

// Cost parameters applied when the config leaves them unset.
const (
	DefaultAnnualHoldingRate = 0.25
	DefaultStockoutPenalty   = 5.0
)

// Config carries the fully resolved inputs for one simulation run. Supplier
// reliability must already be normalized to [0,1] and the demand source must
// cover the whole range.
type Config struct {
	ProductID    string
	Policy       domain.Policy
	Supplier     domain.Supplier
	Range        domain.DateRange
	OpeningStock int
	Demand       *DemandSource
	Seed         int64

	// AnnualHoldingRate and StockoutPenalty fall back to package defaults
	// when zero. OrderCost falls back to the 0.1 * MOQ * unit_cost estimate.
	AnnualHoldingRate float64
	StockoutPenalty   float64
	OrderCost         float64
}

// Driver advances the inventory state machine one calendar day at a time and
// assembles the daily ledger. Each Driver owns independent stock, order and
// cost state, so separate runs can execute in parallel without coordination.
type Driver struct {
	cfg    Config
	stock  *StockState
	orders *OrderManager
	costs  *CostLedger
}

// NewDriver validates the config and wires up an independent engine instance
// with its own seeded random stream.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Demand == nil {
		return nil, fmt.Errorf("simulation %q: demand source is required", cfg.ProductID)
	}
	if err := cfg.Range.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Supplier.Validate(); err != nil {
		return nil, err
	}

	if cfg.AnnualHoldingRate == 0 {
		cfg.AnnualHoldingRate = DefaultAnnualHoldingRate
	}
	if cfg.StockoutPenalty == 0 {
		cfg.StockoutPenalty = DefaultStockoutPenalty
	}
	if cfg.OrderCost == 0 {
		cfg.OrderCost = 0.1 * float64(cfg.Supplier.MOQ) * cfg.Supplier.UnitCost
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	return &Driver{
		cfg:    cfg,
		stock:  NewStockState(cfg.OpeningStock),
		orders: NewOrderManager(cfg.Supplier, rng),
		costs:  NewCostLedger(cfg.Policy.UnitCost, cfg.AnnualHoldingRate, cfg.OrderCost, cfg.StockoutPenalty),
	}, nil
}

// Costs exposes the accrued cost totals for mid-run inspection.
func (d *Driver) Costs() CostTotals {
	return d.costs.Snapshot()
}

// Run executes the day loop over the configured range and returns the
// assembled result. Missing demand data aborts the run with no partial
// result.
//
// Per-day transition order: arrivals, demand lookup, consumption, reorder
// check, cost accrual, ledger emit.
func (d *Driver) Run() (*domain.SimulationResult, error) {
	reorderLevel := d.cfg.Policy.ReorderPoint + d.cfg.Policy.SafetyStock
	timeline := make([]domain.DailyRecord, 0, d.cfg.Range.Days())

	soldTotal := 0
	demandTotal := 0
	stockoutDays := 0

	for day := d.cfg.Range.Start; !day.After(d.cfg.Range.End); day = day.AddDate(0, 0, 1) {
		opening := d.stock.Stock()

		arrived := d.orders.CollectArrivals(day)
		d.stock.Receive(arrived)

		demand, err := d.cfg.Demand.Demand(day)
		if err != nil {
			return nil, err
		}

		sold, stockout := d.stock.Consume(demand)

		var orderingCost float64
		if d.stock.Stock() <= reorderLevel && !d.orders.HasPending() {
			if order, ok := d.orders.PlaceOrder(day, d.cfg.Policy.EOQ); ok {
				orderingCost = d.costs.OrderPlaced()
				log.Debug().
					Str("product_id", d.cfg.ProductID).
					Time("order_date", order.OrderDate).
					Time("arrival_date", order.ArrivalDate).
					Int("quantity", order.Quantity).
					Msg("replenishment order placed")
			}
			// A failed trial leaves no pending order; the same condition
			// is re-evaluated on the next day.
		}

		holdingCost, _ := d.costs.DailyUpdate(d.stock.Stock(), stockout)

		timeline = append(timeline, domain.DailyRecord{
			Date:         day,
			OpeningStock: opening,
			Demand:       demand,
			Sold:         sold,
			UnmetDemand:  stockout,
			ClosingStock: d.stock.Stock(),
			RestockedQty: arrived,
			HoldingCost:  holdingCost,
			OrderingCost: orderingCost,
		})

		soldTotal += sold
		demandTotal += demand
		if stockout > 0 {
			stockoutDays++
		}
	}

	totals := d.costs.Snapshot()

	serviceLevel := 1.0
	if demandTotal > 0 {
		serviceLevel = float64(soldTotal) / float64(demandTotal)
	}

	return &domain.SimulationResult{
		ProductID: d.cfg.ProductID,
		Start:     d.cfg.Range.Start,
		End:       d.cfg.Range.End,
		Seed:      d.cfg.Seed,
		Timeline:  timeline,
		Metrics: domain.Metrics{
			TotalHoldingCost:  totals.Holding,
			TotalOrderingCost: totals.Ordering,
			TotalStockoutCost: totals.Stockout,
			StockoutDays:      stockoutDays,
			ServiceLevel:      serviceLevel,
		},
	}, nil
}
