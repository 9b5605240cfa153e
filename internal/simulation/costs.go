package simulation

// CostTotals is a point-in-time snapshot of accrued costs. Snapshots may be
// taken mid-run without disturbing the accumulator.
type CostTotals struct {
	Holding  float64 `json:"holding"`
	Ordering float64 `json:"ordering"`
	Stockout float64 `json:"stockout"`
}

// CostLedger accrues holding, ordering and stockout costs over a run. It is
// a pure accumulator with no side effects beyond its own totals.
type CostLedger struct {
	holdingRateDaily float64
	orderCost        float64
	stockoutPenalty  float64

	totals CostTotals
}

// NewCostLedger derives the daily holding rate from the unit cost and the
// annualized carrying rate.
func NewCostLedger(unitCost, annualRate, orderCost, stockoutPenalty float64) *CostLedger {
	return &CostLedger{
		holdingRateDaily: unitCost * annualRate / 365,
		orderCost:        orderCost,
		stockoutPenalty:  stockoutPenalty,
	}
}

// DailyUpdate accrues one day of holding and stockout cost and returns both
// contributions for the daily ledger row.
func (c *CostLedger) DailyUpdate(closingStock, stockoutQty int) (holding, stockout float64) {
	holding = float64(closingStock) * c.holdingRateDaily
	stockout = float64(stockoutQty) * c.stockoutPenalty

	c.totals.Holding += holding
	c.totals.Stockout += stockout

	return holding, stockout
}

// OrderPlaced accrues the flat ordering cost and returns it.
func (c *CostLedger) OrderPlaced() float64 {
	c.totals.Ordering += c.orderCost
	return c.orderCost
}

// Snapshot returns the totals accrued so far.
func (c *CostLedger) Snapshot() CostTotals {
	return c.totals
}
