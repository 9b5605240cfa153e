// internal/domain/models.go
package domain

import "time"

// Policy is the replenishment policy for a single product.
type Policy struct {
	ProductID    string  `json:"product_id" db:"product_id"`
	SupplierID   string  `json:"supplier_id" db:"supplier_id"`
	EOQ          int     `json:"eoq" db:"eoq"`
	ReorderPoint int     `json:"reorder_point" db:"reorder_point"`
	SafetyStock  int     `json:"safety_stock" db:"safety_stock"`
	UnitCost     float64 `json:"unit_cost" db:"unit_cost"`
}

// Validate checks the policy row against the schema constraints.
func (p Policy) Validate() error {
	switch {
	case p.ProductID == "":
		return &ValidationError{Entity: "policy", ID: p.ProductID, Reason: "empty product_id"}
	case p.EOQ <= 0:
		return &ValidationError{Entity: "policy", ID: p.ProductID, Reason: "eoq must be positive"}
	case p.ReorderPoint < 0:
		return &ValidationError{Entity: "policy", ID: p.ProductID, Reason: "reorder_point must not be negative"}
	case p.SafetyStock < 0:
		return &ValidationError{Entity: "policy", ID: p.ProductID, Reason: "safety_stock must not be negative"}
	case p.UnitCost <= 0:
		return &ValidationError{Entity: "policy", ID: p.ProductID, Reason: "unit_cost must be positive"}
	}
	return nil
}

// Supplier is a supplier contract. Reliability is always on the 0-1 scale
// inside the engine; providers normalize percentage inputs at the boundary.
type Supplier struct {
	SupplierID   string  `json:"supplier_id" db:"supplier_id"`
	MOQ          int     `json:"moq" db:"moq"`
	LeadTimeDays int     `json:"lead_time_days" db:"lead_time"`
	Reliability  float64 `json:"reliability" db:"reliability"`
	UnitCost     float64 `json:"unit_cost" db:"unit_cost"`
}

// Validate checks the supplier row against the schema constraints.
func (s Supplier) Validate() error {
	switch {
	case s.SupplierID == "":
		return &ValidationError{Entity: "supplier", ID: s.SupplierID, Reason: "empty supplier_id"}
	case s.MOQ <= 0:
		return &ValidationError{Entity: "supplier", ID: s.SupplierID, Reason: "moq must be positive"}
	case s.LeadTimeDays < 1 || s.LeadTimeDays > 30:
		return &ValidationError{Entity: "supplier", ID: s.SupplierID, Reason: "lead_time outside 1-30 days"}
	case s.Reliability < 0 || s.Reliability > 1:
		return &ValidationError{Entity: "supplier", ID: s.SupplierID, Reason: "reliability outside [0,1]"}
	}
	return nil
}

// DemandRecord is one day of forecast demand for a product.
type DemandRecord struct {
	Date      time.Time `json:"date" db:"date"`
	ProductID string    `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"predicted_units"`
}

// OrderStatus tracks the lifecycle of a replenishment order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusArrived OrderStatus = "arrived"
)

// PendingOrder is a replenishment order in flight. At most one exists per
// simulation at any simulated day.
type PendingOrder struct {
	OrderDate   time.Time   `json:"order_date"`
	ArrivalDate time.Time   `json:"arrival_date"`
	Quantity    int         `json:"quantity"`
	Status      OrderStatus `json:"status"`
}

// DailyRecord is one row of the simulated inventory ledger.
type DailyRecord struct {
	Date         time.Time `json:"date"`
	OpeningStock int       `json:"opening_stock"`
	Demand       int       `json:"demand"`
	Sold         int       `json:"sold"`
	UnmetDemand  int       `json:"unmet_demand"`
	ClosingStock int       `json:"closing_stock"`
	RestockedQty int       `json:"restocked_qty"`
	HoldingCost  float64   `json:"holding_cost"`
	OrderingCost float64   `json:"ordering_cost"`
}

// Metrics summarizes a full simulation run.
type Metrics struct {
	TotalHoldingCost  float64 `json:"total_holding_cost"`
	TotalOrderingCost float64 `json:"total_ordering_cost"`
	TotalStockoutCost float64 `json:"total_stockout_cost"`
	StockoutDays      int     `json:"stockout_days"`
	ServiceLevel      float64 `json:"service_level"`
}

// TotalCost is the combined cost across all components.
func (m Metrics) TotalCost() float64 {
	return m.TotalHoldingCost + m.TotalOrderingCost + m.TotalStockoutCost
}

// SimulationResult is the timeline plus aggregate metrics of one run.
type SimulationResult struct {
	ProductID string        `json:"product_id"`
	Start     time.Time     `json:"start_date"`
	End       time.Time     `json:"end_date"`
	Seed      int64         `json:"seed"`
	Timeline  []DailyRecord `json:"timeline"`
	Metrics   Metrics       `json:"metrics"`
}

// ScenarioOverride adjusts policy, supplier, cost and demand inputs for a
// what-if run. Nil fields keep the baseline value.
type ScenarioOverride struct {
	SupplierID        string            `json:"supplier_id,omitempty"`
	EOQ               *int              `json:"eoq,omitempty"`
	ReorderPoint      *int              `json:"reorder_point,omitempty"`
	SafetyStock       *int              `json:"safety_stock,omitempty"`
	AnnualHoldingRate *float64          `json:"annual_holding_rate,omitempty"`
	StockoutPenalty   *float64          `json:"stockout_penalty,omitempty"`
	DemandOverrides   map[time.Time]int `json:"-"`
}

// IsZero reports whether the override changes nothing.
func (o *ScenarioOverride) IsZero() bool {
	if o == nil {
		return true
	}
	return o.SupplierID == "" && o.EOQ == nil && o.ReorderPoint == nil &&
		o.SafetyStock == nil && o.AnnualHoldingRate == nil &&
		o.StockoutPenalty == nil && len(o.DemandOverrides) == 0
}

// Scenario is a named override set for comparison runs.
type Scenario struct {
	Name     string           `json:"name"`
	Override ScenarioOverride `json:"override"`
}

// ScenarioOutcome is one scenario's metrics and its delta against baseline.
type ScenarioOutcome struct {
	Metrics           Metrics `json:"metrics"`
	CostDelta         float64 `json:"cost_delta"`
	ServiceLevelDelta float64 `json:"service_level_delta"`
}

// ComparisonResult maps scenario names to outcomes next to the baseline run.
type ComparisonResult struct {
	ProductID string                     `json:"product_id"`
	Start     time.Time                  `json:"start_date"`
	End       time.Time                  `json:"end_date"`
	Baseline  Metrics                    `json:"baseline"`
	Scenarios map[string]ScenarioOutcome `json:"scenarios"`
}
