package simulation

import (
	"math/rand"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
)

// OrderManager owns replenishment for one simulation run: a single
// pending-order slot, the MOQ floor, the reliability trial and the
// reliability-adjusted lead time.
//
// The randomness is an injected, explicitly seeded stream so a given seed
// fully determines the order success/failure sequence and separate runs never
// share generator state.
type OrderManager struct {
	leadTimeDays int
	moq          int
	reliability  float64
	pending      *domain.PendingOrder
	rng          *rand.Rand
}

func NewOrderManager(supplier domain.Supplier, rng *rand.Rand) *OrderManager {
	return &OrderManager{
		leadTimeDays: supplier.LeadTimeDays,
		moq:          supplier.MOQ,
		reliability:  supplier.Reliability,
		rng:          rng,
	}
}

// HasPending reports whether an order is outstanding.
func (m *OrderManager) HasPending() bool {
	return m.pending != nil
}

// Pending returns a copy of the outstanding order, if any.
func (m *OrderManager) Pending() (domain.PendingOrder, bool) {
	if m.pending == nil {
		return domain.PendingOrder{}, false
	}
	return *m.pending, true
}

// AdjustedLeadTime is the contract lead time inflated by the supplier's
// unreliability: floor(lead_time * (1 + (1 - reliability))). A perfectly
// reliable supplier delivers at the contract lead time; a 50%-reliable one
// historically slips by half again.
func (m *OrderManager) AdjustedLeadTime() int {
	return int(float64(m.leadTimeDays) * (1 + (1 - m.reliability)))
}

// PlaceOrder attempts one replenishment order. The requested quantity is
// floored to the supplier MOQ, then a single uniform draw is taken against
// the supplier reliability. Failure is an expected, frequent outcome, so it
// is reported through the boolean rather than an error: no order is created
// and the caller simply retries on the next eligible day.
//
// Arrival is a plain calendar-day offset from the order date, matching the
// calendar-day outer loop.
func (m *OrderManager) PlaceOrder(date time.Time, requestedQty int) (domain.PendingOrder, bool) {
	if m.rng.Float64() > m.reliability {
		return domain.PendingOrder{}, false
	}

	qty := requestedQty
	if qty < m.moq {
		qty = m.moq
	}

	day := domain.Day(date)
	order := domain.PendingOrder{
		OrderDate:   day,
		ArrivalDate: day.AddDate(0, 0, m.AdjustedLeadTime()),
		Quantity:    qty,
		Status:      domain.OrderStatusPending,
	}
	m.pending = &order

	return order, true
}

// CollectArrivals removes and returns the quantity of a pending order due on
// the given day, or 0 when nothing arrives.
func (m *OrderManager) CollectArrivals(date time.Time) int {
	if m.pending == nil || !m.pending.ArrivalDate.Equal(domain.Day(date)) {
		return 0
	}

	qty := m.pending.Quantity
	m.pending = nil

	return qty
}
