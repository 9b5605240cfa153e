package simulation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSupplier(leadTime int, reliability float64) domain.Supplier {
	return domain.Supplier{
		SupplierID:   "SUP-1",
		MOQ:          100,
		LeadTimeDays: leadTime,
		Reliability:  reliability,
		UnitCost:     4.5,
	}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestAdjustedLeadTime(t *testing.T) {
	tests := []struct {
		name        string
		leadTime    int
		reliability float64
		want        int
	}{
		{"perfectly reliable", 5, 1.0, 5},
		{"90 percent reliable floors down", 5, 0.9, 5},
		{"half reliable", 10, 0.5, 15},
		{"unreliable doubles", 7, 0.0, 14},
		{"80 percent reliable", 10, 0.8, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewOrderManager(testSupplier(tt.leadTime, tt.reliability), testRNG())
			assert.Equal(t, tt.want, m.AdjustedLeadTime())
		})
	}
}

func TestPlaceOrderAlwaysSucceedsAtFullReliability(t *testing.T) {
	m := NewOrderManager(testSupplier(5, 1.0), testRNG())
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	order, ok := m.PlaceOrder(day, 250)
	require.True(t, ok)

	assert.Equal(t, 250, order.Quantity)
	assert.Equal(t, day, order.OrderDate)
	assert.Equal(t, day.AddDate(0, 0, 5), order.ArrivalDate)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, m.HasPending())
}

func TestPlaceOrderAlwaysFailsAtZeroReliability(t *testing.T) {
	m := NewOrderManager(testSupplier(5, 0.0), testRNG())
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		_, ok := m.PlaceOrder(day, 250)
		assert.False(t, ok)
	}
	assert.False(t, m.HasPending())
}

func TestPlaceOrderFloorsQuantityToMOQ(t *testing.T) {
	m := NewOrderManager(testSupplier(5, 1.0), testRNG())
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	order, ok := m.PlaceOrder(day, 30)
	require.True(t, ok)
	assert.Equal(t, 100, order.Quantity)
}

func TestCollectArrivals(t *testing.T) {
	m := NewOrderManager(testSupplier(3, 1.0), testRNG())
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	order, ok := m.PlaceOrder(day, 120)
	require.True(t, ok)

	// Nothing arrives before the due date.
	assert.Equal(t, 0, m.CollectArrivals(day))
	assert.Equal(t, 0, m.CollectArrivals(day.AddDate(0, 0, 2)))
	assert.True(t, m.HasPending())

	// The due date drains the slot exactly once.
	assert.Equal(t, 120, m.CollectArrivals(order.ArrivalDate))
	assert.False(t, m.HasPending())
	assert.Equal(t, 0, m.CollectArrivals(order.ArrivalDate))
}

func TestPendingReturnsCopy(t *testing.T) {
	m := NewOrderManager(testSupplier(3, 1.0), testRNG())

	_, ok := m.Pending()
	assert.False(t, ok)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	placed, ok := m.PlaceOrder(day, 200)
	require.True(t, ok)

	pending, ok := m.Pending()
	require.True(t, ok)
	assert.Equal(t, placed, pending)
}

func TestSeedDeterminesTrialSequence(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	outcomes := func(seed int64) []bool {
		m := NewOrderManager(testSupplier(5, 0.5), rand.New(rand.NewSource(seed)))
		seq := make([]bool, 0, 20)
		for i := 0; i < 20; i++ {
			_, ok := m.PlaceOrder(day.AddDate(0, 0, i), 100)
			if ok {
				// Drain the slot so the next trial starts clean.
				m.CollectArrivals(m.pending.ArrivalDate)
			}
			seq = append(seq, ok)
		}
		return seq
	}

	assert.Equal(t, outcomes(7), outcomes(7))
}
