package simulation

// StockState holds the on-hand quantity for one product. Stock never goes
// negative; unmet demand is surfaced as a stockout quantity instead.
type StockState struct {
	stock int
}

func NewStockState(opening int) *StockState {
	if opening < 0 {
		opening = 0
	}
	return &StockState{stock: opening}
}

// Stock returns the current on-hand quantity.
func (s *StockState) Stock() int {
	return s.stock
}

// Receive adds an arrived order quantity to stock.
func (s *StockState) Receive(qty int) {
	if qty > 0 {
		s.stock += qty
	}
}

// Consume applies one day of demand and returns the units sold and the
// shortfall.
func (s *StockState) Consume(demand int) (sold, stockout int) {
	if demand <= 0 {
		return 0, 0
	}

	sold = demand
	if sold > s.stock {
		sold = s.stock
	}
	stockout = demand - sold
	s.stock -= sold

	return sold, stockout
}
