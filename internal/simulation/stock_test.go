package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStateClampsNegativeOpening(t *testing.T) {
	s := NewStockState(-5)
	assert.Equal(t, 0, s.Stock())
}

func TestStockStateReceive(t *testing.T) {
	s := NewStockState(10)

	s.Receive(25)
	assert.Equal(t, 35, s.Stock())

	s.Receive(0)
	s.Receive(-3)
	assert.Equal(t, 35, s.Stock())
}

func TestStockStateConsume(t *testing.T) {
	tests := []struct {
		name         string
		opening      int
		demand       int
		wantSold     int
		wantStockout int
		wantStock    int
	}{
		{"demand fully served", 100, 30, 30, 0, 70},
		{"demand exactly drains stock", 30, 30, 30, 0, 0},
		{"demand exceeds stock", 10, 25, 10, 15, 0},
		{"no stock at all", 0, 40, 0, 40, 0},
		{"zero demand", 50, 0, 0, 0, 50},
		{"negative demand ignored", 50, -5, 0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStockState(tt.opening)
			sold, stockout := s.Consume(tt.demand)

			assert.Equal(t, tt.wantSold, sold)
			assert.Equal(t, tt.wantStockout, stockout)
			assert.Equal(t, tt.wantStock, s.Stock())
		})
	}
}

func TestStockNeverGoesNegative(t *testing.T) {
	s := NewStockState(5)
	for i := 0; i < 10; i++ {
		s.Consume(7)
		assert.GreaterOrEqual(t, s.Stock(), 0)
	}
}
