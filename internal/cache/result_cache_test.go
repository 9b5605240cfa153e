package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func baseKey() ResultKey {
	return ResultKey{
		ProductID: "P1",
		Start:     day(2025, 3, 1),
		End:       day(2025, 3, 31),
		Seed:      42,
	}
}

func TestBuildResultKeyIsStable(t *testing.T) {
	key := baseKey()
	key.Override = &domain.ScenarioOverride{
		EOQ:             intPtr(250),
		StockoutPenalty: floatPtr(7.5),
		DemandOverrides: map[time.Time]int{
			day(2025, 3, 10): 80,
			day(2025, 3, 5):  40,
		},
	}

	first := buildResultKey(key)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, buildResultKey(key))
	}
	assert.True(t, strings.HasPrefix(first, "stocksim:result:"))
}

func TestBuildResultKeyEqualOverridesHashEqual(t *testing.T) {
	a := baseKey()
	a.Override = &domain.ScenarioOverride{
		EOQ:          intPtr(250),
		ReorderPoint: intPtr(60),
	}

	b := baseKey()
	b.Override = &domain.ScenarioOverride{
		EOQ:          intPtr(250),
		ReorderPoint: intPtr(60),
	}

	assert.Equal(t, buildResultKey(a), buildResultKey(b))
}

func TestBuildResultKeyDistinguishesInputs(t *testing.T) {
	base := buildResultKey(baseKey())

	t.Run("seed", func(t *testing.T) {
		key := baseKey()
		key.Seed = 43
		assert.NotEqual(t, base, buildResultKey(key))
	})

	t.Run("range", func(t *testing.T) {
		key := baseKey()
		key.End = day(2025, 4, 30)
		assert.NotEqual(t, base, buildResultKey(key))
	})

	t.Run("override", func(t *testing.T) {
		key := baseKey()
		key.Override = &domain.ScenarioOverride{EOQ: intPtr(300)}
		assert.NotEqual(t, base, buildResultKey(key))
	})

	t.Run("demand override quantity", func(t *testing.T) {
		a := baseKey()
		a.Override = &domain.ScenarioOverride{DemandOverrides: map[time.Time]int{day(2025, 3, 5): 40}}
		b := baseKey()
		b.Override = &domain.ScenarioOverride{DemandOverrides: map[time.Time]int{day(2025, 3, 5): 41}}
		assert.NotEqual(t, buildResultKey(a), buildResultKey(b))
	})
}

func TestBuildResultKeyEmptyOverrideEqualsNil(t *testing.T) {
	withNil := buildResultKey(baseKey())

	key := baseKey()
	key.Override = &domain.ScenarioOverride{}
	assert.Equal(t, withNil, buildResultKey(key))
}

func TestNoopResultCache(t *testing.T) {
	c := NewNoopResultCache()
	ctx := context.Background()
	key := baseKey()

	require.NoError(t, c.SetResult(ctx, key, &domain.SimulationResult{ProductID: "P1"}))

	_, ok, err := c.GetResult(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll(ctx))
}
