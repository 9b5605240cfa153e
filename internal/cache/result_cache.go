// internal/cache/result_cache.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/stocksim/internal/config"
	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	resultKeyPrefix    = "stocksim:result"
	resultScanBatchLen = 100
)

// ResultCache stores finished simulation results keyed by their full input
// fingerprint. Identical inputs produce identical results, so a hit can be
// served without re-running the engine.
type ResultCache interface {
	GetResult(ctx context.Context, key ResultKey) (*domain.SimulationResult, bool, error)
	SetResult(ctx context.Context, key ResultKey, result *domain.SimulationResult) error
	InvalidateAll(ctx context.Context) error
}

// ResultKey identifies one deterministic simulation run.
type ResultKey struct {
	ProductID string
	Start     time.Time
	End       time.Time
	Seed      int64
	Override  *domain.ScenarioOverride
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisResultCache{client: client, ttl: ttl}, nil
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) GetResult(ctx context.Context, key ResultKey) (*domain.SimulationResult, bool, error) {
	payload, err := c.client.Get(ctx, buildResultKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.SimulationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode result cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisResultCache) SetResult(ctx context.Context, key ResultKey, result *domain.SimulationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result cache: %w", err)
	}

	if err := c.client.Set(ctx, buildResultKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, resultKeyPrefix, resultScanBatchLen)
}

func (n *noopResultCache) GetResult(ctx context.Context, key ResultKey) (*domain.SimulationResult, bool, error) {
	return nil, false, nil
}

func (n *noopResultCache) SetResult(ctx context.Context, key ResultKey, result *domain.SimulationResult) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildResultKey builds a stable cache key: the override fingerprint is
// rendered field by field in sorted order so logically equal overrides always
// hash the same.
func buildResultKey(key ResultKey) string {
	parts := []string{
		key.ProductID,
		key.Start.Format(domain.DateFormat),
		key.End.Format(domain.DateFormat),
		fmt.Sprintf("seed=%d", key.Seed),
	}

	if !key.Override.IsZero() {
		ov := key.Override
		if ov.SupplierID != "" {
			parts = append(parts, "supplier="+ov.SupplierID)
		}
		if ov.EOQ != nil {
			parts = append(parts, fmt.Sprintf("eoq=%d", *ov.EOQ))
		}
		if ov.ReorderPoint != nil {
			parts = append(parts, fmt.Sprintf("rop=%d", *ov.ReorderPoint))
		}
		if ov.SafetyStock != nil {
			parts = append(parts, fmt.Sprintf("ss=%d", *ov.SafetyStock))
		}
		if ov.AnnualHoldingRate != nil {
			parts = append(parts, fmt.Sprintf("hold=%g", *ov.AnnualHoldingRate))
		}
		if ov.StockoutPenalty != nil {
			parts = append(parts, fmt.Sprintf("pen=%g", *ov.StockoutPenalty))
		}
		if len(ov.DemandOverrides) > 0 {
			mods := make([]string, 0, len(ov.DemandOverrides))
			for d, qty := range ov.DemandOverrides {
				mods = append(mods, fmt.Sprintf("%s=%d", d.Format(domain.DateFormat), qty))
			}
			sort.Strings(mods)
			parts = append(parts, mods...)
		}
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return resultKeyPrefix + ":" + hex.EncodeToString(sum[:])
}
