// internal/service/simulation_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stocksim/internal/cache"
	"github.com/andresuchdata/stocksim/internal/config"
	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/andresuchdata/stocksim/internal/provider"
	"github.com/andresuchdata/stocksim/internal/simulation"
	"github.com/rs/zerolog/log"
)

// SimulationService resolves data-provider inputs, applies scenario
// overrides and drives the engine. It is the surface the HTTP API and the
// CLI both sit on.
type SimulationService struct {
	provider provider.Provider
	cache    cache.ResultCache
	defaults config.SimulationConfig
}

func NewSimulationService(p provider.Provider, cacheImpl cache.ResultCache, defaults config.SimulationConfig) *SimulationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &SimulationService{provider: p, cache: cacheImpl, defaults: defaults}
}

// RunSimulation executes one run for a product over the given range,
// optionally under a scenario override. Results are cached by their full
// input fingerprint.
func (s *SimulationService) RunSimulation(ctx context.Context, productID string, rng domain.DateRange, override *domain.ScenarioOverride) (*domain.SimulationResult, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	key := cache.ResultKey{
		ProductID: productID,
		Start:     rng.Start,
		End:       rng.End,
		Seed:      s.defaults.Seed,
		Override:  override,
	}
	if result, ok, err := s.cache.GetResult(ctx, key); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("result cache get failed")
	}

	cfg, err := s.buildConfig(ctx, productID, rng, override, s.defaults.Seed)
	if err != nil {
		return nil, err
	}

	driver, err := simulation.NewDriver(cfg)
	if err != nil {
		return nil, err
	}

	result, err := driver.Run()
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetResult(ctx, key, result); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("result cache set failed")
	}

	return result, nil
}

// CompareScenarios runs the baseline and every named scenario over the same
// range and demand configuration, and returns the side-by-side outcome map.
func (s *SimulationService) CompareScenarios(ctx context.Context, productID string, scenarios []domain.Scenario, rng domain.DateRange) (*domain.ComparisonResult, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	baseline, err := s.buildConfig(ctx, productID, rng, nil, s.defaults.Seed)
	if err != nil {
		return nil, err
	}

	runs := make([]simulation.ScenarioRun, 0, len(scenarios))
	for _, sc := range scenarios {
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("scenario-%d", len(runs)+1)
		}

		override := sc.Override
		cfg, err := s.buildConfig(ctx, productID, rng, &override, s.defaults.Seed)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		runs = append(runs, simulation.ScenarioRun{Name: name, Config: cfg})
	}

	return simulation.Compare(ctx, baseline, runs)
}

// buildConfig resolves policy, supplier, demand series and opening stock for
// one run and applies the override on top.
func (s *SimulationService) buildConfig(ctx context.Context, productID string, rng domain.DateRange, override *domain.ScenarioOverride, seed int64) (simulation.Config, error) {
	policy, err := s.provider.GetPolicy(ctx, productID)
	if err != nil {
		return simulation.Config{}, err
	}

	supplierID := policy.SupplierID
	if override != nil && override.SupplierID != "" {
		supplierID = override.SupplierID
	}
	supplier, err := s.provider.GetSupplier(ctx, supplierID)
	if err != nil {
		return simulation.Config{}, err
	}

	annualRate := s.defaults.AnnualHoldingRate
	stockoutPenalty := s.defaults.StockoutPenalty
	var demandOverrides map[time.Time]int
	if override != nil {
		if override.EOQ != nil {
			policy.EOQ = *override.EOQ
		}
		if override.ReorderPoint != nil {
			policy.ReorderPoint = *override.ReorderPoint
		}
		if override.SafetyStock != nil {
			policy.SafetyStock = *override.SafetyStock
		}
		if override.AnnualHoldingRate != nil {
			annualRate = *override.AnnualHoldingRate
		}
		if override.StockoutPenalty != nil {
			stockoutPenalty = *override.StockoutPenalty
		}
		demandOverrides = override.DemandOverrides
	}

	series, err := s.provider.GetDemandSeries(ctx, productID, rng)
	if err != nil {
		return simulation.Config{}, err
	}

	opening, err := s.provider.GetOpeningStock(ctx, productID, rng.Start)
	if err != nil {
		return simulation.Config{}, err
	}

	return simulation.Config{
		ProductID:         productID,
		Policy:            policy,
		Supplier:          supplier,
		Range:             rng,
		OpeningStock:      opening,
		Demand:            simulation.NewDemandSource(productID, series, demandOverrides),
		Seed:              seed,
		AnnualHoldingRate: annualRate,
		StockoutPenalty:   stockoutPenalty,
		OrderCost:         s.defaults.OrderCost,
	}, nil
}
