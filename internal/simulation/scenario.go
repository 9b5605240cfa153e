package simulation

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/stocksim/internal/domain"
	"golang.org/x/sync/semaphore"
)

// ScenarioRun pairs a scenario name with its fully resolved config.
type ScenarioRun struct {
	Name   string
	Config Config
}

const maxConcurrentRuns = 4

// Compare runs the baseline and every scenario over the same date range and
// produces per-scenario cost and service-level deltas.
//
// Each run gets its own derived seed (base seed + 1-based ordinal), so the
// streams are independent but the whole comparison is reproducible from the
// baseline seed. Sharing one generator across runs would make the deltas
// depend on execution order.
func Compare(ctx context.Context, baseline Config, scenarios []ScenarioRun) (*domain.ComparisonResult, error) {
	base, err := runOne(baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline run: %w", err)
	}

	result := &domain.ComparisonResult{
		ProductID: baseline.ProductID,
		Start:     baseline.Range.Start,
		End:       baseline.Range.End,
		Baseline:  base.Metrics,
		Scenarios: make(map[string]domain.ScenarioOutcome, len(scenarios)),
	}

	// Scenario runs share no mutable state, so they execute concurrently
	// under a bounded semaphore.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sem  = semaphore.NewWeighted(maxConcurrentRuns)
		errs = make(chan error, len(scenarios))
	)

	for i, sc := range scenarios {
		cfg := sc.Config
		cfg.Seed = baseline.Seed + int64(i) + 1

		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("could not acquire semaphore: %w", err)
		}

		wg.Add(1)
		go func(name string, cfg Config) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := runOne(cfg)
			if err != nil {
				errs <- fmt.Errorf("scenario %q: %w", name, err)
				return
			}

			mu.Lock()
			result.Scenarios[name] = domain.ScenarioOutcome{
				Metrics:           res.Metrics,
				CostDelta:         res.Metrics.TotalCost() - base.Metrics.TotalCost(),
				ServiceLevelDelta: res.Metrics.ServiceLevel - base.Metrics.ServiceLevel,
			}
			mu.Unlock()
		}(sc.Name, cfg)
	}

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}

	return result, nil
}

func runOne(cfg Config) (*domain.SimulationResult, error) {
	driver, err := NewDriver(cfg)
	if err != nil {
		return nil, err
	}
	return driver.Run()
}
