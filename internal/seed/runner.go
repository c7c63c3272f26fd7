package seed

import (
	"context"
	"time"

	"github.com/meritworks/ampgsti/pkg/logger"
)

// Runner drives one seeding session against a running instance.
type Runner struct {
	cfg       *Config
	fetcher   *Fetcher
	generator *Generator
	client    *Client
	logger    logger.Logger
}

// NewRunner wires a runner from configuration.
func NewRunner(cfg *Config) *Runner {
	return &Runner{
		cfg:       cfg,
		fetcher:   NewFetcher(cfg),
		generator: NewGenerator(),
		client:    NewClient(cfg),
		logger:    logger.Get().Named("seed"),
	}
}

// Run registers the configured candidates, pushes one market cycle, then
// keeps cycling if continuous mode is on. It returns when ctx is canceled or,
// in one-shot mode, after the first cycle.
func (r *Runner) Run(ctx context.Context) error {
	r.registerCandidates(ctx)

	if err := r.cycle(ctx); err != nil {
		return err
	}
	if !r.cfg.Continuous {
		return nil
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "seeding stopped")
			return nil
		case <-ticker.C:
			if err := r.cycle(ctx); err != nil {
				r.logger.Error(ctx, "market cycle failed", logger.Error(err))
			}
		}
	}
}

// cycle fetches market data and pushes one update.
func (r *Runner) cycle(ctx context.Context) error {
	metals := r.fetcher.FetchMetals(ctx)
	vix := r.fetcher.FetchVolatility(ctx)
	health := r.fetcher.GenerateHealth()
	surge := r.fetcher.DetectMergerSurge()

	return r.client.UpdateMarket(ctx, metals, vix, surge, health)
}

// registerCandidates submits the configured number of generated profiles,
// backing off briefly on rejection.
func (r *Runner) registerCandidates(ctx context.Context) {
	registered := 0
	for i := 0; i < r.cfg.Candidates; i++ {
		if ctx.Err() != nil {
			return
		}
		cand := r.generator.Candidate()
		if err := r.client.RegisterCandidate(ctx, cand); err != nil {
			r.logger.Warn(ctx, "registration failed", logger.Error(err))
			time.Sleep(100 * time.Millisecond)
			continue
		}
		registered++
	}
	r.logger.Info(ctx, "candidates registered", logger.Int("count", registered))
}
