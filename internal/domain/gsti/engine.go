// Package gsti maintains the unified-goodwill history and derives the
// Gold-Silver Trust Index from goodwill momentum and the gold/silver price
// ratio.
package gsti

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// DefaultLookback is the momentum lookback: latest value against the value
// recorded lookback-1 periods earlier.
const DefaultLookback = 2

// Volatility threshold above which fear-dominant weights apply.
const highVolatilityThreshold = 25.0

// weightRule pairs a guard with the weights it selects. Rules are evaluated
// in order, first match wins.
type weightRule struct {
	guard   func(vix float64, mergerSurge bool) bool
	weights model.RegimeWeights
}

// Ordered weight tiers. High volatility overrides a merger surge even when
// both conditions hold.
var weightRules = []weightRule{
	{
		guard:   func(vix float64, _ bool) bool { return vix > highVolatilityThreshold },
		weights: model.RegimeWeights{GoodwillWeight: 0.8, GSRWeight: 0.015},
	},
	{
		guard:   func(_ float64, mergerSurge bool) bool { return mergerSurge },
		weights: model.RegimeWeights{GoodwillWeight: 1.2, GSRWeight: 0.005},
	},
	{
		guard:   func(_ float64, _ bool) bool { return true },
		weights: model.RegimeWeights{GoodwillWeight: 1.0, GSRWeight: 0.01},
	},
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLookback sets the momentum lookback period.
func WithLookback(lookback int) Option {
	return func(e *Engine) {
		if lookback >= 2 {
			e.lookback = lookback
		}
	}
}

// WithClock sets the time source, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// Engine owns the append-only unified-goodwill history. Appends are
// serialized behind a write lock; reads share a read lock, so a reader never
// observes a partially appended history. The history is never reordered or
// truncated.
type Engine struct {
	mu       sync.RWMutex
	history  []model.GoodwillRecord
	lookback int
	clock    func() time.Time
}

// New constructs an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		lookback: DefaultLookback,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RecordGoodwill appends a unified goodwill score to the history.
func (e *Engine) RecordGoodwill(ctx context.Context, ugs float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, model.GoodwillRecord{UGS: ugs, RecordedAt: e.clock()})
}

// Momentum returns the relative change between the latest goodwill value and
// the value recorded at the configured lookback. Insufficient history or a
// zero reference value yields 0.0; neither is an error.
func (e *Engine) Momentum(ctx context.Context) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.momentumLocked()
}

func (e *Engine) momentumLocked() float64 {
	if len(e.history) < e.lookback {
		return 0.0
	}
	current := e.history[len(e.history)-1].UGS
	prior := e.history[len(e.history)-e.lookback].UGS
	if prior == 0 {
		return 0.0
	}
	return (current - prior) / prior
}

// GoldSilverRatio returns goldPrice / silverPrice. A non-positive silver
// price is a caller error.
func (e *Engine) GoldSilverRatio(goldPrice, silverPrice float64) (float64, error) {
	if silverPrice <= 0 {
		return 0, fmt.Errorf("gold/silver ratio: silver price must be positive, got %v: %w", silverPrice, ErrInvalidInput)
	}
	return goldPrice / silverPrice, nil
}

// SelectWeights returns the regime weights for the given market-stress
// inputs, evaluating the tier table first-match-wins.
func (e *Engine) SelectWeights(volatilityIndex float64, mergerActivitySurge bool) model.RegimeWeights {
	for _, rule := range weightRules {
		if rule.guard(volatilityIndex, mergerActivitySurge) {
			return rule.weights
		}
	}
	// The final rule always matches; this is unreachable.
	return model.RegimeWeights{GoodwillWeight: 1.0, GSRWeight: 0.01}
}

// ComputeIndex derives the trust index from the current history and market
// inputs: goodwillWeight × momentum − gsrWeight × gsr. Callers that want the
// new period to count toward momentum must RecordGoodwill before calling.
// No partial result is returned on invalid input.
func (e *Engine) ComputeIndex(ctx context.Context, goldPrice, silverPrice, volatilityIndex float64, mergerActivitySurge bool) (model.TrustIndex, error) {
	gsr, err := e.GoldSilverRatio(goldPrice, silverPrice)
	if err != nil {
		return model.TrustIndex{}, err
	}

	e.mu.RLock()
	momentum := e.momentumLocked()
	e.mu.RUnlock()

	weights := e.SelectWeights(volatilityIndex, mergerActivitySurge)
	score := weights.GoodwillWeight*momentum - weights.GSRWeight*gsr

	return model.TrustIndex{
		Score:           score,
		Regime:          regime.Classify(score),
		GoldSilverRatio: gsr,
		Momentum:        momentum,
		ComputedAt:      e.clock(),
	}, nil
}

// Len returns the number of recorded goodwill values.
func (e *Engine) Len(ctx context.Context) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.history)
}

// History returns a copy of the recorded goodwill values in append order.
func (e *Engine) History(ctx context.Context) []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]float64, len(e.history))
	for i, r := range e.history {
		out[i] = r.UGS
	}
	return out
}

// LastRecordedAt returns the timestamp of the most recent goodwill record.
// The second return is false when the history is empty.
func (e *Engine) LastRecordedAt(ctx context.Context) (time.Time, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.history) == 0 {
		return time.Time{}, false
	}
	return e.history[len(e.history)-1].RecordedAt, true
}
