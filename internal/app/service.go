// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	regqueue "github.com/meritworks/ampgsti/internal/adapters/mq/queue"
	workerpool "github.com/meritworks/ampgsti/internal/adapters/mq/worker"
	"github.com/meritworks/ampgsti/internal/adapters/repository"
	"github.com/meritworks/ampgsti/internal/domain/forecast"
	"github.com/meritworks/ampgsti/internal/domain/goodwill"
	"github.com/meritworks/ampgsti/internal/domain/gsti"
	"github.com/meritworks/ampgsti/internal/domain/match"
	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
	"github.com/meritworks/ampgsti/pkg/logger"
	"github.com/meritworks/ampgsti/pkg/metrics"
)

// Service composes the goodwill calculator, the trust-index engine, the
// candidate pool, and the matching and forecast layers behind one surface.
type Service struct {
	mu sync.RWMutex

	// Core components
	calculator *goodwill.Calculator
	engine     *gsti.Engine
	matcher    *match.Matcher
	forecaster *forecast.Engine
	pool       repository.Store
	regQueue   regqueue.Queue
	workerPool *workerpool.Pool

	// Last fully computed market cycle, nil before the first update.
	lastState *model.MarketState

	// Configuration
	workerCount        int
	queueSize          int
	maxQueryResults    int
	orgWeight          float64
	consumerWeight     float64
	backlashFloor      float64
	momentumLookback   int
	snapshotInterval   time.Duration
	confidenceHigh     time.Duration
	confidenceModerate time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of admission workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the registration queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxQueryResults caps candidate query results when the request does not
// set its own limit.
func WithMaxQueryResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxQueryResults = n
		}
	}
}

// WithBlendWeights sets the default organizational/consumer goodwill blend
// used when a market update carries no explicit weights.
func WithBlendWeights(org, consumer float64) Option {
	return func(s *Service) {
		if org >= 0 && consumer >= 0 && org+consumer > 0 {
			s.orgWeight = org
			s.consumerWeight = consumer
		}
	}
}

// WithBacklashFloor sets the zero-backlash substitute for consumer goodwill.
func WithBacklashFloor(floor float64) Option {
	return func(s *Service) {
		if floor > 0 {
			s.backlashFloor = floor
		}
	}
}

// WithMomentumLookback sets how many goodwill records back momentum compares
// against. Values below 2 are ignored; a lookback of 1 would compare the
// latest record against itself.
func WithMomentumLookback(lookback int) Option {
	return func(s *Service) {
		if lookback >= 2 {
			s.momentumLookback = lookback
		}
	}
}

// WithSnapshotInterval sets the candidate-pool snapshot cadence.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithConfidenceWindows sets the forecast confidence recency windows.
func WithConfidenceWindows(high, moderate time.Duration) Option {
	return func(s *Service) {
		if high > 0 && moderate > high {
			s.confidenceHigh = high
			s.confidenceModerate = moderate
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:        runtime.NumCPU() * 2,
		queueSize:          100000,
		maxQueryResults:    100,
		orgWeight:          0.6,
		consumerWeight:     0.4,
		backlashFloor:      goodwill.DefaultBacklashFloor,
		momentumLookback:   gsti.DefaultLookback,
		snapshotInterval:   time.Second,
		confidenceHigh:     15 * time.Minute,
		confidenceModerate: time.Hour,
		stopCh:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting talent intelligence service...")

	s.calculator = goodwill.New(
		goodwill.WithBacklashFloor(s.backlashFloor),
	)
	s.engine = gsti.New(
		gsti.WithLookback(s.momentumLookback),
	)
	s.matcher = match.New()
	s.forecaster = forecast.New(
		forecast.WithConfidenceWindows(s.confidenceHigh, s.confidenceModerate),
	)
	s.pool = repository.NewTreapStore(ctx,
		repository.WithSnapshotInterval(s.snapshotInterval),
	)
	s.regQueue = regqueue.NewInMemoryQueue(
		regqueue.WithCapacity(s.queueSize),
		regqueue.WithBufferSize(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.regQueue, s.pool)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "talent intelligence service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Float64("orgWeight", s.orgWeight),
		logger.Float64("consumerWeight", s.consumerWeight),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping talent intelligence service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(context.Background())
	}

	if s.pool != nil {
		if closer, ok := s.pool.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "talent intelligence service stopped")
}

// UpdateMarket runs one full scoring cycle: goodwill sub-scores, unified
// score, history append, then the trust index against the grown history.
// The new unified score counts toward its own cycle's momentum.
func (s *Service) UpdateMarket(ctx context.Context, snap model.MarketSnapshot) (model.MarketState, error) {
	h := snap.Health

	org, err := s.calculator.Organizational(
		h.Retention, h.Satisfaction, h.BrandTrust,
		h.RevenueGrowth, h.TimeWeight, h.Backlash, h.Smoothing,
	)
	if err != nil {
		metrics.RecordMarketUpdateError()
		return model.MarketState{}, err
	}

	consumer := s.calculator.Consumer(
		h.ConsumerSatisfaction, h.ConsumerReputation,
		h.ConsumerAdvocacy, h.ConsumerSpeed, h.ConsumerBacklash,
	)

	orgWeight, consumerWeight := h.OrgWeight, h.ConsumerWeight
	if orgWeight == 0 && consumerWeight == 0 {
		orgWeight, consumerWeight = s.orgWeight, s.consumerWeight
	}

	ugs, err := s.calculator.Unified(org, consumer, orgWeight, consumerWeight, h.Smoothing)
	if err != nil {
		metrics.RecordMarketUpdateError()
		return model.MarketState{}, err
	}

	s.engine.RecordGoodwill(ctx, ugs)

	index, err := s.engine.ComputeIndex(ctx,
		snap.GoldPrice, snap.SilverPrice, snap.VolatilityIndex, snap.MergerActivitySurge,
	)
	if err != nil {
		metrics.RecordMarketUpdateError()
		return model.MarketState{}, err
	}

	weights := s.engine.SelectWeights(snap.VolatilityIndex, snap.MergerActivitySurge)
	state := model.MarketState{
		Index:                  index,
		GoldPrice:              snap.GoldPrice,
		SilverPrice:            snap.SilverPrice,
		VolatilityIndex:        snap.VolatilityIndex,
		MergerActivitySurge:    snap.MergerActivitySurge,
		OrganizationalGoodwill: org,
		ConsumerGoodwill:       consumer,
		UnifiedGoodwill:        ugs,
		Weights:                weights,
		UpdatedAt:              index.ComputedAt,
	}

	s.mu.Lock()
	s.lastState = &state
	s.mu.Unlock()

	metrics.RecordMarketUpdate()
	metrics.UpdateGSTIScore(index.Score)
	metrics.UpdateGoodwillMomentum(index.Momentum)
	metrics.UpdateGoldSilverRatio(index.GoldSilverRatio)
	metrics.UpdateUnifiedGoodwill(ugs)
	metrics.UpdateGoodwillHistoryLength(s.engine.Len(ctx))
	metrics.UpdateRegimeState(string(index.Regime), regime.All())

	s.logger.Info(ctx, "market updated",
		logger.Float64("gsti", index.Score),
		logger.String("regime", string(index.Regime)),
		logger.Float64("ugs", ugs),
		logger.Float64("gsr", index.GoldSilverRatio),
	)

	return state, nil
}

// MarketState returns the last computed cycle. The second return is false
// before the first successful update.
func (s *Service) MarketState(ctx context.Context) (model.MarketState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastState == nil {
		return model.MarketState{}, false
	}
	return *s.lastState, true
}

// CurrentRegime returns the active regime, defaulting to neutral before the
// first market update.
func (s *Service) CurrentRegime(ctx context.Context) (regime.Regime, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastState == nil {
		return regime.Neutral, false
	}
	return s.lastState.Index.Regime, true
}

// EnqueueRegistration submits a candidate registration for asynchronous
// admission. Returns false when the queue is full.
func (s *Service) EnqueueRegistration(ctx context.Context, r model.Registration) bool {
	ok := s.regQueue.Enqueue(ctx, r)
	if !ok {
		s.logger.Warn(ctx, "registration queue full",
			logger.String("handle", r.Handle),
		)
	}
	return ok
}

// QueryCandidates screens the pool against the query and returns ranked
// score breakdowns. The active regime drives adjustment when the query asks
// for it; before the first market update the regime reads as neutral.
func (s *Service) QueryCandidates(ctx context.Context, q model.Query) ([]model.ScoreBreakdown, error) {
	start := time.Now()
	defer func() {
		metrics.RecordMatchQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if q.MaxResults <= 0 || q.MaxResults > s.maxQueryResults {
		q.MaxResults = s.maxQueryResults
	}

	r, _ := s.CurrentRegime(ctx)
	profiles := s.pool.All(ctx)

	results := s.matcher.Query(ctx, profiles, q, r)

	metrics.RecordMatchQuery()
	metrics.RecordCandidatesScreened(len(profiles))
	metrics.RecordCandidatesMatched(len(results))

	return results, nil
}

// Forecast derives the hiring outlook from the latest trust index and the
// current pool composition. It never fails; missing inputs degrade the
// labels.
func (s *Service) Forecast(ctx context.Context) forecast.Report {
	metrics.RecordForecastRequest()

	s.mu.RLock()
	index := s.lastState
	s.mu.RUnlock()

	var indexCopy *model.TrustIndex
	if index != nil {
		idx := index.Index
		indexCopy = &idx
	}

	stats := s.pool.CredentialStats(ctx)
	lastRecorded, _ := s.engine.LastRecordedAt(ctx)

	return s.forecaster.Forecast(indexCopy, stats, lastRecorded)
}

// PoolStats returns candidate-pool composition statistics.
func (s *Service) PoolStats(ctx context.Context) model.CredentialStats {
	return s.pool.CredentialStats(ctx)
}

// TopCandidates returns the top-n pool entries by base score.
func (s *Service) TopCandidates(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.pool.TopN(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"maxQueryResults": s.maxQueryResults,
	}

	if s.started {
		queueLen := s.regQueue.Len(ctx)
		totalCandidates := s.pool.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalCandidates"] = totalCandidates
		stats["goodwillHistoryLength"] = s.engine.Len(ctx)
		if s.lastState != nil {
			stats["regime"] = string(s.lastState.Index.Regime)
			stats["gstiScore"] = s.lastState.Index.Score
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateCandidatesTotal(totalCandidates)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
