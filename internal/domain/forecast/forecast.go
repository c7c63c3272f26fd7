// Package forecast derives qualitative hiring-outlook and talent-flow
// indicators from the latest trust index and candidate-pool statistics.
// Every label is reproducible from the fixed rule that produced it; there is
// no hidden model state.
package forecast

import (
	"time"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// Confidence tiers keyed by the recency of the last goodwill record.
const (
	ConfidenceHigh     = "high"
	ConfidenceModerate = "moderate"
	ConfidenceLow      = "low"
)

// Talent-flow signals keyed by credential-composition ratios.
const (
	FlowWorkforceInstability = "workforce_instability"
	FlowUpskillingSurge      = "upskilling_surge"
	FlowSteadyState          = "steady_state"
)

// Talent-flow thresholds: loyalty credentials per candidate below the first
// signal churn risk, skill credentials per candidate above the second signal
// upskilling.
const (
	lowLoyaltyThreshold  = 0.3
	highUpskillThreshold = 3.0
)

// Default confidence windows.
const (
	defaultHighWindow = 15 * time.Minute
	defaultLowWindow  = time.Hour
)

// Outlook is a hiring-strategy label with its rationale.
type Outlook struct {
	Strategy   string
	Rationale  string
	Prioritize []string
}

// Fixed outlook tiers keyed by regime.
var outlooks = map[regime.Regime]Outlook{
	regime.Bullish: {
		Strategy:   "aggressive_growth",
		Rationale:  "market confidence high; invest in transformative talent",
		Prioritize: []string{"innovation", "growth_potential", "risk_taking"},
	},
	regime.Bearish: {
		Strategy:   "defensive",
		Rationale:  "market fear elevated; secure reliable, stable talent",
		Prioritize: []string{"loyalty", "proven_performance", "crisis_management"},
	},
	regime.Neutral: {
		Strategy:   "balanced",
		Rationale:  "market equilibrium; maintain strategic flexibility",
		Prioritize: []string{"versatility", "adaptability", "core_competencies"},
	},
}

// Report is one forecast computation.
type Report struct {
	Regime          regime.Regime
	GSTIScore       float64
	GoldSilverRatio float64

	HiringOutlook    Outlook
	TalentFlow       string
	TalentFlowDetail string
	Confidence       string

	GeneratedAt time.Time
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConfidenceWindows sets the recency windows for the high and low
// confidence tiers.
func WithConfidenceWindows(high, low time.Duration) Option {
	return func(e *Engine) {
		if high > 0 && low > high {
			e.highWindow = high
			e.lowWindow = low
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

// Engine aggregates engine outputs and pool statistics into forecasts. It
// never fails: missing or stale inputs degrade to the most conservative
// labels.
type Engine struct {
	highWindow time.Duration
	lowWindow  time.Duration
	clock      func() time.Time
}

// New constructs a forecast Engine with default confidence windows.
func New(opts ...Option) *Engine {
	e := &Engine{
		highWindow: defaultHighWindow,
		lowWindow:  defaultLowWindow,
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Forecast produces a report from the latest trust index (nil when no market
// update has happened yet), pool statistics, and the time of the last
// goodwill record (zero when never recorded).
func (e *Engine) Forecast(index *model.TrustIndex, stats model.CredentialStats, lastRecorded time.Time) Report {
	r := regime.Neutral
	report := Report{GeneratedAt: e.clock()}
	if index != nil {
		r = index.Regime
		report.GSTIScore = index.Score
		report.GoldSilverRatio = index.GoldSilverRatio
	}
	report.Regime = r
	report.HiringOutlook = outlooks[r]
	report.TalentFlow, report.TalentFlowDetail = talentFlow(stats)
	report.Confidence = e.confidence(lastRecorded)
	return report
}

// OutlookFor returns the fixed outlook tier for a regime.
func OutlookFor(r regime.Regime) Outlook {
	if o, ok := outlooks[r]; ok {
		return o
	}
	return outlooks[regime.Neutral]
}

// talentFlow derives the flow signal from credential concentration. An empty
// pool reads as steady state.
func talentFlow(stats model.CredentialStats) (string, string) {
	if stats.Candidates == 0 {
		return FlowSteadyState, "insufficient data for analysis"
	}
	if stats.LoyaltyPerCandidate() < lowLoyaltyThreshold {
		return FlowWorkforceInstability, "low loyalty concentration; increased churn risk"
	}
	if stats.SkillPerCandidate() > highUpskillThreshold {
		return FlowUpskillingSurge, "workforce adapting to market changes; resilience indicator"
	}
	return FlowSteadyState, "credential mix within normal bands"
}

// confidence degrades monotonically with the elapsed time since the last
// goodwill record.
func (e *Engine) confidence(lastRecorded time.Time) string {
	if lastRecorded.IsZero() {
		return ConfidenceLow
	}
	elapsed := e.clock().Sub(lastRecorded)
	switch {
	case elapsed <= e.highWindow:
		return ConfidenceHigh
	case elapsed <= e.lowWindow:
		return ConfidenceModerate
	default:
		return ConfidenceLow
	}
}
