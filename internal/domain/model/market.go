// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// BusinessHealthSnapshot carries the goodwill inputs for one scoring cycle.
// All values are unitless ratios; RevenueGrowth may exceed 1. The snapshot is
// immutable once constructed.
type BusinessHealthSnapshot struct {
	Retention     float64 // customer retention
	Satisfaction  float64 // employee satisfaction
	BrandTrust    float64
	RevenueGrowth float64
	TimeWeight    float64 // exponent applied to revenue growth
	Backlash      float64 // net customer backlash (organizational)
	Smoothing     float64 // temporal normalization divisor, must be non-zero

	ConsumerSatisfaction float64
	ConsumerReputation   float64
	ConsumerAdvocacy     float64
	ConsumerSpeed        float64 // service speed
	ConsumerBacklash     float64

	OrgWeight      float64 // weight of organizational goodwill in the UGS
	ConsumerWeight float64 // weight of consumer goodwill in the UGS
}

// MarketSnapshot is the full per-cycle input the caller supplies: commodity
// prices, stress indicators, and the business-health inputs.
type MarketSnapshot struct {
	GoldPrice           float64
	SilverPrice         float64
	VolatilityIndex     float64
	MergerActivitySurge bool

	Health BusinessHealthSnapshot
}

// GoodwillRecord is one timestamped unified goodwill score in the engine's
// append-only history. Never mutated after append.
type GoodwillRecord struct {
	UGS        float64
	RecordedAt time.Time
}

// RegimeWeights holds the dynamic weights combining goodwill momentum and the
// gold/silver ratio. Recomputed per call, never retained.
type RegimeWeights struct {
	GoodwillWeight float64
	GSRWeight      float64
}

// TrustIndex is the composite trust/fear result for one computation.
// Recomputed fresh on every request.
type TrustIndex struct {
	Score           float64
	Regime          regime.Regime
	GoldSilverRatio float64
	Momentum        float64
	ComputedAt      time.Time
}

// MarketState is the last fully computed market intelligence cycle, kept by
// the service for read endpoints.
type MarketState struct {
	Index TrustIndex

	GoldPrice           float64
	SilverPrice         float64
	VolatilityIndex     float64
	MergerActivitySurge bool

	OrganizationalGoodwill float64
	ConsumerGoodwill       float64
	UnifiedGoodwill        float64
	Weights                RegimeWeights

	UpdatedAt time.Time
}
