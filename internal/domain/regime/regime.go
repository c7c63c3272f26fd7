// Package regime discretizes a trust-index score into a market state.
package regime

// Regime labels the prevailing market state derived from the trust index.
type Regime string

// The three market regimes. The wire representation is the lowercase string.
const (
	Bullish Regime = "bullish"
	Bearish Regime = "bearish"
	Neutral Regime = "neutral"
)

// Classification boundaries. Both boundary values themselves classify as
// neutral; the inequalities are strict on purpose.
const (
	bullishThreshold = 0.05
	bearishThreshold = -0.05
)

// Classify maps a trust-index score to a regime.
func Classify(score float64) Regime {
	switch {
	case score > bullishThreshold:
		return Bullish
	case score < bearishThreshold:
		return Bearish
	default:
		return Neutral
	}
}

// All returns every regime label, used for gauge-style metrics.
func All() []string {
	return []string{string(Bullish), string(Bearish), string(Neutral)}
}

// Valid reports whether s names a known regime.
func Valid(s string) bool {
	switch Regime(s) {
	case Bullish, Bearish, Neutral:
		return true
	default:
		return false
	}
}
