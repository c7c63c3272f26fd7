package match

import (
	"strings"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// Score bounds for the final adjusted score.
const (
	minScore = 0.0
	maxScore = 100.0
)

// Traits summarizes the credential composition the policy keys on.
type Traits struct {
	HasInnovation bool // any credential label mentioning innovation
	HasStability  bool // any credential label mentioning loyalty or mentoring
	HasLoyalty    bool // any loyalty-category credential
	TenureYears   int
}

// Policy is a versioned regime-adjustment curve. Implementations must be
// deterministic given (base, traits, regime), monotonic (a favored regime
// never scores below neutral for a candidate it favors), and bounded so the
// result stays within [0, 100].
type Policy interface {
	Name() string
	Adjust(base float64, t Traits, r regime.Regime) float64
}

// PolicyV1 multipliers.
const (
	v1BearStability       = 1.15
	v1BearLoyalty         = 1.10
	v1BearInnovationOnly  = 0.95
	v1BullInnovation      = 1.15
	v1BullGrowthPotential = 1.08
	v1BullOverStability   = 0.98
	v1GrowthTenureCeiling = 5  // below this, growth-potential bonus applies
	v1LongTenureFloor     = 10 // above this, the over-stability damp applies
)

// PolicyV1 is the initial adjustment curve. Bearish regimes reward stability
// and loyalty and lightly damp innovation-only profiles; bullish regimes
// reward innovation and growth potential and lightly damp long-tenured
// loyalty. Neutral applies no adjustment. The worst favored-regime product
// (1.15 × 0.98 bullish, 1.10 × 0.95 bearish) stays above 1, so the
// monotonicity contract holds for every credential mix.
type PolicyV1 struct{}

// Name identifies the policy version.
func (PolicyV1) Name() string { return "regime-adjust/v1" }

// Adjust applies the v1 multiplier curve and clamps to [0, 100].
func (PolicyV1) Adjust(base float64, t Traits, r regime.Regime) float64 {
	score := base

	switch r {
	case regime.Bearish:
		if t.HasStability {
			score *= v1BearStability
		}
		if t.HasLoyalty {
			score *= v1BearLoyalty
		}
		if t.HasInnovation && !t.HasStability {
			score *= v1BearInnovationOnly
		}
	case regime.Bullish:
		if t.HasInnovation {
			score *= v1BullInnovation
		}
		if t.TenureYears < v1GrowthTenureCeiling {
			score *= v1BullGrowthPotential
		}
		if t.HasLoyalty && t.TenureYears > v1LongTenureFloor {
			score *= v1BullOverStability
		}
	case regime.Neutral:
		// no adjustment
	}

	if score > maxScore {
		score = maxScore
	}
	if score < minScore {
		score = minScore
	}
	return score
}

// profileTraits derives the policy inputs from a profile's credentials.
// Trait detection is case-insensitive on labels; query matching is not.
func profileTraits(p model.Profile) Traits {
	t := Traits{TenureYears: p.TenureYears}
	for _, c := range p.Credentials {
		if c.Category == model.CategoryLoyalty {
			t.HasLoyalty = true
		}
		label := strings.ToLower(c.Label)
		if strings.Contains(label, "innovation") {
			t.HasInnovation = true
		}
		if strings.Contains(label, "loyalty") || strings.Contains(label, "mentor") {
			t.HasStability = true
		}
	}
	return t
}
