// Package goodwill computes organizational, consumer, and unified goodwill
// scores from business-health inputs. All operations are pure functions of
// their inputs.
package goodwill

import (
	"fmt"
	"math"
)

// DefaultBacklashFloor is substituted for a consumer backlash of exactly
// zero. It is a compatibility constant inherited from the original model,
// not a principled value; override it with WithBacklashFloor.
const DefaultBacklashFloor = 0.001

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithBacklashFloor overrides the floor substituted for a zero consumer
// backlash.
func WithBacklashFloor(floor float64) Option {
	return func(c *Calculator) {
		if floor > 0 {
			c.backlashFloor = floor
		}
	}
}

// Calculator computes goodwill sub-scores and their unification.
type Calculator struct {
	backlashFloor float64
}

// New constructs a Calculator with default configuration.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		backlashFloor: DefaultBacklashFloor,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Organizational computes the long-term structural trust score:
// retention × satisfaction × brandTrust × (revenueGrowth^timeWeight − backlash) / smoothing.
// A zero smoothing divisor is a caller error: smoothing represents elapsed
// time and zero time is meaningless.
func (c *Calculator) Organizational(retention, satisfaction, brandTrust, revenueGrowth, timeWeight, backlash, smoothing float64) (float64, error) {
	if smoothing == 0 {
		return 0, fmt.Errorf("organizational goodwill: smoothing must be non-zero: %w", ErrInvalidInput)
	}
	numerator := retention * satisfaction * brandTrust * (math.Pow(revenueGrowth, timeWeight) - backlash)
	return numerator / smoothing, nil
}

// Consumer computes the immediate external-perception score:
// satisfaction × reputation × advocacy × speed / consumerBacklash.
// A consumer backlash of exactly zero is floored rather than rejected; this
// is the only guarded division in the model.
func (c *Calculator) Consumer(satisfaction, reputation, advocacy, speed, consumerBacklash float64) float64 {
	if consumerBacklash == 0 {
		consumerBacklash = c.backlashFloor
	}
	return (satisfaction * reputation * advocacy * speed) / consumerBacklash
}

// Unified combines the two sub-scores into the Unified Goodwill Score:
// (orgWeight×org + consumerWeight×consumer) / smoothing.
func (c *Calculator) Unified(org, consumer, orgWeight, consumerWeight, smoothing float64) (float64, error) {
	if smoothing == 0 {
		return 0, fmt.Errorf("unified goodwill: smoothing must be non-zero: %w", ErrInvalidInput)
	}
	return (orgWeight*org + consumerWeight*consumer) / smoothing, nil
}

// BacklashFloor returns the configured zero-backlash substitute.
func (c *Calculator) BacklashFloor() float64 {
	return c.backlashFloor
}
