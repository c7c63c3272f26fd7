// Package match evaluates candidate credential sets against hiring queries
// and computes regime-adjusted merit scores.
package match

import (
	"context"
	"sort"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithPolicy sets the regime-adjustment policy.
func WithPolicy(p Policy) Option {
	return func(m *Matcher) {
		if p != nil {
			m.policy = p
		}
	}
}

// Matcher matches anonymized candidate profiles against queries. It reads
// only credentials, score, and tenure; no identity fields exist to read.
type Matcher struct {
	policy Policy
}

// New constructs a Matcher with the default adjustment policy.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		policy: PolicyV1{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Matches reports whether every required credential label is held by the
// candidate. The subset check is exact and case-sensitive; there is no
// partial credit.
func (m *Matcher) Matches(p model.Profile, q model.Query) bool {
	held := p.Labels()
	for _, want := range q.RequiredCredentials {
		if _, ok := held[want]; !ok {
			return false
		}
	}
	return true
}

// Score computes the candidate's score under the given regime. With
// considerRegime false, or under a neutral regime, the base predictive score
// passes through unchanged.
func (m *Matcher) Score(p model.Profile, r regime.Regime, considerRegime bool) model.ScoreBreakdown {
	base := p.BaseScore
	final := base
	if considerRegime {
		final = m.policy.Adjust(base, profileTraits(p), r)
	}
	return model.ScoreBreakdown{
		Handle:           p.Handle,
		BaseScore:        base,
		RegimeAdjustment: final - base,
		FinalScore:       final,
	}
}

// Query filters profiles by Matches, scores the survivors, drops those whose
// final score falls below the query minimum, and returns breakdowns sorted by
// final score descending with ties broken by ascending handle. The result is
// deterministic for a fixed pool snapshot and query; an empty result is a
// valid outcome.
func (m *Matcher) Query(ctx context.Context, profiles []model.Profile, q model.Query, r regime.Regime) []model.ScoreBreakdown {
	results := make([]model.ScoreBreakdown, 0, len(profiles))
	for _, p := range profiles {
		if !m.Matches(p, q) {
			continue
		}
		b := m.Score(p, r, q.ConsiderRegime)
		if b.FinalScore < q.MinimumScore {
			continue
		}
		b.MatchedCredentials = matchedLabels(p, q)
		results = append(results, b)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].Handle < results[j].Handle
	})

	if q.MaxResults > 0 && len(results) > q.MaxResults {
		results = results[:q.MaxResults]
	}
	return results
}

// PolicyName returns the name of the active adjustment policy.
func (m *Matcher) PolicyName() string {
	return m.policy.Name()
}

// matchedLabels returns the required labels the profile holds, in query
// order. After a successful Matches this is the full required set.
func matchedLabels(p model.Profile, q model.Query) []string {
	held := p.Labels()
	out := make([]string, 0, len(q.RequiredCredentials))
	for _, want := range q.RequiredCredentials {
		if _, ok := held[want]; ok {
			out = append(out, want)
		}
	}
	return out
}
