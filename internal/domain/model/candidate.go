package model

// CredentialCategory classifies an anonymized credential token.
type CredentialCategory string

// Known credential categories.
const (
	CategorySkill         CredentialCategory = "skill"
	CategoryCharacter     CredentialCategory = "character"
	CategoryLoyalty       CredentialCategory = "loyalty"
	CategoryProject       CredentialCategory = "project"
	CategoryCertification CredentialCategory = "certification"
)

// ValidCategory reports whether c names a known credential category.
func ValidCategory(c CredentialCategory) bool {
	switch c {
	case CategorySkill, CategoryCharacter, CategoryLoyalty, CategoryProject, CategoryCertification:
		return true
	default:
		return false
	}
}

// Credential is an anonymized, non-identity attestation attached to a
// candidate. Immutable.
type Credential struct {
	Category CredentialCategory
	Label    string
	Issuer   string
}

// Profile is an anonymized candidate record: a handle, a credential set, a
// base predictive score in [0,100], and tenure. No identity fields.
type Profile struct {
	Handle      string
	Credentials []Credential
	BaseScore   float64
	TenureYears int
}

// Labels returns the set of credential labels held by the profile.
func (p Profile) Labels() map[string]struct{} {
	out := make(map[string]struct{}, len(p.Credentials))
	for _, c := range p.Credentials {
		out[c.Label] = struct{}{}
	}
	return out
}

// Registration is the queue payload for asynchronous candidate admission.
type Registration struct {
	Handle      string
	Credentials []Credential
	BaseScore   float64
	TenureYears int
}

// Query selects and ranks candidates. RequiredCredentials is matched as an
// exact, case-sensitive subset of the candidate's credential labels.
// MaxResults <= 0 means unlimited.
type Query struct {
	RequiredCredentials []string
	MinimumScore        float64
	ConsiderRegime      bool
	MaxResults          int
}

// ScoreBreakdown explains one candidate's score for one query. Produced fresh
// per candidate per query; never persisted.
type ScoreBreakdown struct {
	Handle             string
	BaseScore          float64
	RegimeAdjustment   float64
	FinalScore         float64
	MatchedCredentials []string
}

// CredentialStats aggregates anonymized candidate-pool statistics for the
// forecast engine and stats endpoints.
type CredentialStats struct {
	Candidates               int
	ByCategory               map[CredentialCategory]int
	AvgBaseScore             float64
	AvgTenureYears           float64
	AvgCredentialsPerProfile float64
}

// LoyaltyPerCandidate returns loyalty credentials per candidate, 0 for an
// empty pool.
func (s CredentialStats) LoyaltyPerCandidate() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.ByCategory[CategoryLoyalty]) / float64(s.Candidates)
}

// SkillPerCandidate returns skill credentials per candidate, 0 for an empty
// pool.
func (s CredentialStats) SkillPerCandidate() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.ByCategory[CategorySkill]) / float64(s.Candidates)
}
