package seed

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Credential is one generated attestation.
type Credential struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Issuer   string `json:"issuer"`
}

// Candidate is one generated registration payload.
type Candidate struct {
	Handle      string       `json:"handle"`
	BaseScore   float64      `json:"base_score"`
	TenureYears int          `json:"tenure_years"`
	Credentials []Credential `json:"credentials"`
}

// Generator produces realistic candidate profiles.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a candidate generator.
func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// categoryPool pairs a credential category with its label pool and the count
// range a profile draws from it.
type categoryPool struct {
	category string
	labels   []string
	min, max int
}

var categoryPools = []categoryPool{
	{"skill", skillLabels, 2, 5},
	{"character", characterLabels, 1, 3},
	{"certification", certificationLabels, 0, 2},
	{"project", projectLabels, 0, 2},
	{"loyalty", loyaltyLabels, 0, 1},
}

// Candidate generates one complete candidate profile. The base score is
// correlated with tenure plus noise, clamped to [40, 100].
func (g *Generator) Candidate() Candidate {
	tenure := 1 + g.rng.Intn(20)

	score := 60 + float64(tenure)*1.5 + g.rng.NormFloat64()*10
	if score > 100 {
		score = 100
	}
	if score < 40 {
		score = 40
	}

	return Candidate{
		Handle:      "cand-" + uuid.NewString(),
		BaseScore:   score,
		TenureYears: tenure,
		Credentials: g.credentials(),
	}
}

// credentials draws from each category pool without repeating labels within
// a category.
func (g *Generator) credentials() []Credential {
	var out []Credential
	for _, pool := range categoryPools {
		count := pool.min
		if pool.max > pool.min {
			count += g.rng.Intn(pool.max - pool.min + 1)
		}
		for _, idx := range g.rng.Perm(len(pool.labels))[:count] {
			out = append(out, Credential{
				Category: pool.category,
				Label:    pool.labels[idx],
				Issuer:   issuers[g.rng.Intn(len(issuers))],
			})
		}
	}
	return out
}
