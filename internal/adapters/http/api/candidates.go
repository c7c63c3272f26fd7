package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/meritworks/ampgsti/internal/adapters/repository"
	"github.com/meritworks/ampgsti/internal/domain/model"
)

// statsTopN is how many leading candidates the stats endpoint includes.
const statsTopN = 10

// CandidateDependencies defines the interface for candidate-pool operations.
type CandidateDependencies interface {
	EnqueueRegistration(ctx context.Context, r model.Registration) bool
	QueryCandidates(ctx context.Context, q model.Query) ([]model.ScoreBreakdown, error)
	PoolStats(ctx context.Context) model.CredentialStats
	TopCandidates(ctx context.Context, n int) ([]repository.Entry, error)
}

// CandidatesHandler handles candidate registration, query, and stats requests.
type CandidatesHandler struct {
	deps CandidateDependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidateDependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// credentialRequest mirrors one anonymized credential.
type credentialRequest struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Issuer   string `json:"issuer,omitempty"`
}

// registrationRequest mirrors the schema for POST /candidates.
type registrationRequest struct {
	Handle      string              `json:"handle"`
	BaseScore   float64             `json:"base_score"`
	TenureYears int                 `json:"tenure_years"`
	Credentials []credentialRequest `json:"credentials"`
}

func (r registrationRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Handle) == "":
		return errors.New("missing handle")
	case r.BaseScore < 0 || r.BaseScore > 100:
		return errors.New("base_score must be in [0, 100]")
	case r.TenureYears < 0:
		return errors.New("tenure_years must be non-negative")
	}
	for _, c := range r.Credentials {
		if !model.ValidCategory(model.CredentialCategory(c.Category)) {
			return fmt.Errorf("unknown credential category %q", c.Category)
		}
		if strings.TrimSpace(c.Label) == "" {
			return errors.New("missing credential label")
		}
	}
	return nil
}

func (r registrationRequest) toRegistration() model.Registration {
	creds := make([]model.Credential, 0, len(r.Credentials))
	for _, c := range r.Credentials {
		creds = append(creds, model.Credential{
			Category: model.CredentialCategory(c.Category),
			Label:    c.Label,
			Issuer:   c.Issuer,
		})
	}
	return model.Registration{
		Handle:      r.Handle,
		BaseScore:   r.BaseScore,
		TenureYears: r.TenureYears,
		Credentials: creds,
	}
}

// HandleRegister handles POST /candidates requests. Admission is
// asynchronous: a 202 means the registration was queued, not yet admitted.
func (h *CandidatesHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_candidate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if ok := h.deps.EnqueueRegistration(r.Context(), req.toRegistration()); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Handle: req.Handle})
}

// queryRequest mirrors the schema for POST /candidates/query.
type queryRequest struct {
	RequiredCredentials []string `json:"required_credentials"`
	MinimumScore        float64  `json:"minimum_score"`
	ConsiderRegime      bool     `json:"consider_regime"`
	MaxResults          int      `json:"max_results"`
}

// scoreBreakdownResponse mirrors one ranked query result.
type scoreBreakdownResponse struct {
	Handle             string   `json:"handle"`
	BaseScore          float64  `json:"base_score"`
	RegimeAdjustment   float64  `json:"regime_adjustment"`
	FinalScore         float64  `json:"final_score"`
	MatchedCredentials []string `json:"matched_credentials"`
}

type queryResponse struct {
	Results []scoreBreakdownResponse `json:"results"`
	Count   int                      `json:"count"`
}

// HandleQuery handles POST /candidates/query requests.
func (h *CandidatesHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	const op = "api.query_candidates"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.MinimumScore < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	results, err := h.deps.QueryCandidates(r.Context(), model.Query{
		RequiredCredentials: req.RequiredCredentials,
		MinimumScore:        req.MinimumScore,
		ConsiderRegime:      req.ConsiderRegime,
		MaxResults:          req.MaxResults,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	out := make([]scoreBreakdownResponse, 0, len(results))
	for _, b := range results {
		out = append(out, scoreBreakdownResponse{
			Handle:             b.Handle,
			BaseScore:          b.BaseScore,
			RegimeAdjustment:   b.RegimeAdjustment,
			FinalScore:         b.FinalScore,
			MatchedCredentials: b.MatchedCredentials,
		})
	}
	writeJSON(w, http.StatusOK, queryResponse{Results: out, Count: len(out)})
}

// poolEntryResponse mirrors one leading pool entry.
type poolEntryResponse struct {
	Rank        int     `json:"rank"`
	Handle      string  `json:"handle"`
	BaseScore   float64 `json:"base_score"`
	TenureYears int     `json:"tenure_years"`
	Credentials int     `json:"credentials"`
}

// poolStatsResponse mirrors the read shape for GET /candidates/stats.
type poolStatsResponse struct {
	Candidates               int                 `json:"candidates"`
	ByCategory               map[string]int      `json:"by_category"`
	AvgBaseScore             float64             `json:"avg_base_score"`
	AvgTenureYears           float64             `json:"avg_tenure_years"`
	AvgCredentialsPerProfile float64             `json:"avg_credentials_per_profile"`
	Top                      []poolEntryResponse `json:"top"`
}

// HandleStats handles GET /candidates/stats requests.
func (h *CandidatesHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.candidate_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	stats := h.deps.PoolStats(r.Context())

	resp := poolStatsResponse{
		Candidates:               stats.Candidates,
		ByCategory:               make(map[string]int, len(stats.ByCategory)),
		AvgBaseScore:             stats.AvgBaseScore,
		AvgTenureYears:           stats.AvgTenureYears,
		AvgCredentialsPerProfile: stats.AvgCredentialsPerProfile,
		Top:                      []poolEntryResponse{},
	}
	for cat, n := range stats.ByCategory {
		resp.ByCategory[string(cat)] = n
	}

	if stats.Candidates > 0 {
		entries, err := h.deps.TopCandidates(r.Context(), statsTopN)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		for _, e := range entries {
			resp.Top = append(resp.Top, poolEntryResponse{
				Rank:        e.Rank,
				Handle:      e.Handle,
				BaseScore:   e.BaseScore,
				TenureYears: e.TenureYears,
				Credentials: e.Credentials,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
