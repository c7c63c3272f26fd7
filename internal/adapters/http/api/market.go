package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// MarketDependencies defines the interface for market intelligence operations.
type MarketDependencies interface {
	UpdateMarket(ctx context.Context, snap model.MarketSnapshot) (model.MarketState, error)
	MarketState(ctx context.Context) (model.MarketState, bool)
	CurrentRegime(ctx context.Context) (regime.Regime, bool)
}

// MarketHandler handles market intelligence requests.
type MarketHandler struct {
	deps MarketDependencies
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(deps MarketDependencies) *MarketHandler {
	return &MarketHandler{deps: deps}
}

// businessHealthRequest mirrors the goodwill inputs of one scoring cycle.
type businessHealthRequest struct {
	Retention     float64 `json:"retention"`
	Satisfaction  float64 `json:"satisfaction"`
	BrandTrust    float64 `json:"brand_trust"`
	RevenueGrowth float64 `json:"revenue_growth"`
	TimeWeight    float64 `json:"time_weight"`
	Backlash      float64 `json:"backlash"`
	Smoothing     float64 `json:"smoothing"`

	ConsumerSatisfaction float64 `json:"consumer_satisfaction"`
	ConsumerReputation   float64 `json:"consumer_reputation"`
	ConsumerAdvocacy     float64 `json:"consumer_advocacy"`
	ConsumerSpeed        float64 `json:"consumer_speed"`
	ConsumerBacklash     float64 `json:"consumer_backlash"`

	OrgWeight      float64 `json:"org_weight"`
	ConsumerWeight float64 `json:"consumer_weight"`
}

// marketUpdateRequest mirrors the schema for POST /market/update.
type marketUpdateRequest struct {
	GoldPrice           float64               `json:"gold_price"`
	SilverPrice         float64               `json:"silver_price"`
	VolatilityIndex     float64               `json:"volatility_index"`
	MergerActivitySurge bool                  `json:"merger_activity_surge"`
	BusinessHealth      businessHealthRequest `json:"business_health"`
}

func (m marketUpdateRequest) validate() error {
	switch {
	case m.GoldPrice <= 0:
		return errors.New("gold_price must be positive")
	case m.SilverPrice <= 0:
		return errors.New("silver_price must be positive")
	case m.VolatilityIndex < 0:
		return errors.New("volatility_index must be non-negative")
	case m.BusinessHealth.Smoothing == 0:
		return errors.New("business_health.smoothing must be non-zero")
	}
	return nil
}

func (m marketUpdateRequest) toSnapshot() model.MarketSnapshot {
	h := m.BusinessHealth
	return model.MarketSnapshot{
		GoldPrice:           m.GoldPrice,
		SilverPrice:         m.SilverPrice,
		VolatilityIndex:     m.VolatilityIndex,
		MergerActivitySurge: m.MergerActivitySurge,
		Health: model.BusinessHealthSnapshot{
			Retention:     h.Retention,
			Satisfaction:  h.Satisfaction,
			BrandTrust:    h.BrandTrust,
			RevenueGrowth: h.RevenueGrowth,
			TimeWeight:    h.TimeWeight,
			Backlash:      h.Backlash,
			Smoothing:     h.Smoothing,

			ConsumerSatisfaction: h.ConsumerSatisfaction,
			ConsumerReputation:   h.ConsumerReputation,
			ConsumerAdvocacy:     h.ConsumerAdvocacy,
			ConsumerSpeed:        h.ConsumerSpeed,
			ConsumerBacklash:     h.ConsumerBacklash,

			OrgWeight:      h.OrgWeight,
			ConsumerWeight: h.ConsumerWeight,
		},
	}
}

// marketStateResponse mirrors the read shape of a computed cycle.
type marketStateResponse struct {
	GSTIScore       float64 `json:"gsti_score"`
	Regime          string  `json:"regime"`
	GoldSilverRatio float64 `json:"gold_silver_ratio"`
	Momentum        float64 `json:"momentum"`

	GoldPrice           float64 `json:"gold_price"`
	SilverPrice         float64 `json:"silver_price"`
	VolatilityIndex     float64 `json:"volatility_index"`
	MergerActivitySurge bool    `json:"merger_activity_surge"`

	OrganizationalGoodwill float64 `json:"organizational_goodwill"`
	ConsumerGoodwill       float64 `json:"consumer_goodwill"`
	UnifiedGoodwill        float64 `json:"unified_goodwill"`

	GoodwillWeight float64 `json:"goodwill_weight"`
	GSRWeight      float64 `json:"gsr_weight"`

	UpdatedAt time.Time `json:"updated_at"`
}

func toMarketStateResponse(s model.MarketState) marketStateResponse {
	return marketStateResponse{
		GSTIScore:       s.Index.Score,
		Regime:          string(s.Index.Regime),
		GoldSilverRatio: s.Index.GoldSilverRatio,
		Momentum:        s.Index.Momentum,

		GoldPrice:           s.GoldPrice,
		SilverPrice:         s.SilverPrice,
		VolatilityIndex:     s.VolatilityIndex,
		MergerActivitySurge: s.MergerActivitySurge,

		OrganizationalGoodwill: s.OrganizationalGoodwill,
		ConsumerGoodwill:       s.ConsumerGoodwill,
		UnifiedGoodwill:        s.UnifiedGoodwill,

		GoodwillWeight: s.Weights.GoodwillWeight,
		GSRWeight:      s.Weights.GSRWeight,

		UpdatedAt: s.UpdatedAt,
	}
}

// HandleUpdate handles POST /market/update requests.
func (h *MarketHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.market_update"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req marketUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	state, err := h.deps.UpdateMarket(r.Context(), req.toSnapshot())
	if err != nil {
		if isInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toMarketStateResponse(state))
}

// HandleState handles GET /market/state requests.
func (h *MarketHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	const op = "api.market_state"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	state, ok := h.deps.MarketState(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "no_market_data", NewKind(op, errors.New("no market update recorded yet")))
		return
	}
	writeJSON(w, http.StatusOK, toMarketStateResponse(state))
}

// regimeResponse mirrors the read shape for GET /market/regime.
type regimeResponse struct {
	Regime   string `json:"regime"`
	Computed bool   `json:"computed"`
}

// HandleRegime handles GET /market/regime requests. Before the first market
// update the regime reads as neutral with computed=false.
func (h *MarketHandler) HandleRegime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	current, computed := h.deps.CurrentRegime(r.Context())
	writeJSON(w, http.StatusOK, regimeResponse{
		Regime:   string(current),
		Computed: computed,
	})
}
