package api

import (
	"context"
	"net/http"
	"time"

	"github.com/meritworks/ampgsti/internal/domain/forecast"
)

// ForecastDependencies defines the interface for forecast operations.
type ForecastDependencies interface {
	Forecast(ctx context.Context) forecast.Report
}

// ForecastHandler handles forecast requests.
type ForecastHandler struct {
	deps ForecastDependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// outlookResponse mirrors the hiring-outlook tier.
type outlookResponse struct {
	Strategy   string   `json:"strategy"`
	Rationale  string   `json:"rationale"`
	Prioritize []string `json:"prioritize"`
}

// forecastResponse mirrors the read shape for GET /forecast.
type forecastResponse struct {
	Regime          string  `json:"regime"`
	GSTIScore       float64 `json:"gsti_score"`
	GoldSilverRatio float64 `json:"gold_silver_ratio"`

	HiringOutlook    outlookResponse `json:"hiring_outlook"`
	TalentFlow       string          `json:"talent_flow"`
	TalentFlowDetail string          `json:"talent_flow_detail"`
	Confidence       string          `json:"confidence"`

	GeneratedAt time.Time `json:"generated_at"`
}

// HandleForecast handles GET /forecast requests.
func (h *ForecastHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	report := h.deps.Forecast(r.Context())

	writeJSON(w, http.StatusOK, forecastResponse{
		Regime:          string(report.Regime),
		GSTIScore:       report.GSTIScore,
		GoldSilverRatio: report.GoldSilverRatio,
		HiringOutlook: outlookResponse{
			Strategy:   report.HiringOutlook.Strategy,
			Rationale:  report.HiringOutlook.Rationale,
			Prioritize: report.HiringOutlook.Prioritize,
		},
		TalentFlow:       report.TalentFlow,
		TalentFlowDetail: report.TalentFlowDetail,
		Confidence:       report.Confidence,
		GeneratedAt:      report.GeneratedAt,
	})
}
