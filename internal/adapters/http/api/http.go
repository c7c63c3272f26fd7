// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meritworks/ampgsti/internal/adapters/repository"
	"github.com/meritworks/ampgsti/internal/domain/forecast"
	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Market intelligence operations.
	UpdateMarket(ctx context.Context, snap model.MarketSnapshot) (model.MarketState, error)
	MarketState(ctx context.Context) (model.MarketState, bool)
	CurrentRegime(ctx context.Context) (regime.Regime, bool)

	// Candidate pool operations.
	EnqueueRegistration(ctx context.Context, r model.Registration) bool
	QueryCandidates(ctx context.Context, q model.Query) ([]model.ScoreBreakdown, error)
	PoolStats(ctx context.Context) model.CredentialStats
	TopCandidates(ctx context.Context, n int) ([]repository.Entry, error)

	// Forecasting.
	Forecast(ctx context.Context) forecast.Report
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	marketHandler     *MarketHandler
	candidatesHandler *CandidatesHandler
	forecastHandler   *ForecastHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		marketHandler:     NewMarketHandler(deps),
		candidatesHandler: NewCandidatesHandler(deps),
		forecastHandler:   NewForecastHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/market/update", MetricsMiddleware(s.marketHandler.HandleUpdate, "market_update"))
	mux.HandleFunc("/market/state", MetricsMiddleware(s.marketHandler.HandleState, "market_state"))
	mux.HandleFunc("/market/regime", MetricsMiddleware(s.marketHandler.HandleRegime, "market_regime"))
	mux.HandleFunc("/candidates", MetricsMiddleware(s.candidatesHandler.HandleRegister, "candidates"))
	mux.HandleFunc("/candidates/query", MetricsMiddleware(s.candidatesHandler.HandleQuery, "candidates_query"))
	mux.HandleFunc("/candidates/stats", MetricsMiddleware(s.candidatesHandler.HandleStats, "candidates_stats"))
	mux.HandleFunc("/forecast", MetricsMiddleware(s.forecastHandler.HandleForecast, "forecast"))
}

type ackResponse struct {
	Status string `json:"status"`
	Handle string `json:"handle,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isInvalidInput translates domain validation failures to 400 without
// coupling the handler layer to every sentinel individually.
func isInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range invalidInputKinds {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
