package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/meritworks/ampgsti/internal/adapters/repository"
	"github.com/meritworks/ampgsti/internal/domain/forecast"
	"github.com/meritworks/ampgsti/internal/domain/goodwill"
	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

// fakeDeps implements Dependencies with canned behavior.
type fakeDeps struct {
	state        *model.MarketState
	updateErr    error
	enqueueOK    bool
	queryResults []model.ScoreBreakdown
	stats        model.CredentialStats
	top          []repository.Entry
	report       forecast.Report

	lastSnapshot model.MarketSnapshot
	lastReg      model.Registration
	lastQuery    model.Query
}

func (f *fakeDeps) UpdateMarket(_ context.Context, snap model.MarketSnapshot) (model.MarketState, error) {
	f.lastSnapshot = snap
	if f.updateErr != nil {
		return model.MarketState{}, f.updateErr
	}
	if f.state == nil {
		return model.MarketState{}, nil
	}
	return *f.state, nil
}

func (f *fakeDeps) MarketState(_ context.Context) (model.MarketState, bool) {
	if f.state == nil {
		return model.MarketState{}, false
	}
	return *f.state, true
}

func (f *fakeDeps) CurrentRegime(_ context.Context) (regime.Regime, bool) {
	if f.state == nil {
		return regime.Neutral, false
	}
	return f.state.Index.Regime, true
}

func (f *fakeDeps) EnqueueRegistration(_ context.Context, r model.Registration) bool {
	f.lastReg = r
	return f.enqueueOK
}

func (f *fakeDeps) QueryCandidates(_ context.Context, q model.Query) ([]model.ScoreBreakdown, error) {
	f.lastQuery = q
	return f.queryResults, nil
}

func (f *fakeDeps) PoolStats(_ context.Context) model.CredentialStats {
	return f.stats
}

func (f *fakeDeps) TopCandidates(_ context.Context, n int) ([]repository.Entry, error) {
	if n < len(f.top) {
		return f.top[:n], nil
	}
	return f.top, nil
}

func (f *fakeDeps) Forecast(_ context.Context) forecast.Report {
	return f.report
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	NewServer(deps, fakeStats{}).Register(context.Background(), mux)
	return mux
}

func postJSON(mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func bearishState() *model.MarketState {
	return &model.MarketState{
		Index: model.TrustIndex{
			Score:           -1.45,
			Regime:          regime.Bearish,
			GoldSilverRatio: 100,
			Momentum:        0.0623,
			ComputedAt:      time.Now(),
		},
		GoldPrice:       2500,
		SilverPrice:     25,
		VolatilityIndex: 30,
		UnifiedGoodwill: 3.7179,
		Weights:         model.RegimeWeights{GoodwillWeight: 0.8, GSRWeight: 0.015},
		UpdatedAt:       time.Now(),
	}
}

func validMarketUpdate() map[string]any {
	return map[string]any{
		"gold_price":       2500.0,
		"silver_price":     25.0,
		"volatility_index": 30.0,
		"business_health": map[string]any{
			"retention":      0.85,
			"satisfaction":   0.75,
			"brand_trust":    0.80,
			"revenue_growth": 1.05,
			"time_weight":    1.0,
			"backlash":       0.10,
			"smoothing":      1.0,

			"consumer_satisfaction": 0.90,
			"consumer_reputation":   0.85,
			"consumer_advocacy":     0.70,
			"consumer_speed":        0.80,
			"consumer_backlash":     0.05,
		},
	}
}

func TestMarketEndpoints(t *testing.T) {
	Convey("Given the market routes", t, func() {
		deps := &fakeDeps{state: bearishState()}
		mux := newTestServer(deps)

		Convey("POST /market/update runs a cycle and returns the state", func() {
			rec := postJSON(mux, "/market/update", validMarketUpdate())
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["regime"], ShouldEqual, "bearish")
			So(resp["gold_silver_ratio"], ShouldEqual, 100.0)
			So(deps.lastSnapshot.GoldPrice, ShouldEqual, 2500.0)
			So(deps.lastSnapshot.Health.Smoothing, ShouldEqual, 1.0)
		})

		Convey("POST /market/update rejects malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/market/update", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /market/update rejects non-positive prices", func() {
			body := validMarketUpdate()
			body["silver_price"] = 0.0
			rec := postJSON(mux, "/market/update", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /market/update rejects zero smoothing", func() {
			body := validMarketUpdate()
			body["business_health"].(map[string]any)["smoothing"] = 0.0
			rec := postJSON(mux, "/market/update", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Domain validation failures map to 400", func() {
			deps.updateErr = goodwill.ErrInvalidInput
			rec := postJSON(mux, "/market/update", validMarketUpdate())
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET /market/state returns the last cycle", func() {
			rec := get(mux, "/market/state")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["gsti_score"], ShouldEqual, -1.45)
			So(resp["unified_goodwill"], ShouldEqual, 3.7179)
		})

		Convey("GET /market/state before any update is 404", func() {
			deps.state = nil
			rec := get(mux, "/market/state")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("GET /market/regime reports the active regime", func() {
			rec := get(mux, "/market/regime")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp regimeResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Regime, ShouldEqual, "bearish")
			So(resp.Computed, ShouldBeTrue)
		})

		Convey("GET /market/regime defaults to neutral before any update", func() {
			deps.state = nil
			rec := get(mux, "/market/regime")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp regimeResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Regime, ShouldEqual, "neutral")
			So(resp.Computed, ShouldBeFalse)
		})

		Convey("Wrong methods are not found", func() {
			rec := get(mux, "/market/update")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCandidateEndpoints(t *testing.T) {
	Convey("Given the candidate routes", t, func() {
		deps := &fakeDeps{enqueueOK: true}
		mux := newTestServer(deps)

		registration := map[string]any{
			"handle":       "ada",
			"base_score":   88.0,
			"tenure_years": 6,
			"credentials": []map[string]any{
				{"category": "skill", "label": "golang"},
				{"category": "loyalty", "label": "long tenure", "issuer": "acme"},
			},
		}

		Convey("POST /candidates accepts a valid registration", func() {
			rec := postJSON(mux, "/candidates", registration)
			So(rec.Code, ShouldEqual, http.StatusAccepted)

			var resp ackResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Status, ShouldEqual, "accepted")
			So(resp.Handle, ShouldEqual, "ada")
			So(deps.lastReg.Handle, ShouldEqual, "ada")
			So(len(deps.lastReg.Credentials), ShouldEqual, 2)
		})

		Convey("POST /candidates rejects a missing handle", func() {
			bad := map[string]any{"base_score": 50.0}
			rec := postJSON(mux, "/candidates", bad)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /candidates rejects an out-of-range score", func() {
			bad := map[string]any{"handle": "x", "base_score": 101.0}
			rec := postJSON(mux, "/candidates", bad)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /candidates rejects an unknown category", func() {
			bad := map[string]any{
				"handle":     "x",
				"base_score": 50.0,
				"credentials": []map[string]any{
					{"category": "astrology", "label": "stars"},
				},
			}
			rec := postJSON(mux, "/candidates", bad)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /candidates returns 429 on backpressure", func() {
			deps.enqueueOK = false
			rec := postJSON(mux, "/candidates", registration)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("POST /candidates/query returns ranked results", func() {
			deps.queryResults = []model.ScoreBreakdown{
				{Handle: "ada", BaseScore: 90, RegimeAdjustment: 1.15, FinalScore: 100, MatchedCredentials: []string{"golang"}},
				{Handle: "bob", BaseScore: 80, RegimeAdjustment: 1.0, FinalScore: 80, MatchedCredentials: []string{"golang"}},
			}

			rec := postJSON(mux, "/candidates/query", map[string]any{
				"required_credentials": []string{"golang"},
				"consider_regime":      true,
			})
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp queryResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Count, ShouldEqual, 2)
			So(resp.Results[0].Handle, ShouldEqual, "ada")
			So(resp.Results[0].FinalScore, ShouldEqual, 100.0)
			So(deps.lastQuery.ConsiderRegime, ShouldBeTrue)
		})

		Convey("POST /candidates/query rejects a negative minimum score", func() {
			rec := postJSON(mux, "/candidates/query", map[string]any{"minimum_score": -1.0})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET /candidates/stats reports pool composition", func() {
			deps.stats = model.CredentialStats{
				Candidates:   2,
				ByCategory:   map[model.CredentialCategory]int{model.CategorySkill: 3},
				AvgBaseScore: 80,
			}
			deps.top = []repository.Entry{
				{Rank: 1, Handle: "ada", BaseScore: 90},
				{Rank: 2, Handle: "bob", BaseScore: 70},
			}

			rec := get(mux, "/candidates/stats")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp poolStatsResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Candidates, ShouldEqual, 2)
			So(resp.ByCategory["skill"], ShouldEqual, 3)
			So(len(resp.Top), ShouldEqual, 2)
			So(resp.Top[0].Handle, ShouldEqual, "ada")
		})
	})
}

func TestForecastEndpoint(t *testing.T) {
	Convey("Given the forecast route", t, func() {
		deps := &fakeDeps{
			report: forecast.Report{
				Regime:          regime.Bearish,
				GSTIScore:       -1.45,
				GoldSilverRatio: 100,
				HiringOutlook:   forecast.OutlookFor(regime.Bearish),
				TalentFlow:      forecast.FlowSteadyState,
				Confidence:      forecast.ConfidenceHigh,
				GeneratedAt:     time.Now(),
			},
		}
		mux := newTestServer(deps)

		Convey("GET /forecast returns the report", func() {
			rec := get(mux, "/forecast")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp forecastResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Regime, ShouldEqual, "bearish")
			So(resp.HiringOutlook.Strategy, ShouldEqual, "defensive")
			So(resp.Confidence, ShouldEqual, "high")
		})

		Convey("POST /forecast is not found", func() {
			rec := postJSON(mux, "/forecast", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("GET /stats returns provider output", t, func() {
		mux := newTestServer(&fakeDeps{})
		rec := get(mux, "/stats")
		So(rec.Code, ShouldEqual, http.StatusOK)

		var resp map[string]any
		So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
		So(resp["started"], ShouldEqual, true)
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("GET /healthz serves Prometheus metrics", t, func() {
		mux := newTestServer(&fakeDeps{})
		rec := get(mux, "/healthz")
		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.Len(), ShouldBeGreaterThan, 0)
	})
}
