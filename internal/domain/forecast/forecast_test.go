package forecast

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/meritworks/ampgsti/internal/domain/model"
	"github.com/meritworks/ampgsti/internal/domain/regime"
)

func statsWith(candidates, loyalty, skill int) model.CredentialStats {
	return model.CredentialStats{
		Candidates: candidates,
		ByCategory: map[model.CredentialCategory]int{
			model.CategoryLoyalty: loyalty,
			model.CategorySkill:   skill,
		},
	}
}

func TestOutlookFor(t *testing.T) {
	Convey("Each regime maps to a fixed outlook tier", t, func() {
		So(OutlookFor(regime.Bullish).Strategy, ShouldEqual, "aggressive_growth")
		So(OutlookFor(regime.Bearish).Strategy, ShouldEqual, "defensive")
		So(OutlookFor(regime.Neutral).Strategy, ShouldEqual, "balanced")

		Convey("An unknown regime falls back to balanced", func() {
			So(OutlookFor(regime.Regime("sideways")).Strategy, ShouldEqual, "balanced")
		})

		Convey("The bearish tier prioritizes stability traits", func() {
			So(OutlookFor(regime.Bearish).Prioritize, ShouldResemble, []string{"loyalty", "proven_performance", "crisis_management"})
		})
	})
}

func TestTalentFlow(t *testing.T) {
	Convey("Given candidate-pool statistics", t, func() {
		Convey("An empty pool reads as steady state", func() {
			flow, detail := talentFlow(model.CredentialStats{})
			So(flow, ShouldEqual, FlowSteadyState)
			So(detail, ShouldContainSubstring, "insufficient data")
		})

		Convey("Low loyalty concentration signals instability", func() {
			flow, _ := talentFlow(statsWith(10, 2, 10))
			So(flow, ShouldEqual, FlowWorkforceInstability)
		})

		Convey("Loyalty exactly at the threshold is not instability", func() {
			flow, _ := talentFlow(statsWith(10, 3, 10))
			So(flow, ShouldEqual, FlowSteadyState)
		})

		Convey("High skill concentration signals an upskilling surge", func() {
			flow, _ := talentFlow(statsWith(10, 5, 31))
			So(flow, ShouldEqual, FlowUpskillingSurge)
		})

		Convey("Skill exactly at the threshold is steady state", func() {
			flow, _ := talentFlow(statsWith(10, 5, 30))
			So(flow, ShouldEqual, FlowSteadyState)
		})

		Convey("Instability takes precedence over upskilling", func() {
			flow, _ := talentFlow(statsWith(10, 1, 40))
			So(flow, ShouldEqual, FlowWorkforceInstability)
		})
	})
}

func TestConfidence(t *testing.T) {
	Convey("Given an engine with a pinned clock", t, func() {
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		e := New(WithClock(func() time.Time { return now }))

		Convey("A record within the high window is high confidence", func() {
			So(e.confidence(now.Add(-10*time.Minute)), ShouldEqual, ConfidenceHigh)
			So(e.confidence(now.Add(-15*time.Minute)), ShouldEqual, ConfidenceHigh)
		})

		Convey("A record within the low window is moderate", func() {
			So(e.confidence(now.Add(-16*time.Minute)), ShouldEqual, ConfidenceModerate)
			So(e.confidence(now.Add(-time.Hour)), ShouldEqual, ConfidenceModerate)
		})

		Convey("Older records are low confidence", func() {
			So(e.confidence(now.Add(-61*time.Minute)), ShouldEqual, ConfidenceLow)
		})

		Convey("A zero time is low confidence", func() {
			So(e.confidence(time.Time{}), ShouldEqual, ConfidenceLow)
		})

		Convey("Custom windows shift the tiers", func() {
			custom := New(
				WithClock(func() time.Time { return now }),
				WithConfidenceWindows(time.Minute, 5*time.Minute),
			)
			So(custom.confidence(now.Add(-2*time.Minute)), ShouldEqual, ConfidenceModerate)
			So(custom.confidence(now.Add(-6*time.Minute)), ShouldEqual, ConfidenceLow)
		})

		Convey("Inverted windows are ignored", func() {
			kept := New(
				WithClock(func() time.Time { return now }),
				WithConfidenceWindows(time.Hour, time.Minute),
			)
			So(kept.confidence(now.Add(-10*time.Minute)), ShouldEqual, ConfidenceHigh)
		})
	})
}

func TestForecast(t *testing.T) {
	Convey("Given a forecast engine", t, func() {
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		e := New(WithClock(func() time.Time { return now }))

		Convey("With no index yet, everything degrades conservatively", func() {
			report := e.Forecast(nil, model.CredentialStats{}, time.Time{})
			So(report.Regime, ShouldEqual, regime.Neutral)
			So(report.GSTIScore, ShouldEqual, 0.0)
			So(report.HiringOutlook.Strategy, ShouldEqual, "balanced")
			So(report.TalentFlow, ShouldEqual, FlowSteadyState)
			So(report.Confidence, ShouldEqual, ConfidenceLow)
			So(report.GeneratedAt.Equal(now), ShouldBeTrue)
		})

		Convey("A bearish index produces a defensive report", func() {
			index := &model.TrustIndex{
				Score:           -1.5,
				Regime:          regime.Bearish,
				GoldSilverRatio: 100,
			}
			report := e.Forecast(index, statsWith(10, 5, 10), now.Add(-5*time.Minute))
			So(report.Regime, ShouldEqual, regime.Bearish)
			So(report.GSTIScore, ShouldAlmostEqual, -1.5, 1e-9)
			So(report.GoldSilverRatio, ShouldAlmostEqual, 100.0, 1e-9)
			So(report.HiringOutlook.Strategy, ShouldEqual, "defensive")
			So(report.TalentFlow, ShouldEqual, FlowSteadyState)
			So(report.Confidence, ShouldEqual, ConfidenceHigh)
		})

		Convey("A bullish index with a churn-prone pool mixes signals", func() {
			index := &model.TrustIndex{Score: 0.4, Regime: regime.Bullish, GoldSilverRatio: 80}
			report := e.Forecast(index, statsWith(10, 1, 20), now.Add(-30*time.Minute))
			So(report.HiringOutlook.Strategy, ShouldEqual, "aggressive_growth")
			So(report.TalentFlow, ShouldEqual, FlowWorkforceInstability)
			So(report.Confidence, ShouldEqual, ConfidenceModerate)
		})
	})
}
