package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording market intelligence metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordMarketUpdate()
					RecordMarketUpdateError()
					UpdateGSTIScore(-1.4502)
					UpdateGoodwillMomentum(0.0623)
					UpdateGoldSilverRatio(100)
					UpdateUnifiedGoodwill(3.7179)
					UpdateGoodwillHistoryLength(2)
					UpdateRegimeState("bearish", []string{"bullish", "neutral", "bearish"})
				}, ShouldNotPanic)
			})
		})

		Convey("When recording matching metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordMatchQuery()
					RecordMatchQueryLatency(1.5)
					RecordCandidatesScreened(10)
					RecordCandidatesMatched(3)
					RecordForecastRequest()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording pool and pipeline metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					UpdateCandidatesTotal(42)
					RecordRegistrationAccepted()
					RecordRegistrationDuplicate()
					RecordRegistrationRejected()
					UpdateQueueSize(5)
					UpdateQueueCapacity(100)
					UpdateQueueUtilization(0.05)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueProcessingLatency(0.2)
					UpdateWorkerCount(4)
					UpdateWorkerActiveCount(4)
					UpdateWorkerMessagesPerSecond(100.0)
					RecordWorkerProcessingLatency(0.7)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordHTTPRequest("market_update", "POST", "200")
					RecordHTTPRequestDuration("market_update", "POST", "200", 2.5)
					RecordErrorByComponent("gsti", "invalid_input")
					RecordErrorByType("invalid_input", "medium")
					RecordErrorByEndpoint("market_update", "POST", "client_error")
					RecordErrorLatency("http", "client_error", 1.1)
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then it should expose the custom registry", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
