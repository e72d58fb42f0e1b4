package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the site namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "nestudio")
				So(manager.subsystem, ShouldEqual, "site")
			})
		})

		Convey("When creating with constant labels", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.filterQueries.Inc()

			Convey("Then collectors carry the label", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, mf := range families {
					if mf.GetName() == "nestudio_site_filter_queries_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are supplied", func() {
			manager := NewManager(
				WithConstLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "nestudio")
				So(manager.constLabels, ShouldBeNil)
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager", t, func() {
		prevManager, prevRegistry := globalManager, customRegistry
		Reset(func() { globalManager, customRegistry = prevManager, prevRegistry })

		Convey("When it is reconfigured with an env label", func() {
			Configure(WithConstLabels(map[string]string{"env": "staging"}))
			RecordFilter(1)

			Convey("Then the exposed registry carries the label", func() {
				So(GetRegistry(), ShouldNotEqual, prevRegistry)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				labelled := false
				for _, mf := range families {
					if mf.GetName() == "nestudio_site_filter_queries_total" {
						labelled = mf.GetMetric()[0].GetLabel()[0].GetValue() == "staging"
					}
				}
				So(labelled, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording filter evaluations", func() {
			before := testutil.ToFloat64(globalManager.filterQueries)
			RecordFilter(2)
			RecordFilter(0)

			Convey("Then the query counter advances", func() {
				So(testutil.ToFloat64(globalManager.filterQueries), ShouldEqual, before+2)
			})
		})

		Convey("When recording QR requests by source", func() {
			before := testutil.ToFloat64(globalManager.qrRequests.WithLabelValues("fallback"))
			RecordQRRequest("fallback")

			Convey("Then the labelled counter advances", func() {
				So(testutil.ToFloat64(globalManager.qrRequests.WithLabelValues("fallback")), ShouldEqual, before+1)
			})
		})

		Convey("When recording gauges", func() {
			UpdateQRCacheEntries(7)
			UpdateQueueSize(3)
			UpdateQueueCapacity(64)
			UpdateWorkerCount(2)

			Convey("Then the gauges hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.qrCacheEntries), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 64)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 2)
			})
		})

		Convey("When recording the remaining series", func() {
			So(func() {
				RecordHTTPRequest("page", "GET", "200")
				RecordHTTPRequestDuration("page", "GET", "200", 3)
				RecordErrorByEndpoint("api_projects", "GET", "not_found")
				RecordErrorByType("not_found", "medium")
				RecordErrorByComponent("qrservice", "timeout")
				RecordLabelRender("barcode")
				RecordQRFetchLatency(12)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordWorkerProcessingLatency(4)
				RecordWorkerError()
				RecordThemeToggle("dark")
				RecordThemeStoreError()
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})
	})
}

func TestSetEnhanceState(t *testing.T) {
	Convey("Given the enhancement state gauge", t, func() {
		Convey("When setting a known state", func() {
			err := SetEnhanceState("loaded")

			Convey("Then only that state reads 1", func() {
				So(err, ShouldBeNil)
				So(testutil.ToFloat64(globalManager.enhanceState.WithLabelValues("loaded")), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.enhanceState.WithLabelValues("failed")), ShouldEqual, 0)
				So(testutil.ToFloat64(globalManager.enhanceState.WithLabelValues("unloaded")), ShouldEqual, 0)
			})
		})

		Convey("When setting an unknown state", func() {
			err := SetEnhanceState("half-loaded")

			Convey("Then it reports ErrUnknownState", func() {
				So(errors.Is(err, ErrUnknownState), ShouldBeTrue)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordLabelRender("pattern")
		families, err := GetRegistry().Gather()

		Convey("Then it exposes the site metrics", func() {
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
