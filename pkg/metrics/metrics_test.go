package metrics_test

import (
	"errors"
	"testing"

	"github.com/okian/insightify/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry and custom options", func() {
			reg := prometheus.NewRegistry()
			m := metrics.NewManager(
				metrics.WithPrometheusRegistry(reg),
				metrics.WithNamespace("test"),
				metrics.WithSubsystem("learners"),
				metrics.WithHistogramBuckets([]float64{1, 10}),
				metrics.WithInferenceBuckets([]float64{0.1, 1}),
				metrics.WithConstLabels(map[string]string{"env": "test"}),
			)

			Convey("Then metrics register under the configured names", func() {
				So(m, ShouldNotBeNil)
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_learners_inference_requests_total"], ShouldBeTrue)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording inference outcomes", func() {
			before, _ := metrics.Value("cluster_inference_requests_total", nil)
			metrics.RecordInferenceRequest()
			metrics.RecordInferenceError("upstream")
			metrics.RecordInferenceLatency(0.2)
			metrics.RecordClusterAssignment(2)

			Convey("Then counters move", func() {
				after, err := metrics.Value("cluster_inference_requests_total", nil)
				So(err, ShouldBeNil)
				So(after-before, ShouldEqual, 1)

				v, err := metrics.Value("cluster_inference_errors_total", map[string]string{"kind": "upstream"})
				So(err, ShouldBeNil)
				So(v, ShouldBeGreaterThanOrEqualTo, 1)

				v, err = metrics.Value("cluster_assignments_total", map[string]string{"cluster": "2"})
				So(err, ShouldBeNil)
				So(v, ShouldBeGreaterThanOrEqualTo, 1)

				v, err = metrics.Value("cluster_inference_latency_seconds", nil)
				So(err, ShouldBeNil)
				So(v, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording datastore and breaker activity", func() {
			metrics.RecordDatastoreQuery("activities", 3.5, 4)
			metrics.RecordDatastoreError("quizzes")
			metrics.UpdateBreakerState("mongo", 2)
			metrics.RecordBreakerTransition("mongo", "closed", "open")

			Convey("Then they are visible in the registry", func() {
				v, err := metrics.Value("cluster_breaker_state", map[string]string{"name": "mongo"})
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 2)
				v, err = metrics.Value("cluster_datastore_rows_total", map[string]string{"operation": "activities"})
				So(err, ShouldBeNil)
				So(v, ShouldBeGreaterThanOrEqualTo, 4)
			})
		})

		Convey("When publishing model info", func() {
			metrics.SetModelInfo("v1", "kmeans", "profiles/v1")
			metrics.SetModelInfo("v2", "kmeans", "profiles/v1")

			Convey("Then only the latest model is reported", func() {
				_, err := metrics.Value("cluster_model_info", map[string]string{"version": "v1"})
				So(errors.Is(err, metrics.ErrMetricNotFound), ShouldBeTrue)
				v, err := metrics.Value("cluster_model_info", map[string]string{"version": "v2"})
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 1)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			metrics.RecordHTTPRequest("/cluster-inference", "POST", "200")
			metrics.RecordHTTPRequestDuration("/cluster-inference", "POST", "200", 12)
			metrics.RecordErrorByEndpoint("/cluster-inference", "POST", "client_error")
			metrics.UpdateSystemMemoryUsage(1024)
			metrics.UpdateSystemGoroutineCount(8)

			Convey("Then they are visible in the registry", func() {
				v, err := metrics.Value("cluster_system_goroutine_count", nil)
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 8)
				So(metrics.GetRegistry(), ShouldNotBeNil)
			})
		})

		Convey("When asking for an unknown metric", func() {
			_, err := metrics.Value("nope", nil)
			So(errors.Is(err, metrics.ErrMetricNotFound), ShouldBeTrue)
		})
	})
}
