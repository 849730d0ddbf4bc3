package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/insightify/internal/adapters/artifact"
	"github.com/okian/insightify/internal/adapters/repository"
	app "github.com/okian/insightify/internal/app"
	"github.com/okian/insightify/internal/config"
	"github.com/okian/insightify/internal/domain/model"
	"github.com/okian/insightify/pkg/logger"
	"github.com/okian/insightify/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

const learnerID = "64b7f0c2a1d3e4f5a6b7c8d9"

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func f64(v float64) *float64 { return &v }
func bptr(v bool) *bool      { return &v }

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	ctx := context.Background()
	bundle, err := artifact.Load(ctx, "../models/learner_clusters.json")
	if err != nil {
		t.Fatalf("load model: %v", err)
	}

	store := repository.NewMemoryStore()
	day := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	store.AddActivities(
		model.ActivityEvent{UserID: learnerID, ModuleID: "m1", Status: model.StatusStarted, Timestamp: day},
		model.ActivityEvent{UserID: learnerID, ModuleID: "m1", Status: model.StatusCompleted, Timestamp: day.Add(30 * time.Minute)},
	)
	store.AddQuizResults(model.QuizResult{UserID: learnerID, ModuleID: "m1", Score: f64(80), Passed: bptr(true), Duration: f64(600)})
	store.AddQuizzes(model.QuizMetadata{ModuleID: "m1", MaximumDuration: f64(1200)})

	svc := app.New(app.WithStore(store), app.WithBundle(bundle))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestRouter(t *testing.T) {
	convey.Convey("Given the assembled router", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		router := newRouter(ctx, cfg, newTestService(t))

		get := func(method, target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, target, http.NoBody))
			return w
		}

		convey.Convey("When a learner is inferred end to end", func() {
			w := get(http.MethodPost, "/cluster-inference?user_id="+learnerID)

			convey.Convey("Then the shipped model assigns a cluster", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"cluster":0`)
			})

			convey.Convey("And the inference counter moves", func() {
				v, err := metrics.Value("cluster_inference_requests_total", nil)
				convey.So(err, convey.ShouldBeNil)
				convey.So(v, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When health is checked", func() {
			w := get(http.MethodGet, "/healthz")

			convey.Convey("Then the model version is reported", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "learner-kmeans-2025.06")
			})
		})

		convey.Convey("When the docs are requested", func() {
			convey.So(get(http.MethodGet, "/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get(http.MethodGet, "/api-docs").Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		updateSystemMetrics()

		convey.Convey("Then the goroutine gauge is populated", func() {
			v, err := metrics.Value("cluster_system_goroutine_count", nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldBeGreaterThan, 0)
		})
	})
}
