package seed_test

import (
	"context"
	"crypto/md5" //nolint:gosec // mirrors the id derivation under test
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/insightify/internal/seed"
	"github.com/okian/insightify/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestObjectIDFromSeed(t *testing.T) {
	Convey("Given a seed string", t, func() {
		sum := md5.Sum([]byte("user-42")) //nolint:gosec // see import
		want := hex.EncodeToString(sum[:])[:24]

		Convey("Then the id is the first 24 hex digits of its MD5", func() {
			So(seed.ObjectIDFromSeed("user-42").Hex(), ShouldEqual, want)
			So(seed.ObjectIDFromSeed("user-42"), ShouldEqual, seed.ObjectIDFromSeed("user-42"))
			So(seed.ObjectIDFromSeed("user-43"), ShouldNotEqual, seed.ObjectIDFromSeed("user-42"))
		})
	})
}

func TestGenerator(t *testing.T) {
	cfg := seed.Config{Seed: "test", Batch: "batch-1", Learners: 6, Modules: 4, PerLearner: 3}

	Convey("Given two generators with the same config", t, func() {
		a := seed.NewGenerator(cfg).Generate()
		b := seed.NewGenerator(cfg).Generate()

		Convey("Then they produce the same dataset", func() {
			So(a.Learners, ShouldResemble, b.Learners)
			So(a.Activities, ShouldResemble, b.Activities)
			So(a.QuizResults, ShouldResemble, b.QuizResults)
		})

		Convey("Then the sizes follow the config", func() {
			So(a.Learners, ShouldHaveLength, 6)
			So(a.Quizzes, ShouldHaveLength, 4)
			So(a.Activities, ShouldHaveLength, 6*3*2)
			So(a.QuizResults, ShouldHaveLength, 6*3)
		})

		Convey("Then personas rotate", func() {
			So(a.Learners[0].Persona, ShouldEqual, "consistent")
			So(a.Learners[1].Persona, ShouldEqual, "reflective")
			So(a.Learners[2].Persona, ShouldEqual, "struggling")
			So(a.Learners[3].Persona, ShouldEqual, "consistent")
		})

		Convey("Then every document carries the batch", func() {
			for _, docs := range [][]any{a.Activities, a.QuizResults, a.Quizzes} {
				for _, d := range docs {
					So(d.(bson.M)[seed.BatchField], ShouldEqual, "batch-1")
				}
			}
		})

		Convey("Then consistent learners always start on the same weekday", func() {
			user := a.Learners[0].ID
			days := map[time.Weekday]bool{}
			for _, d := range a.Activities {
				doc := d.(bson.M)
				if doc["user"].(primitive.ObjectID).Hex() == user && doc["type"] == "module_start" {
					days[doc["occurredAt"].(time.Time).Weekday()] = true
				}
			}
			So(days, ShouldHaveLength, 1)
		})

		Convey("Then completions follow starts and passing matches the score", func() {
			starts := map[primitive.ObjectID]time.Time{}
			for i := 0; i < len(a.Activities); i += 2 {
				start := a.Activities[i].(bson.M)
				done := a.Activities[i+1].(bson.M)
				So(start["type"], ShouldEqual, "module_start")
				So(done["type"], ShouldEqual, "module_complete")
				So(done["occurredAt"].(time.Time).After(start["occurredAt"].(time.Time)), ShouldBeTrue)
				starts[start["_id"].(primitive.ObjectID)] = start["occurredAt"].(time.Time)
			}
			So(starts, ShouldHaveLength, 6*3)
			for _, d := range a.QuizResults {
				doc := d.(bson.M)
				So(doc["passed"], ShouldEqual, doc["score"].(float64) >= 70)
				So(doc["duration"].(float64), ShouldBeGreaterThan, 0)
			}
		})
	})

	Convey("Given a config without a batch", t, func() {
		ds := seed.NewGenerator(seed.Config{Learners: 1}).Generate()

		Convey("Then a uuid batch is assigned", func() {
			So(ds.Batch, ShouldHaveLength, 36)
		})
	})
}

type fakeWriter struct {
	mu       sync.Mutex
	inserted map[string]int
	purged   map[string]string
	err      error
}

func (f *fakeWriter) Insert(_ context.Context, collection string, docs []any) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if f.inserted == nil {
		f.inserted = map[string]int{}
	}
	f.inserted[collection] += len(docs)
	return len(docs), nil
}

func (f *fakeWriter) Purge(_ context.Context, collection, batch string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.purged == nil {
		f.purged = map[string]string{}
	}
	f.purged[collection] = batch
	return 2, nil
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeding run", t, func() {
		w := &fakeWriter{}
		stats, err := seed.Run(ctx, seed.Config{Seed: "run", Learners: 3, Modules: 2, PerLearner: 2}, w)

		Convey("Then all three collections are written", func() {
			So(err, ShouldBeNil)
			So(w.inserted[seed.CollectionActivities], ShouldEqual, 12)
			So(w.inserted[seed.CollectionQuizResults], ShouldEqual, 6)
			So(w.inserted[seed.CollectionQuizzes], ShouldEqual, 2)
			So(stats.Learners, ShouldEqual, 3)
			So(stats.Batch, ShouldNotBeEmpty)
		})
	})

	Convey("Given a failing writer", t, func() {
		w := &fakeWriter{err: seed.ErrWrite}
		_, err := seed.Run(ctx, seed.Config{Learners: 1}, w)

		Convey("Then the run fails", func() {
			So(errors.Is(err, seed.ErrWrite), ShouldBeTrue)
		})
	})

	Convey("Given a purge run", t, func() {
		w := &fakeWriter{}

		Convey("When no batch is given", func() {
			_, err := seed.Run(ctx, seed.Config{Purge: true}, w)

			Convey("Then it is refused", func() {
				So(err, ShouldEqual, seed.ErrNoBatch)
			})
		})

		Convey("When a batch is given", func() {
			stats, err := seed.Run(ctx, seed.Config{Purge: true, Batch: "b-9"}, w)

			Convey("Then every collection is purged for that batch", func() {
				So(err, ShouldBeNil)
				So(w.purged, ShouldResemble, map[string]string{
					seed.CollectionActivities:  "b-9",
					seed.CollectionQuizResults: "b-9",
					seed.CollectionQuizzes:     "b-9",
				})
				So(stats.Purged[seed.CollectionQuizzes], ShouldEqual, 2)
				So(w.inserted, ShouldBeNil)
			})
		})
	})
}

func TestVerify(t *testing.T) {
	learners := []seed.Learner{
		{ID: "64b7f0c2a1d3e4f5a6b7c8d1", Persona: "consistent"},
		{ID: "64b7f0c2a1d3e4f5a6b7c8d2", Persona: "reflective"},
		{ID: "64b7f0c2a1d3e4f5a6b7c8d3", Persona: "struggling"},
	}
	clusters := map[string]string{
		learners[0].ID: `{"result":{"cluster":0}}`,
		learners[1].ID: `{"result":{"cluster":1}}`,
	}

	Convey("Given a service that clusters two of three learners", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/cluster-inference" {
				http.NotFound(w, r)
				return
			}
			body, ok := clusters[r.URL.Query().Get("user_id")]
			if !ok {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"code":"insufficient_data"}`))
				return
			}
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		report, err := seed.Verify(context.Background(), srv.URL, learners, 2, time.Second)

		Convey("Then the distribution is summarized", func() {
			So(err, ShouldBeNil)
			So(report.Requested, ShouldEqual, 3)
			So(report.Succeeded, ShouldEqual, 2)
			So(report.Failed, ShouldEqual, 1)
			So(report.ClusterIDs(), ShouldResemble, []int{0, 1})
			So(report.ByPersona["reflective"][1], ShouldEqual, 1)
		})
	})

	Convey("Given a service that rejects every learner", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		report, err := seed.Verify(context.Background(), srv.URL, learners, 2, time.Second)

		Convey("Then verification fails", func() {
			So(errors.Is(err, seed.ErrVerification), ShouldBeTrue)
			So(report.Failed, ShouldEqual, 3)
		})
	})
}
