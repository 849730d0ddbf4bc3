package seed

import (
	"crypto/md5" //nolint:gosec // ids only need to be stable, not secret
	"encoding/binary"
	"encoding/hex"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BatchField tags every seeded document.
const BatchField = "seedBatch"

// Collection names written by the seeder.
const (
	CollectionActivities  = "activities"
	CollectionQuizResults = "quizresults"
	CollectionQuizzes     = "quizzes"
)

const passScore = 70.0

type span struct{ lo, hi float64 }

func (s span) draw(r *rand.Rand) float64 { return s.lo + r.Float64()*(s.hi-s.lo) }

// persona shapes the behavior of a generated learner.
type persona struct {
	name        string
	study       span // minutes between start and completion
	utilization span // quiz duration as percent of the allowed maximum
	score       span
	sameWeekday bool
}

var personas = []persona{
	{name: "consistent", study: span{20, 60}, utilization: span{30, 60}, score: span{80, 100}, sameWeekday: true},
	{name: "reflective", study: span{60, 150}, utilization: span{80, 120}, score: span{65, 85}},
	{name: "struggling", study: span{5, 30}, utilization: span{20, 50}, score: span{30, 65}},
}

// Learner is one generated learner.
type Learner struct {
	ID      string `json:"id"`
	Persona string `json:"persona"`
}

// Dataset is everything a run writes.
type Dataset struct {
	Batch       string
	Learners    []Learner
	Activities  []any
	QuizResults []any
	Quizzes     []any
}

// ObjectIDFromSeed derives a stable ObjectID from the first 12 bytes of the
// MD5 digest of seed.
func ObjectIDFromSeed(seed string) primitive.ObjectID {
	sum := md5.Sum([]byte(seed)) //nolint:gosec // see import
	id, _ := primitive.ObjectIDFromHex(hex.EncodeToString(sum[:])[:24])
	return id
}

// Generator builds deterministic datasets.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator returns a generator seeded from cfg.Seed.
func NewGenerator(cfg Config) *Generator {
	cfg = cfg.withDefaults()
	sum := md5.Sum([]byte(cfg.Seed)) //nolint:gosec // see import
	src := rand.NewPCG(binary.LittleEndian.Uint64(sum[:8]), binary.LittleEndian.Uint64(sum[8:]))
	return &Generator{cfg: cfg, rng: rand.New(src)} //nolint:gosec // reproducible data, not security
}

// Generate builds the dataset. A missing batch id is replaced by a new uuid.
func (g *Generator) Generate() Dataset {
	batch := g.cfg.Batch
	if batch == "" {
		batch = uuid.NewString()
	}
	ds := Dataset{Batch: batch}

	maxDurations := make([]float64, g.cfg.Modules)
	for m := 0; m < g.cfg.Modules; m++ {
		maxDurations[m] = float64(600 + 300*g.rng.IntN(11))
		ds.Quizzes = append(ds.Quizzes, bson.M{
			"_id":             g.id("quiz", m),
			"moduleId":        g.id("module", m),
			"maximumDuration": maxDurations[m],
			BatchField:        batch,
		})
	}

	for i := 0; i < g.cfg.Learners; i++ {
		p := personas[i%len(personas)]
		user := g.id("user", i)
		ds.Learners = append(ds.Learners, Learner{ID: user.Hex(), Persona: p.name})

		weekday := g.rng.IntN(7)
		first := g.rng.IntN(g.cfg.Modules)
		for j := 0; j < g.cfg.PerLearner; j++ {
			m := (first + j) % g.cfg.Modules
			module := g.id("module", m)

			day := j * 7
			if p.sameWeekday {
				day += weekday
			} else {
				day += g.rng.IntN(7)
			}
			started := g.cfg.Start.AddDate(0, 0, day).Add(time.Duration(8+g.rng.IntN(10)) * time.Hour)
			completed := started.Add(time.Duration(p.study.draw(g.rng) * float64(time.Minute)))

			key := strconv.Itoa(i) + "-" + strconv.Itoa(j)
			ds.Activities = append(ds.Activities,
				activity(ObjectIDFromSeed(g.cfg.Seed+"-activity-start-"+key), user, module, "module_start", started, batch),
				activity(ObjectIDFromSeed(g.cfg.Seed+"-activity-complete-"+key), user, module, "module_complete", completed, batch),
			)

			score := p.score.draw(g.rng)
			ds.QuizResults = append(ds.QuizResults, bson.M{
				"_id":       ObjectIDFromSeed(g.cfg.Seed + "-quiz-result-" + key),
				"userId":    user,
				"moduleId":  module,
				"score":     score,
				"passed":    score >= passScore,
				"duration":  p.utilization.draw(g.rng) / 100 * maxDurations[m],
				"timestamp": completed.Add(5 * time.Minute),
				BatchField:  batch,
			})
		}
	}
	return ds
}

func (g *Generator) id(kind string, n int) primitive.ObjectID {
	return ObjectIDFromSeed(g.cfg.Seed + "-" + kind + "-" + strconv.Itoa(n))
}

func activity(id, user, module primitive.ObjectID, kind string, at time.Time, batch string) bson.M {
	return bson.M{
		"_id":        id,
		"user":       user,
		"module":     module,
		"type":       kind,
		"occurredAt": at,
		BatchField:   batch,
	}
}
