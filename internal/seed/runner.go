package seed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/insightify/pkg/logger"
)

var collections = []string{CollectionActivities, CollectionQuizResults, CollectionQuizzes}

// Run seeds or purges according to cfg.
func Run(ctx context.Context, cfg Config, w Writer) (*Stats, error) {
	cfg = cfg.withDefaults()
	stats := &Stats{StartTime: time.Now(), Batch: cfg.Batch}
	log := logger.Named("seed")

	if cfg.Purge {
		if err := purge(ctx, cfg, w, stats); err != nil {
			return stats, err
		}
		finish(ctx, stats)
		return stats, nil
	}

	log.Info(ctx, "generating learners",
		logger.String("seed", cfg.Seed),
		logger.Int("learners", cfg.Learners),
		logger.Int("modules", cfg.Modules),
		logger.Int("per_learner", cfg.PerLearner))

	ds := NewGenerator(cfg).Generate()
	stats.Batch = ds.Batch
	stats.Learners = len(ds.Learners)
	stats.Activities = len(ds.Activities)
	stats.QuizResults = len(ds.QuizResults)
	stats.Quizzes = len(ds.Quizzes)
	stats.Inserted = make(map[string]int, len(collections))

	docs := map[string][]any{
		CollectionActivities:  ds.Activities,
		CollectionQuizResults: ds.QuizResults,
		CollectionQuizzes:     ds.Quizzes,
	}
	for _, c := range collections {
		n, err := w.Insert(ctx, c, docs[c])
		if err != nil {
			return stats, err
		}
		stats.Inserted[c] = n
		log.Info(ctx, "inserted documents",
			logger.String("collection", c),
			logger.Int("inserted", n),
			logger.Int("skipped", len(docs[c])-n))
	}

	if cfg.VerifyURL != "" {
		report, err := Verify(ctx, cfg.VerifyURL, ds.Learners, cfg.Workers, cfg.HTTPTimeout)
		stats.Verify = report
		if err != nil {
			return stats, err
		}
		logReport(ctx, log, report)
	}

	finish(ctx, stats)
	return stats, nil
}

func purge(ctx context.Context, cfg Config, w Writer, stats *Stats) error {
	if cfg.Batch == "" {
		return ErrNoBatch
	}
	stats.Purged = make(map[string]int64, len(collections))
	for _, c := range collections {
		n, err := w.Purge(ctx, c, cfg.Batch)
		if err != nil {
			return fmt.Errorf("purge batch %s: %w", cfg.Batch, err)
		}
		stats.Purged[c] = n
		logger.Named("seed").Info(ctx, "purged documents",
			logger.String("collection", c),
			logger.String("batch", cfg.Batch),
			logger.Int("deleted", int(n)))
	}
	return nil
}

func logReport(ctx context.Context, log logger.Logger, r *VerifyReport) {
	fields := []logger.Field{
		logger.Int("requested", r.Requested),
		logger.Int("succeeded", r.Succeeded),
		logger.Int("failed", r.Failed),
	}
	for _, id := range r.ClusterIDs() {
		fields = append(fields, logger.Int("cluster_"+strconv.Itoa(id), r.Clusters[id]))
	}
	log.Info(ctx, "cluster distribution", fields...)
	for name, dist := range r.ByPersona {
		log.Info(ctx, "persona distribution", logger.String("persona", name), logger.Any("clusters", dist))
	}
}

func finish(ctx context.Context, stats *Stats) {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logger.Named("seed").Info(ctx, "seeding finished",
		logger.String("batch", stats.Batch),
		logger.Duration("duration", stats.Duration))
}
