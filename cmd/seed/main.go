// Command seed writes synthetic learners to MongoDB and optionally checks
// how the running service clusters them.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/insightify/internal/adapters/repository"
	"github.com/okian/insightify/internal/config"
	"github.com/okian/insightify/internal/seed"
	"github.com/okian/insightify/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		seedStr    = flag.String("seed", "insightify", "Seed string; the same seed yields the same learners")
		batch      = flag.String("batch", "", "Batch id stamped on documents (default: new uuid)")
		learners   = flag.Int("learners", seed.DefaultLearners, "Number of learners to generate")
		modules    = flag.Int("modules", seed.DefaultModules, "Size of the module pool")
		perLearner = flag.Int("per-learner", seed.DefaultPerLearner, "Modules completed by each learner")
		purge      = flag.Bool("purge", false, "Delete the documents of -batch instead of seeding")
		verifyURL  = flag.String("verify", "", "Service base URL to verify clustering, e.g. http://localhost:8000")
		workers    = flag.Int("workers", seed.DefaultWorkers, "Concurrent verification requests")
		timeout    = flag.Duration("timeout", seed.DefaultHTTPTimeout, "Verification request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	client, err := repository.Connect(ctx, cfg.MongoURI, cfg.ConnectTimeout())
	if err != nil {
		log.Error(ctx, "failed to connect to datastore", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	_, err = seed.Run(ctx, seed.Config{
		Seed:        *seedStr,
		Batch:       *batch,
		Learners:    *learners,
		Modules:     *modules,
		PerLearner:  *perLearner,
		Purge:       *purge,
		VerifyURL:   *verifyURL,
		Workers:     *workers,
		HTTPTimeout: *timeout,
	}, seed.NewMongoWriter(client.Database(cfg.MongoDatabase)))
	if err != nil {
		log.Error(ctx, "seeding failed", logger.Error(err))
		_ = client.Disconnect(context.Background())
		os.Exit(1)
	}
}
