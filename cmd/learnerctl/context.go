package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/insightify/internal/adapters/artifact"
	"github.com/okian/insightify/internal/adapters/repository"
	app "github.com/okian/insightify/internal/app"
	"github.com/okian/insightify/internal/config"
	"github.com/okian/insightify/pkg/logger"
)

// storeOpener returns a Store and a func releasing it.
type storeOpener func(ctx context.Context, cfg *config.Config) (repository.Store, func(), error)

type commandContext struct {
	modelFlag string
	uriFlag   string
	dbFlag    string

	openStore storeOpener

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

type contextOption func(*commandContext)

// withStoreOpener replaces the Mongo-backed store.
func withStoreOpener(fn storeOpener) contextOption {
	return func(c *commandContext) {
		c.openStore = fn
	}
}

func newCommandContext(opts ...contextOption) *commandContext {
	c := &commandContext{openStore: openMongoStore}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(ctx)
		if err != nil {
			c.configErr = err
			return
		}
		if v := strings.TrimSpace(c.modelFlag); v != "" {
			cfg.ModelPath = v
		}
		if v := strings.TrimSpace(c.uriFlag); v != "" {
			cfg.MongoURI = v
		}
		if v := strings.TrimSpace(c.dbFlag); v != "" {
			cfg.MongoDatabase = v
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loadModel(ctx context.Context) (*artifact.Bundle, error) {
	cfg, err := c.ensureConfig(ctx)
	if err != nil {
		return nil, err
	}
	return artifact.Load(ctx, cfg.ModelPath)
}

// withService runs fn against a started service. The model is only loaded
// when withModel is set.
func (c *commandContext) withService(ctx context.Context, withModel bool, fn func(*app.Service) error) error {
	cfg, err := c.ensureConfig(ctx)
	if err != nil {
		return err
	}
	opts := []app.Option{
		app.WithLogger(logger.Named("learnerctl")),
		app.WithInferenceTimeout(cfg.InferenceTimeout()),
	}
	if withModel {
		bundle, err := artifact.Load(ctx, cfg.ModelPath)
		if err != nil {
			return err
		}
		opts = append(opts, app.WithBundle(bundle))
	}

	store, release, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	svc := app.New(append(opts, app.WithStore(store))...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()
	return fn(svc)
}

func openMongoStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	client, err := repository.Connect(ctx, cfg.MongoURI, cfg.ConnectTimeout())
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewMongoStore(client.Database(cfg.MongoDatabase),
		repository.WithQueryTimeout(cfg.QueryTimeout()))
	release := func() {
		_ = client.Disconnect(context.Background())
	}
	return store, release, nil
}
