// Package service runs the learner inference pipeline and implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/insightify/internal/adapters/artifact"
	"github.com/okian/insightify/internal/adapters/repository"
	"github.com/okian/insightify/internal/domain/features"
	"github.com/okian/insightify/internal/domain/interpret"
	"github.com/okian/insightify/internal/domain/model"
	"github.com/okian/insightify/pkg/logger"
	"github.com/okian/insightify/pkg/metrics"
)

const defaultInferenceTimeout = 10 * time.Second

// Service assigns learners to behavioral clusters.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	bundle *artifact.Bundle
	table  *interpret.Table

	// Configuration
	timeout time.Duration

	// State
	started   bool
	startedAt time.Time

	// Counters
	requests    atomic.Int64
	failures    atomic.Int64
	statsMu     sync.Mutex
	byCluster   map[int]int64
	byErrorKind map[string]int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		table:       interpret.Default(),
		timeout:     defaultInferenceTimeout,
		byCluster:   make(map[int]int64),
		byErrorKind: make(map[string]int64),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Start validates the wiring. A model whose labels or interpretation version
// do not match the profile table is refused.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}

	if s.bundle != nil {
		if s.bundle.InterpretationVersion != s.table.Version() {
			return fmt.Errorf("%w: model %s labels %q, table is %q", artifact.ErrVersionMismatch,
				s.bundle.Version, s.bundle.InterpretationVersion, s.table.Version())
		}
		if err := s.table.Covers(s.bundle.Labels()); err != nil {
			return err
		}
		metrics.SetModelInfo(s.bundle.Version, s.bundle.Family, s.bundle.InterpretationVersion)
		sum := s.bundle.Summary()
		s.logger.Info(ctx, "model loaded",
			logger.String("version", sum.Version),
			logger.String("family", sum.Family),
			logger.String("strategy", sum.Strategy),
			logger.String("scaler", sum.Scaler),
			logger.Int("clusters", len(sum.Clusters)))
	} else {
		s.logger.Warn(ctx, "no model loaded; inference unavailable")
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "inference service started",
		logger.Duration("timeout", s.timeout),
		logger.String("interpretation", s.table.Version()))
	return nil
}

// Stop marks the service as stopped. The store is owned by the caller.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "inference service stopped")
}

// Infer derives the learner's features, assigns a cluster and attaches its
// profile. It never returns a partial result.
func (s *Service) Infer(ctx context.Context, userID string) (model.Inference, error) {
	start := time.Now()
	metrics.RecordInferenceRequest()
	s.requests.Add(1)

	inf, err := s.infer(ctx, userID)
	metrics.RecordInferenceLatency(time.Since(start).Seconds())

	if err != nil {
		kind := model.Kind(err)
		s.failures.Add(1)
		s.count(func() { s.byErrorKind[kind]++ })
		metrics.RecordInferenceError(kind)
		s.logFailure(ctx, userID, kind, err)
		return model.Inference{}, err
	}

	s.count(func() { s.byCluster[inf.Assignment.Cluster]++ })
	metrics.RecordClusterAssignment(inf.Assignment.Cluster)
	s.logger.Info(ctx, "learner assigned",
		logger.String("user_id", inf.UserID),
		logger.Int("cluster", inf.Assignment.Cluster),
		logger.Float64("distance", inf.Assignment.Distance),
		logger.Duration("took", time.Since(start)))
	return inf, nil
}

func (s *Service) infer(ctx context.Context, userID string) (model.Inference, error) {
	s.mu.RLock()
	started, bundle, table := s.started, s.bundle, s.table
	s.mu.RUnlock()

	if !started {
		return model.Inference{}, fmt.Errorf("%w: %w", model.ErrUnavailable, ErrNotStarted)
	}
	if bundle == nil {
		return model.Inference{}, fmt.Errorf("%w: no model loaded", model.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, id, err := s.features(ctx, userID)
	if err != nil {
		return model.Inference{}, err
	}

	assignment, err := bundle.Engine().Assign(ctx, vec)
	if err != nil {
		return model.Inference{}, upstreamIfDeadline(ctx, err)
	}
	s.logger.Debug(ctx, "cluster assigned",
		logger.String("user_id", id),
		logger.Int("cluster", assignment.Cluster),
		logger.Float64("distance", assignment.Distance))

	profile, err := table.Lookup(assignment.Cluster)
	if err != nil {
		return model.Inference{}, err
	}

	return model.Inference{
		UserID:   id,
		Features: vec,
		Assignment: model.ClusterAssignment{
			Cluster:     assignment.Cluster,
			Distance:    assignment.Distance,
			LearnerType: profile,
		},
	}, nil
}

// Features returns the learner's derived feature vector. It does not need a
// loaded model.
func (s *Service) Features(ctx context.Context, userID string) (model.FeatureVector, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.FeatureVector{}, fmt.Errorf("%w: %w", model.ErrUnavailable, ErrNotStarted)
	}
	vec, _, err := s.features(ctx, userID)
	return vec, err
}

func (s *Service) features(ctx context.Context, userID string) (model.FeatureVector, string, error) {
	id, err := repository.ParseUserID(userID)
	if err != nil {
		return model.FeatureVector{}, "", err
	}
	hex := id.Hex()

	activities, err := s.store.Activities(ctx, id)
	if err != nil {
		return model.FeatureVector{}, hex, upstreamIfDeadline(ctx, err)
	}
	results, err := s.store.QuizResults(ctx, id)
	if err != nil {
		return model.FeatureVector{}, hex, upstreamIfDeadline(ctx, err)
	}
	quizzes, err := s.store.Quizzes(ctx, features.ModuleIDs(results))
	if err != nil {
		return model.FeatureVector{}, hex, upstreamIfDeadline(ctx, err)
	}
	s.logger.Debug(ctx, "records loaded",
		logger.String("user_id", hex),
		logger.Int("activities", len(activities)),
		logger.Int("quiz_results", len(results)),
		logger.Int("quizzes", len(quizzes)))

	vec, err := features.Derive(features.Input{
		Activities:  activities,
		QuizResults: results,
		Quizzes:     quizzes,
	})
	if err != nil {
		return model.FeatureVector{}, hex, err
	}
	s.logger.Debug(ctx, "features derived",
		logger.String("user_id", hex),
		logger.Any("features", vec))
	return vec, hex, nil
}

// upstreamIfDeadline classifies an unclassified error caused by the
// inference deadline as an upstream failure.
func upstreamIfDeadline(ctx context.Context, err error) error {
	if model.Kind(err) == "internal" && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", model.ErrUpstream, err)
	}
	return err
}

func (s *Service) logFailure(ctx context.Context, userID, kind string, err error) {
	fields := []logger.Field{
		logger.String("user_id", userID),
		logger.String("kind", kind),
		logger.Error(err),
	}
	switch kind {
	case "contract_violation", "internal":
		s.logger.Error(ctx, "inference failed", fields...)
	case "upstream", "unavailable":
		s.logger.Warn(ctx, "inference failed", fields...)
	default:
		s.logger.Info(ctx, "inference rejected", fields...)
	}
}

func (s *Service) count(fn func()) {
	s.statsMu.Lock()
	fn()
	s.statsMu.Unlock()
}

// Model returns the loaded model summary, if any.
func (s *Service) Model() (artifact.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bundle == nil {
		return artifact.Summary{}, false
	}
	return s.bundle.Summary(), true
}

// Ping checks the datastore when the store supports it.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.store.(repository.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started, startedAt := s.started, s.startedAt
	modelVersion := ""
	if s.bundle != nil {
		modelVersion = s.bundle.Version
	}
	s.mu.RUnlock()

	s.statsMu.Lock()
	clusters := make(map[string]int64, len(s.byCluster))
	for id, n := range s.byCluster {
		clusters[strconv.Itoa(id)] = n
	}
	errs := make(map[string]int64, len(s.byErrorKind))
	for k, v := range s.byErrorKind {
		errs[k] = v
	}
	s.statsMu.Unlock()

	stats := map[string]interface{}{
		"started":                started,
		"requests":               s.requests.Load(),
		"failures":               s.failures.Load(),
		"clusters":               clusters,
		"errors":                 errs,
		"model_version":          modelVersion,
		"interpretation_version": s.table.Version(),
	}
	if started {
		stats["uptime_seconds"] = int64(time.Since(startedAt).Seconds())
	}
	return stats
}
