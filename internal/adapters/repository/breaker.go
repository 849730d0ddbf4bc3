package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/insightify/internal/domain/model"
	"github.com/okian/insightify/pkg/logger"
	"github.com/okian/insightify/pkg/metrics"
)

// BreakerConfig tunes the circuit breaker around a Store.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
	Interval         time.Duration
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "mongo",
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
		Interval:         time.Minute,
	}
}

// BreakerStore fails fast while the wrapped Store keeps failing. Requests
// are not retried; an open circuit surfaces as an upstream error.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, cfg BreakerConfig, l logger.Logger) *BreakerStore {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if l == nil {
		l = logger.Get().Named("breaker")
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// Callers giving up is not a datastore failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, stateValue(to))
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			l.Warn(context.Background(), "datastore circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	}
	metrics.UpdateBreakerState(cfg.Name, stateValue(gobreaker.StateClosed))

	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
		name: cfg.Name,
	}
}

// State returns the current breaker state name.
func (b *BreakerStore) State() string { return b.cb.State().String() }

// Activities implements Store.
func (b *BreakerStore) Activities(ctx context.Context, userID primitive.ObjectID) ([]model.ActivityEvent, error) {
	return execute(b, func() ([]model.ActivityEvent, error) { return b.next.Activities(ctx, userID) })
}

// QuizResults implements Store.
func (b *BreakerStore) QuizResults(ctx context.Context, userID primitive.ObjectID) ([]model.QuizResult, error) {
	return execute(b, func() ([]model.QuizResult, error) { return b.next.QuizResults(ctx, userID) })
}

// Quizzes implements Store.
func (b *BreakerStore) Quizzes(ctx context.Context, moduleIDs []string) ([]model.QuizMetadata, error) {
	if len(moduleIDs) == 0 {
		return []model.QuizMetadata{}, nil
	}
	return execute(b, func() ([]model.QuizMetadata, error) { return b.next.Quizzes(ctx, moduleIDs) })
}

// Ping passes through to the wrapped store when it supports pinging.
func (b *BreakerStore) Ping(ctx context.Context) error {
	if p, ok := b.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func execute[T any](b *BreakerStore, fn func() ([]T, error)) ([]T, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %s: %w", model.ErrUpstream, ErrCircuitOpen, b.name, err)
		}
		return nil, err
	}
	rows, _ := out.([]T)
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
