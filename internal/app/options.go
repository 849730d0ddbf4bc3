package service

import (
	"time"

	"github.com/okian/insightify/internal/adapters/artifact"
	"github.com/okian/insightify/internal/adapters/repository"
	"github.com/okian/insightify/internal/domain/interpret"
	"github.com/okian/insightify/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the data access layer.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBundle sets the loaded model. Without it Infer reports ErrUnavailable
// while Features keeps working.
func WithBundle(bundle *artifact.Bundle) Option {
	return func(s *Service) {
		s.bundle = bundle
	}
}

// WithInterpretation replaces the built-in profile table.
func WithInterpretation(table *interpret.Table) Option {
	return func(s *Service) {
		if table != nil {
			s.table = table
		}
	}
}

// WithInferenceTimeout bounds a whole Infer call.
func WithInferenceTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
