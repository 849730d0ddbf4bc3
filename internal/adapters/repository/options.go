package repository

import (
	"time"

	"github.com/okian/insightify/pkg/logger"
)

// Collection names used by the platform backend.
const (
	DefaultActivitiesCollection  = "activities"
	DefaultQuizResultsCollection = "quizresults"
	DefaultQuizzesCollection     = "quizzes"
	defaultQueryTimeout          = 5 * time.Second
)

// Option applies a configuration option to the MongoStore.
type Option func(*MongoStore)

// WithQueryTimeout bounds every query.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *MongoStore) {
		if timeout > 0 {
			s.queryTimeout = timeout
		}
	}
}

// WithCollections overrides collection names. Empty names keep the default.
func WithCollections(activities, quizResults, quizzes string) Option {
	return func(s *MongoStore) {
		if activities != "" {
			s.activitiesName = activities
		}
		if quizResults != "" {
			s.quizResultsName = quizResults
		}
		if quizzes != "" {
			s.quizzesName = quizzes
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *MongoStore) {
		if l != nil {
			s.logger = l
		}
	}
}
