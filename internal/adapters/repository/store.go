// Package repository provides read-only access to learner records.
package repository

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/insightify/internal/domain/model"
)

// Operation names used in logs and metrics.
const (
	OpActivities  = "activities"
	OpQuizResults = "quiz_results"
	OpQuizzes     = "quizzes"
)

// Store reads the raw records of one learner. Every operation returns an
// empty, non-nil slice when nothing matches.
type Store interface {
	// Activities returns the learner's lifecycle events with normalized status.
	Activities(ctx context.Context, userID primitive.ObjectID) ([]model.ActivityEvent, error)
	// QuizResults returns the learner's quiz attempts.
	QuizResults(ctx context.Context, userID primitive.ObjectID) ([]model.QuizResult, error)
	// Quizzes returns quiz metadata for the given modules. An empty id set
	// returns an empty result without querying.
	Quizzes(ctx context.Context, moduleIDs []string) ([]model.QuizMetadata, error)
}

// Pinger is implemented by stores that can check their backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ParseUserID converts a user id to the store's native identifier. It is the
// only place user ids are normalized.
func ParseUserID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", model.ErrInvalidUserID, raw)
	}
	return id, nil
}

// NormalizeStatus maps platform status codes to lifecycle statuses.
// ok is false for non-lifecycle values.
func NormalizeStatus(raw string) (model.Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "module_start", "started":
		return model.StatusStarted, true
	case "module_complete", "completed":
		return model.StatusCompleted, true
	default:
		return "", false
	}
}
