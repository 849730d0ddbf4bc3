package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/insightify/internal/domain/model"
)

// MemoryStore is an in-process Store used by tests and offline tooling.
type MemoryStore struct {
	mu          sync.RWMutex
	activities  map[string][]model.ActivityEvent
	quizResults map[string][]model.QuizResult
	quizzes     map[string][]model.QuizMetadata
	err         error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		activities:  make(map[string][]model.ActivityEvent),
		quizResults: make(map[string][]model.QuizResult),
		quizzes:     make(map[string][]model.QuizMetadata),
	}
}

// AddActivities appends events. Events keep their own UserID.
func (s *MemoryStore) AddActivities(events ...model.ActivityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.activities[e.UserID] = append(s.activities[e.UserID], e)
	}
}

// AddQuizResults appends quiz results.
func (s *MemoryStore) AddQuizResults(results ...model.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range results {
		s.quizResults[r.UserID] = append(s.quizResults[r.UserID], r)
	}
}

// AddQuizzes appends quiz metadata.
func (s *MemoryStore) AddQuizzes(quizzes ...model.QuizMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quizzes {
		s.quizzes[q.ModuleID] = append(s.quizzes[q.ModuleID], q)
	}
}

// FailWith makes every subsequent read return err. Nil restores reads.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Activities implements Store.
func (s *MemoryStore) Activities(_ context.Context, userID primitive.ObjectID) ([]model.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.ActivityEvent, 0, len(s.activities[userID.Hex()]))
	for _, e := range s.activities[userID.Hex()] {
		if e.Status == model.StatusStarted || e.Status == model.StatusCompleted {
			out = append(out, e)
		}
	}
	return out, nil
}

// QuizResults implements Store.
func (s *MemoryStore) QuizResults(_ context.Context, userID primitive.ObjectID) ([]model.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return append(make([]model.QuizResult, 0, len(s.quizResults[userID.Hex()])), s.quizResults[userID.Hex()]...), nil
}

// Quizzes implements Store.
func (s *MemoryStore) Quizzes(_ context.Context, moduleIDs []string) ([]model.QuizMetadata, error) {
	if len(moduleIDs) == 0 {
		return []model.QuizMetadata{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.QuizMetadata, 0, len(moduleIDs))
	for _, id := range moduleIDs {
		out = append(out, s.quizzes[id]...)
	}
	return out, nil
}

// Ping implements Pinger.
func (s *MemoryStore) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
