// Package model contains domain models passed between layers.
package model

import "time"

// Status is the normalized lifecycle status of an activity event.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
)

// ActivityEvent is one lifecycle event of a learner on a module.
// A user may have many events per module; only the earliest per status counts.
type ActivityEvent struct {
	UserID   string
	ModuleID string
	Status   Status
	// Timestamp is set when the store holds a native date.
	Timestamp time.Time
	// RawTimestamp keeps textual timestamps as stored.
	RawTimestamp string
}

// QuizResult is one quiz attempt. Score, Passed and Duration may be missing.
type QuizResult struct {
	UserID   string
	ModuleID string
	Score    *float64
	Passed   *bool
	Duration *float64 // seconds
}

// QuizMetadata carries the allowed duration of a module's quiz.
type QuizMetadata struct {
	ModuleID        string
	MaximumDuration *float64 // seconds
}

// ModuleTimeline is the derived start/completion pair of one module.
// Only modules with a known completion produce a timeline.
type ModuleTimeline struct {
	ModuleID    string
	StartedAt   *time.Time
	CompletedAt time.Time
}
