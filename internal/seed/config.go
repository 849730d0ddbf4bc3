// Package seed generates synthetic learners, writes their activity and quiz
// history to MongoDB and optionally checks how the running service clusters
// them.
package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	Seed        string        // Seed string; the same seed yields the same learners
	Batch       string        // Batch id stamped on every document; generated when empty
	Learners    int           // Number of learners to generate
	Modules     int           // Size of the module pool
	PerLearner  int           // Modules completed by each learner
	Start       time.Time     // First activity day
	Purge       bool          // Delete the documents of Batch instead of seeding
	VerifyURL   string        // Base URL of the service; empty skips verification
	Workers     int           // Concurrent verification requests
	HTTPTimeout time.Duration // Per-request timeout during verification
}

// Defaults for Config.
const (
	DefaultLearners    = 60
	DefaultModules     = 12
	DefaultPerLearner  = 6
	DefaultWorkers     = 4
	DefaultHTTPTimeout = 10 * time.Second
)

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Seed == "" {
		c.Seed = "insightify"
	}
	if c.Learners <= 0 {
		c.Learners = DefaultLearners
	}
	if c.Modules <= 0 {
		c.Modules = DefaultModules
	}
	if c.PerLearner <= 0 {
		c.PerLearner = DefaultPerLearner
	}
	if c.PerLearner > c.Modules {
		c.PerLearner = c.Modules
	}
	if c.Start.IsZero() {
		c.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	return c
}

// Stats summarizes a run.
type Stats struct {
	Batch       string
	Learners    int
	Activities  int
	QuizResults int
	Quizzes     int
	Inserted    map[string]int
	Purged      map[string]int64
	Verify      *VerifyReport
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
