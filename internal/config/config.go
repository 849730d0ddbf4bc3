// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New(ctx) returns a Config populated with defaults.
//   - Load(ctx) layers .env, an optional YAML file and INSIGHTIFY_* env vars on top.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr" validate:"required"`

	// MongoURI is the connection string of the learner datastore.
	MongoURI string `koanf:"mongo_uri" validate:"required,mongodb_connection_string"`

	// MongoDatabase names the database holding the learner collections.
	MongoDatabase string `koanf:"mongo_database" validate:"required"`

	// MongoQueryTimeoutMS bounds every datastore read.
	MongoQueryTimeoutMS int `koanf:"mongo_query_timeout_ms" validate:"min=1"`

	// MongoConnectTimeoutMS bounds the initial connection and ping.
	MongoConnectTimeoutMS int `koanf:"mongo_connect_timeout_ms" validate:"min=1"`

	// ModelPath points to the cluster artifact loaded at startup.
	ModelPath string `koanf:"model_path" validate:"required"`

	// InferenceTimeoutMS bounds one end-to-end inference.
	InferenceTimeoutMS int `koanf:"inference_timeout_ms" validate:"min=1"`

	// BreakerFailureThreshold opens the datastore circuit after this many
	// consecutive failures.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold" validate:"min=1"`

	// BreakerTimeoutMS is how long the circuit stays open.
	BreakerTimeoutMS int `koanf:"breaker_timeout_ms" validate:"min=1"`

	// RateLimitPerMinute caps inference requests per client IP; 0 disables it.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute" validate:"min=0"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config with defaults. The context is reserved for loaders
// that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":8000",
		MongoURI:                "mongodb://localhost:27017",
		MongoDatabase:           "insightify",
		MongoQueryTimeoutMS:     5_000,
		MongoConnectTimeoutMS:   10_000,
		ModelPath:               "models/learner_clusters.json",
		InferenceTimeoutMS:      10_000,
		BreakerFailureThreshold: 5,
		BreakerTimeoutMS:        30_000,
		RateLimitPerMinute:      120,
	}
}

// QueryTimeout returns MongoQueryTimeoutMS as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.MongoQueryTimeoutMS) * time.Millisecond
}

// ConnectTimeout returns MongoConnectTimeoutMS as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.MongoConnectTimeoutMS) * time.Millisecond
}

// InferenceTimeout returns InferenceTimeoutMS as a duration.
func (c *Config) InferenceTimeout() time.Duration {
	return time.Duration(c.InferenceTimeoutMS) * time.Millisecond
}

// BreakerTimeout returns BreakerTimeoutMS as a duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutMS) * time.Millisecond
}
