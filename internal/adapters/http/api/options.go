package api

import (
	"time"

	"github.com/okian/insightify/pkg/logger"
)

const (
	defaultInferenceTimeout = 15 * time.Second
	defaultHealthTimeout    = 2 * time.Second
)

type serverConfig struct {
	inferenceTimeout time.Duration
	healthTimeout    time.Duration
	rateLimit        int
	corsOrigins      []string
	logger           logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

// WithInferenceTimeout bounds each inference request.
func WithInferenceTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		if d > 0 {
			c.inferenceTimeout = d
		}
	}
}

// WithHealthTimeout bounds the datastore ping in /healthz.
func WithHealthTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// WithRateLimit limits inference requests per client IP per minute. Zero disables it.
func WithRateLimit(perMinute int) ServerOption {
	return func(c *serverConfig) {
		if perMinute >= 0 {
			c.rateLimit = perMinute
		}
	}
}

// WithCORSOrigins enables CORS for the given origins.
func WithCORSOrigins(origins []string) ServerOption {
	return func(c *serverConfig) {
		c.corsOrigins = append([]string(nil), origins...)
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
