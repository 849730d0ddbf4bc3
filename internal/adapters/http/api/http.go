// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/insightify/internal/adapters/artifact"
	"github.com/okian/insightify/internal/domain/model"
	"github.com/okian/insightify/pkg/logger"
	"github.com/okian/insightify/pkg/metrics"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Infer runs the full pipeline for one learner.
	Infer(ctx context.Context, userID string) (model.Inference, error)

	// Ping reports datastore reachability.
	Ping(ctx context.Context) error

	// Model describes the loaded artifact, false when none is loaded.
	Model() (artifact.Summary, bool)
}

// Server wires HTTP routes for the inference API.
type Server struct {
	inferenceHandler *InferenceHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	classHandler     *ClassHandler

	rateLimit   int
	corsOrigins []string
	logger      logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{
		inferenceTimeout: defaultInferenceTimeout,
		healthTimeout:    defaultHealthTimeout,
		logger:           logger.Get().Named("http"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		inferenceHandler: NewInferenceHandler(deps, cfg.inferenceTimeout, cfg.logger),
		healthHandler:    NewHealthHandler(deps, cfg.healthTimeout),
		statsHandler:     NewStatsHandler(statsProvider),
		classHandler:     NewClassHandler(),
		rateLimit:        cfg.rateLimit,
		corsOrigins:      cfg.corsOrigins,
		logger:           cfg.logger,
	}
}

// Router returns a chi router with middleware and every API route mounted.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Group(func(r chi.Router) {
		if s.rateLimit > 0 {
			r.Use(httprate.LimitByIP(s.rateLimit, time.Minute))
		}
		r.Post("/cluster-inference", MetricsMiddleware(s.inferenceHandler.HandleInfer, "cluster_inference"))
	})
	r.Get("/retrive-class", MetricsMiddleware(s.classHandler.HandleClass, "retrive_class"))
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
