// Package types contains common response shapes used across the application.
package types

// ClassResponse is returned by the legacy class endpoint.
type ClassResponse struct {
	Class int `json:"class"`
}

// HealthResponse reports liveness and dependency state.
type HealthResponse struct {
	Status       string `json:"status"`
	Datastore    string `json:"datastore"`
	ModelVersion string `json:"model_version,omitempty"`
	ModelFamily  string `json:"model_family,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Health statuses.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)
