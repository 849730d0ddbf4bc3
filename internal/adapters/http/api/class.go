package api

import (
	"net/http"

	"github.com/okian/insightify/internal/domain/types"
)

// ClassHandler serves the legacy class endpoint kept for older callers.
type ClassHandler struct{}

// NewClassHandler creates a new class handler.
func NewClassHandler() *ClassHandler {
	return &ClassHandler{}
}

// HandleClass handles GET /retrive-class. It always reports class 0.
func (h *ClassHandler) HandleClass(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.ClassResponse{Class: 0})
}
