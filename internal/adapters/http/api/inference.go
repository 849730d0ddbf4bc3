package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/okian/insightify/internal/domain/model"
	"github.com/okian/insightify/pkg/logger"
)

const maxBodyBytes = 4 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// inferenceRequest carries the learner id from the query string or the body.
type inferenceRequest struct {
	UserID string `json:"user_id" validate:"required,mongodb"`
}

// InferenceHandler handles POST /cluster-inference.
type InferenceHandler struct {
	deps    Dependencies
	timeout time.Duration
	logger  logger.Logger
}

// NewInferenceHandler creates a new inference handler.
func NewInferenceHandler(deps Dependencies, timeout time.Duration, l logger.Logger) *InferenceHandler {
	return &InferenceHandler{deps: deps, timeout: timeout, logger: l}
}

// HandleInfer runs the pipeline for the requested learner. The query
// parameter wins over a JSON body.
func (h *InferenceHandler) HandleInfer(w http.ResponseWriter, r *http.Request) {
	req, err := decodeInferenceRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidUserID, fmt.Errorf("%w: %q", model.ErrInvalidUserID, req.UserID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	inf, err := h.deps.Infer(ctx, req.UserID)
	if err != nil {
		status, code, exposed := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Warn(ctx, "inference request failed",
				logger.String("user_id", req.UserID),
				logger.Int("status", status),
				logger.Error(err))
		}
		writeError(w, status, code, exposed)
		return
	}
	writeJSON(w, http.StatusOK, inf)
}

func decodeInferenceRequest(r *http.Request) (inferenceRequest, error) {
	req := inferenceRequest{UserID: r.URL.Query().Get("user_id")}
	if req.UserID != "" || r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: invalid JSON body", ErrBadRequest)
	}
	return req, nil
}
