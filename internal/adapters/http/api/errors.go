package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/insightify/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal error")
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeInvalidUserID    = "invalid_user_id"
	codeInsufficientData = "insufficient_data"
	codeUnavailable      = "unavailable"
	codeUpstream         = "upstream_error"
	codeTimeout          = "timeout"
	codeInternal         = "internal_error"
)

// statusFor maps a pipeline error to an HTTP status, a code and the error to
// expose. Internal failures are reported without their details.
func statusFor(err error) (int, string, error) {
	switch {
	case errors.Is(err, model.ErrInvalidUserID):
		return http.StatusBadRequest, codeInvalidUserID, err
	case errors.Is(err, model.ErrInsufficientData):
		return http.StatusUnprocessableEntity, codeInsufficientData, err
	case errors.Is(err, model.ErrUnavailable):
		return http.StatusServiceUnavailable, codeUnavailable, err
	case errors.Is(err, model.ErrUpstream):
		return http.StatusBadGateway, codeUpstream, err
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout, err
	default:
		return http.StatusInternalServerError, codeInternal, ErrInternal
	}
}
