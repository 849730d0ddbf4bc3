package model

import "errors"

// Error kinds shared by every layer of the inference pipeline.
var (
	ErrUnavailable       = errors.New("inference unavailable")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrContractViolation = errors.New("contract violation")
	ErrUpstream          = errors.New("upstream data error")
	ErrInvalidUserID     = errors.New("invalid user id")
)

// Kind returns a short stable label for err, used in metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidUserID):
		return "invalid_user_id"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrContractViolation):
		return "contract_violation"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	default:
		return "internal"
	}
}
