package cluster

import "errors"

// Construction errors. Dimension mismatches at assignment time wrap
// model.ErrContractViolation instead.
var (
	ErrNoClusters       = errors.New("no clusters configured")
	ErrRaggedMatrix     = errors.New("cluster matrix rows differ in length")
	ErrLabelCount       = errors.New("label count does not match cluster count")
	ErrDuplicateLabel   = errors.New("duplicate cluster label")
	ErrInvalidScale     = errors.New("scaler scale must be finite and non-zero")
	ErrNonFinite        = errors.New("non-finite model parameter")
	ErrInvalidVariance  = errors.New("variance must be positive")
	ErrInvalidWeight    = errors.New("mixture weight must be positive")
	ErrDimensionMisfit  = errors.New("scaler and assigner dimensions differ")
	ErrUnknownScaler    = errors.New("unknown scaler kind")
	ErrNilEngineElement = errors.New("engine requires a scaler and an assigner")
)
