package artifact

import "errors"

// Loading errors. Every one of them is fatal at startup.
var (
	ErrReadArtifact       = errors.New("failed to read model artifact")
	ErrMalformedArtifact  = errors.New("malformed model artifact")
	ErrFeatureOrder       = errors.New("artifact features differ from the derived feature vector")
	ErrFeatureDomain      = errors.New("scaler fitted outside the feature domain")
	ErrUnknownFamily      = errors.New("unknown model family")
	ErrVersionMismatch    = errors.New("interpretation version mismatch")
	ErrMissingModelFields = errors.New("artifact is missing model parameters")
)
