package seed

import "errors"

// Sentinel errors.
var (
	ErrNoBatch      = errors.New("seed: purge requires a batch id")
	ErrWrite        = errors.New("seed: write failed")
	ErrVerification = errors.New("seed: verification failed")
)
