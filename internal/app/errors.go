package service

import "errors"

// Sentinel kinds for service lifecycle errors.
var (
	ErrNoStore    = errors.New("service requires a store")
	ErrNotStarted = errors.New("service not started")
)
