package repository

import "errors"

// Sentinel kinds for datastore errors. Query failures additionally wrap
// model.ErrUpstream.
var (
	ErrConnect     = errors.New("failed to connect to datastore")
	ErrQuery       = errors.New("datastore query failed")
	ErrDecode      = errors.New("failed to decode datastore record")
	ErrCircuitOpen = errors.New("datastore circuit open")
)
