package tcore

import "errors"

// Sentinel errors forming the per-query error taxonomy. Per-query errors
// never mutate shared state; DataCorruption is only ever returned from graph
// construction and aborts startup rather than being surfaced per-query.
var (
	ErrInvalidRequest      = errors.New("tempuscore: invalid request")
	ErrUnsupportedCriteria = errors.New("tempuscore: unsupported optimisation criterion")
	ErrNoPath              = errors.New("tempuscore: no path found")
	ErrCancelled           = errors.New("tempuscore: search cancelled")
	ErrDataCorruption      = errors.New("tempuscore: data corruption")
)
