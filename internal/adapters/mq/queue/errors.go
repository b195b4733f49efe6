package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrClosed = errors.New("edit queue closed")
	ErrFull   = errors.New("edit queue full")
)
