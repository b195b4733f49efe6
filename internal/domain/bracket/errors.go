package bracket

import "errors"

// Sentinel kinds for bracket errors.
var (
	ErrInvalidKey = errors.New("invalid knockout score key")
)
