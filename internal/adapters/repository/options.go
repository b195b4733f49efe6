package repository

import (
	"time"

	"github.com/okian/birdie/pkg/logger"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock sets the time source used to stamp new versions.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger logs every published version at debug level.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		s.logger = l
	}
}
