package worker

import (
	"context"

	"github.com/okian/birdie/pkg/logger"
)

// Option applies a configuration option to the Applier.
type Option func(*Applier)

// WithName sets the worker name for logging.
func WithName(name string) Option {
	return func(w *Applier) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Applier) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithResultHandler registers fn to be called after every edit, applied or
// rejected. fn runs on the worker goroutine and must not block.
func WithResultHandler(fn func(context.Context, Result)) Option {
	return func(w *Applier) {
		if fn != nil {
			w.onResult = fn
		}
	}
}
