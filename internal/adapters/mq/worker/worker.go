// Package worker applies queued edits to the snapshot store one at a time.
//
// A single worker consumes the queue so edits land in the order they were
// accepted; the last write to a score wins.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/birdie/internal/adapters/mq/queue"
	"github.com/okian/birdie/internal/adapters/repository"
	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/pkg/logger"
	"github.com/okian/birdie/pkg/metrics"
)

// Queue defines how the worker receives edits.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Edit
}

// Store is the snapshot holder edits are applied to.
type Store interface {
	Apply(ctx context.Context, fn repository.Mutation) (repository.Versioned, error)
}

// Result reports the outcome of one edit.
type Result struct {
	EditID  string
	Kind    model.EditKind
	Version uint64 // version after the edit, or the unchanged version on error
	Err     error
}

// Applier drains the queue into the store.
type Applier struct {
	queue    Queue
	store    Store
	name     string
	onResult func(context.Context, Result)

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewApplier creates a worker. Call Run to start it.
func NewApplier(q Queue, store Store, opts ...Option) *Applier {
	w := &Applier{
		queue:    q,
		store:    store,
		name:     "applier",
		onResult: func(context.Context, Result) {},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run applies edits until the queue is drained and closed, ctx ends, or
// Shutdown is called.
func (w *Applier) Run(ctx context.Context) {
	defer close(w.done)
	w.logger.Info(ctx, "worker started", logger.String("worker", w.name))
	defer w.logger.Debug(ctx, "worker stopped", logger.String("worker", w.name))

	edits := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-edits:
			if !ok {
				return
			}
			w.onResult(ctx, w.apply(ctx, e))
		}
	}
}

// Done is closed when Run returns.
func (w *Applier) Done() <-chan struct{} { return w.done }

// Shutdown stops the worker and waits for Run to return.
func (w *Applier) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Applier) apply(ctx context.Context, e model.Edit) Result {
	ctx = logger.WithContext(ctx, logger.String("edit_id", e.ID), logger.String("kind", string(e.Kind)))
	start := time.Now()
	v, err := w.store.Apply(ctx, e.Apply)
	res := Result{EditID: e.ID, Kind: e.Kind, Version: v.Version, Err: err}

	if err != nil {
		reason := rejectReason(err)
		metrics.RecordEditRejected(string(e.Kind), reason)
		metrics.RecordErrorByComponent("worker", reason)
		w.logger.Warn(ctx, "edit rejected", logger.String("reason", reason), logger.Error(err))
		return res
	}

	elapsed := time.Since(start)
	metrics.RecordEditApplied(string(e.Kind), float64(elapsed.Microseconds())/1000)
	w.logger.Debug(ctx, "edit applied", logger.Uint64("version", v.Version), logger.Duration("took", elapsed))
	return res
}

var reasons = []struct {
	err    error
	reason string
}{
	{model.ErrUnknownGroup, "unknown_group"},
	{model.ErrFixtureNotFound, "fixture_not_found"},
	{model.ErrInvalidSet, "invalid_set"},
	{model.ErrInvalidSide, "invalid_side"},
	{model.ErrEmptyParticipant, "empty_participant"},
	{model.ErrDuplicateParticipant, "duplicate_participant"},
	{model.ErrParticipantNotFound, "participant_not_found"},
	{model.ErrUnknownEdit, "unknown_edit"},
	{bracket.ErrInvalidKey, "invalid_key"},
	{context.Canceled, "cancelled"},
}

func rejectReason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}
