// Package repository holds the current tournament snapshot.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/pkg/logger"
	"github.com/okian/birdie/pkg/metrics"
)

// Versioned is a snapshot together with its version. Version 1 is the
// initial snapshot; every successful mutation increments it.
type Versioned struct {
	Version   uint64
	Snapshot  model.Snapshot
	UpdatedAt time.Time
}

// Mutation derives a new snapshot from the current one.
type Mutation func(model.Snapshot) (model.Snapshot, error)

// Store provides read/write access to the tournament state.
type Store interface {
	// Current returns the latest published snapshot. It never blocks on
	// writers.
	Current(ctx context.Context) Versioned

	// Apply runs fn against the current snapshot and publishes the result.
	// Mutations are serialized. When fn fails nothing is published and the
	// current version is returned with the error.
	Apply(ctx context.Context, fn Mutation) (Versioned, error)
}

// MemoryStore keeps the snapshot in memory. Readers load an atomic pointer;
// writers hold mu while computing the next snapshot.
type MemoryStore struct {
	mu      sync.Mutex
	current atomic.Pointer[Versioned]
	now     func() time.Time
	logger  logger.Logger // optional
}

// NewMemoryStore returns a store whose first version is initial.
func NewMemoryStore(initial model.Snapshot, opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.publish(context.Background(), &Versioned{Version: 1, Snapshot: initial, UpdatedAt: s.now()})
	return s
}

func (s *MemoryStore) Current(ctx context.Context) Versioned {
	return *s.current.Load()
}

func (s *MemoryStore) Apply(ctx context.Context, fn Mutation) (Versioned, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if err := ctx.Err(); err != nil {
		return *cur, err
	}
	next, err := fn(cur.Snapshot)
	if err != nil {
		return *cur, err
	}
	v := &Versioned{Version: cur.Version + 1, Snapshot: next, UpdatedAt: s.now()}
	s.publish(ctx, v)
	return *v, nil
}

func (s *MemoryStore) publish(ctx context.Context, v *Versioned) {
	s.current.Store(v)
	n := 0
	for _, g := range v.Snapshot.Groups {
		n += len(g.Participants)
	}
	metrics.UpdateSnapshotVersion(v.Version)
	metrics.UpdateParticipants(n)
	if s.logger != nil {
		s.logger.Debug(ctx, "snapshot published",
			logger.Uint64("version", v.Version),
			logger.Int("groups", len(v.Snapshot.Groups)),
			logger.Int("participants", n),
		)
	}
}
