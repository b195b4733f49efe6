// Package service wires the snapshot store, the edit queue, the applier
// worker and the view cache into the operations the HTTP API needs.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/birdie/internal/adapters/mq/queue"
	"github.com/okian/birdie/internal/adapters/mq/worker"
	"github.com/okian/birdie/internal/adapters/repository"
	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/fixture"
	"github.com/okian/birdie/internal/domain/memo"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/readiness"
	"github.com/okian/birdie/internal/domain/stats"
	"github.com/okian/birdie/internal/domain/tournament"
	"github.com/okian/birdie/pkg/logger"
	"github.com/okian/birdie/pkg/metrics"
)

const (
	recentEdits     = 512
	shutdownTimeout = 5 * time.Second
)

// Service implements the API dependencies for the tournament.
type Service struct {
	mu sync.RWMutex

	store   *repository.MemoryStore
	queue   *queue.InMemoryQueue
	applier *worker.Applier
	views   memo.Cache
	results *resultLog

	settings  tournament.Settings
	rosters   []model.Roster
	initial   *model.Snapshot
	queueSize int
	memoSize  int

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Call Start before use.
func New(opts ...Option) *Service {
	s := &Service{
		settings:  tournament.DefaultSettings(),
		queueSize: 1024,
		memoSize:  64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components and starts the applier.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	initial := model.NewSnapshot(s.rosters...)
	if s.initial != nil {
		initial = *s.initial
	}
	s.store = repository.NewMemoryStore(initial, repository.WithLogger(s.logger.Named("store")))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.views = memo.New(memo.WithMaxSize(s.memoSize))
	s.results = newResultLog(recentEdits)
	s.applier = worker.NewApplier(s.queue, s.store,
		worker.WithName("edits"),
		worker.WithLogger(s.logger.Named("applier")),
		worker.WithResultHandler(s.recordResult),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.applier.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "tournament service started",
		logger.String("format", string(s.settings.Format)),
		logger.Bool("consolation", s.settings.Consolation),
		logger.Int("groups", len(initial.Groups)),
		logger.Int("queue_size", s.queueSize),
		logger.Int("memo_size", s.memoSize),
	)
	return nil
}

// Stop closes the queue and lets the applier drain pending edits. An applier
// still busy after shutdownTimeout is told to stop after its current edit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping tournament service...")

	_ = s.queue.Close()
	select {
	case <-s.applier.Done():
	case <-time.After(shutdownTimeout):
		s.logger.Warn(ctx, "applier did not drain in time", logger.Int("pending", s.queue.Len(ctx)))
		sctx, cancel := context.WithTimeout(ctx, time.Second)
		if err := s.applier.Shutdown(sctx); err != nil {
			s.logger.Error(ctx, "applier shutdown failed", logger.Error(err))
		}
		cancel()
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "tournament service stopped")
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Submit queues an edit and returns its id. The edit is applied
// asynchronously; EditStatus reports the outcome.
func (s *Service) Submit(ctx context.Context, e model.Edit) (string, error) {
	if err := s.running(); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.results.put(model.EditStatus{ID: e.ID, Kind: e.Kind, State: model.EditPending})
	if err := s.queue.Enqueue(ctx, e); err != nil {
		s.results.put(model.EditStatus{ID: e.ID, Kind: e.Kind, State: model.EditRejected, Error: err.Error()})
		return "", fmt.Errorf("submit %s: %w", e.Kind, err)
	}
	s.logger.Debug(ctx, "edit queued", logger.String("edit_id", e.ID), logger.String("kind", string(e.Kind)))
	return e.ID, nil
}

func (s *Service) recordResult(ctx context.Context, r worker.Result) {
	st := model.EditStatus{ID: r.EditID, Kind: r.Kind, State: model.EditApplied, Version: r.Version}
	if r.Err != nil {
		st.State = model.EditRejected
		st.Error = r.Err.Error()
	}
	s.results.put(st)
}

// EditStatus returns the outcome of a recently submitted edit.
func (s *Service) EditStatus(ctx context.Context, id string) (model.EditStatus, error) {
	if err := s.running(); err != nil {
		return model.EditStatus{}, err
	}
	st, ok := s.results.get(id)
	if !ok {
		return model.EditStatus{}, fmt.Errorf("%w: %s", model.ErrEditNotFound, id)
	}
	return st, nil
}

// Snapshot returns the current input state.
func (s *Service) Snapshot(ctx context.Context) (repository.Versioned, error) {
	if err := s.running(); err != nil {
		return repository.Versioned{}, err
	}
	return s.store.Current(ctx), nil
}

// Settings returns the derivation settings.
func (s *Service) Settings() tournament.Settings {
	return s.settings
}

// View derives the current snapshot, serving repeated reads of unchanged
// state from the cache.
func (s *Service) View(ctx context.Context) (tournament.View, uint64, error) {
	if err := s.running(); err != nil {
		return tournament.View{}, 0, err
	}
	cur := s.store.Current(ctx)

	fp, err := cur.Snapshot.Fingerprint()
	if err != nil {
		s.logger.Warn(ctx, "fingerprint failed; deriving without cache", logger.Error(err))
		return s.derive(ctx, cur.Snapshot), cur.Version, nil
	}
	key := memo.Key{Fingerprint: fp, Settings: s.settings}
	if v, ok := s.views.Get(ctx, key); ok {
		metrics.RecordMemoHit()
		return v, cur.Version, nil
	}
	metrics.RecordMemoMiss()

	v := s.derive(ctx, cur.Snapshot)
	s.views.Put(ctx, key, v)
	metrics.UpdateMemoSize(s.views.Size())
	return v, cur.Version, nil
}

func (s *Service) derive(ctx context.Context, snap model.Snapshot) tournament.View {
	start := time.Now()
	v := tournament.Derive(snap, s.settings)
	metrics.RecordDerivation(float64(time.Since(start).Microseconds()) / 1000)

	n := v.Settings.Format.Groups()
	var feeding [][]fixture.Fixture
	for i, g := range snap.Groups {
		if i >= n {
			break
		}
		feeding = append(feeding, g.Fixtures)
	}
	metrics.UpdatePendingFixtures(readiness.Pending(feeding))
	metrics.UpdateKnockoutReady(v.Ready)
	metrics.UpdatePodiumResolved(resolvedPlaces(v.Bracket.Podium))

	s.logger.Debug(ctx, "view derived",
		logger.Bool("ready", v.Ready),
		logger.Int("groups", len(v.Groups)),
	)
	return v
}

func resolvedPlaces(p bracket.Podium) int {
	n := 0
	for _, name := range []string{p.Gold, p.Silver, p.Bronze, p.Fourth} {
		if name != bracket.Unresolved {
			n++
		}
	}
	return n
}

// Profile returns a participant's group-stage record.
func (s *Service) Profile(ctx context.Context, name string) (stats.Profile, error) {
	if err := s.running(); err != nil {
		return stats.Profile{}, err
	}
	return tournament.Profile(s.store.Current(ctx).Snapshot, name), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":     s.started,
		"format":      s.settings.Format,
		"consolation": s.settings.Consolation,
		"queueSize":   s.queueSize,
		"memoSize":    s.memoSize,
	}
	if s.started {
		ctx := context.Background()
		out["queueLength"] = s.queue.Len(ctx)
		out["cachedViews"] = s.views.Size()
		out["version"] = s.store.Current(ctx).Version
	}
	return out
}
