// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/birdie/internal/adapters/mq/queue"
	"github.com/okian/birdie/internal/adapters/repository"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/stats"
	"github.com/okian/birdie/internal/domain/tournament"
)

// Route prefix for the JSON API.
const prefix = "/api/v1"

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Submit queues an edit for the applier and returns its id.
	Submit(ctx context.Context, e model.Edit) (string, error)
	EditStatus(ctx context.Context, id string) (model.EditStatus, error)

	// View returns the derived state and the snapshot version it was
	// derived from.
	View(ctx context.Context) (tournament.View, uint64, error)
	Snapshot(ctx context.Context) (repository.Versioned, error)
	Profile(ctx context.Context, name string) (stats.Profile, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	readHandler   *ReadHandler
	editsHandler  *EditsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		readHandler:   NewReadHandler(deps),
		editsHandler:  NewEditsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc(prefix+"/view", MetricsMiddleware(s.readHandler.HandleView, "view"))
	mux.HandleFunc(prefix+"/standings", MetricsMiddleware(s.readHandler.HandleStandings, "standings"))
	mux.HandleFunc(prefix+"/fixtures", MetricsMiddleware(s.readHandler.HandleFixtures, "fixtures"))
	mux.HandleFunc(prefix+"/bracket", MetricsMiddleware(s.readHandler.HandleBracket, "bracket"))
	mux.HandleFunc(prefix+"/podium", MetricsMiddleware(s.readHandler.HandlePodium, "podium"))
	mux.HandleFunc(prefix+"/stats", MetricsMiddleware(s.readHandler.HandleStats, "tournament_stats"))
	mux.HandleFunc(prefix+"/snapshot", MetricsMiddleware(s.readHandler.HandleSnapshot, "snapshot"))
	mux.HandleFunc(prefix+"/profile/", MetricsMiddleware(s.readHandler.HandleProfile, "profile"))

	mux.HandleFunc(prefix+"/scores", MetricsMiddleware(s.editsHandler.HandleFixtureScore, "scores"))
	mux.HandleFunc(prefix+"/knockout/scores", MetricsMiddleware(s.editsHandler.HandleKnockoutScore, "knockout_scores"))
	mux.HandleFunc(prefix+"/knockout/reset", MetricsMiddleware(s.editsHandler.HandleKnockoutReset, "knockout_reset"))
	mux.HandleFunc(prefix+"/participants", MetricsMiddleware(s.editsHandler.HandleParticipants, "participants"))
	mux.HandleFunc(prefix+"/edits/", MetricsMiddleware(s.editsHandler.HandleEditStatus, "edits"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an upstream error onto a status code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBackpressure), errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, ErrUnavailable), errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return false
	}
	return true
}
