package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/standings"
	"github.com/okian/birdie/internal/domain/tournament"
)

// ReadHandler serves the derived tournament state.
type ReadHandler struct {
	deps Dependencies
}

// NewReadHandler creates a new read handler.
func NewReadHandler(deps Dependencies) *ReadHandler {
	return &ReadHandler{deps: deps}
}

type viewResponse struct {
	Version uint64 `json:"version"`
	tournament.View
}

type standingsResponse struct {
	Group    string          `json:"group"`
	Complete bool            `json:"complete"`
	Rows     []standings.Row `json:"rows"`
}

type fixturesResponse struct {
	Group    string                   `json:"group"`
	Fixtures []tournament.FixtureView `json:"fixtures"`
}

type bracketResponse struct {
	Ready bool `json:"ready"`
	bracket.Bracket
}

type snapshotResponse struct {
	Version  uint64         `json:"version"`
	Snapshot model.Snapshot `json:"snapshot"`
}

// view loads the current view, writing the failure response itself.
func (h *ReadHandler) view(w http.ResponseWriter, r *http.Request, op string) (tournament.View, uint64, bool) {
	if !allow(w, r, http.MethodGet) {
		return tournament.View{}, 0, false
	}
	v, version, err := h.deps.View(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return tournament.View{}, 0, false
	}
	return v, version, true
}

// groups returns the groups selected by the optional ?group= query.
func groups(v tournament.View, r *http.Request) ([]tournament.GroupView, error) {
	key := strings.TrimSpace(r.URL.Query().Get("group"))
	if key == "" {
		return v.Groups, nil
	}
	g, ok := v.Group(key)
	if !ok {
		return nil, fmt.Errorf("%w: group %q", ErrNotFound, key)
	}
	return []tournament.GroupView{g}, nil
}

// HandleView handles GET /api/v1/view requests.
func (h *ReadHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	v, version, ok := h.view(w, r, "api.view")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{Version: version, View: v})
}

// HandleStandings handles GET /api/v1/standings[?group=A] requests.
func (h *ReadHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.standings"
	v, _, ok := h.view(w, r, op)
	if !ok {
		return
	}
	gs, err := groups(v, r)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	out := make([]standingsResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, standingsResponse{Group: g.Key, Complete: g.Complete, Rows: g.Standings})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleFixtures handles GET /api/v1/fixtures[?group=A] requests.
func (h *ReadHandler) HandleFixtures(w http.ResponseWriter, r *http.Request) {
	const op = "api.fixtures"
	v, _, ok := h.view(w, r, op)
	if !ok {
		return
	}
	gs, err := groups(v, r)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	out := make([]fixturesResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, fixturesResponse{Group: g.Key, Fixtures: g.Fixtures})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleBracket handles GET /api/v1/bracket requests.
func (h *ReadHandler) HandleBracket(w http.ResponseWriter, r *http.Request) {
	v, _, ok := h.view(w, r, "api.bracket")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bracketResponse{Ready: v.Ready, Bracket: v.Bracket})
}

// HandlePodium handles GET /api/v1/podium requests.
func (h *ReadHandler) HandlePodium(w http.ResponseWriter, r *http.Request) {
	v, _, ok := h.view(w, r, "api.podium")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Bracket.Podium)
}

// HandleStats handles GET /api/v1/stats requests.
func (h *ReadHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	v, _, ok := h.view(w, r, "api.tournament_stats")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v.Stats)
}

// HandleSnapshot handles GET /api/v1/snapshot requests.
func (h *ReadHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	cur, err := h.deps.Snapshot(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.snapshot", err))
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Version: cur.Version, Snapshot: cur.Snapshot})
}

// HandleProfile handles GET /api/v1/profile/{name} requests.
func (h *ReadHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile"
	if !allow(w, r, http.MethodGet) {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, prefix+"/profile/")
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing participant name")))
		return
	}
	p, err := h.deps.Profile(r.Context(), name)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if p.Matches == 0 && !h.known(r, name) {
		writeFailure(w, fmt.Errorf("%s: %w: participant %q", op, ErrNotFound, name))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// known reports whether name is on any roster.
func (h *ReadHandler) known(r *http.Request, name string) bool {
	cur, err := h.deps.Snapshot(r.Context())
	if err != nil {
		return false
	}
	for _, g := range cur.Snapshot.Groups {
		for _, p := range g.Participants {
			if p == name {
				return true
			}
		}
	}
	return false
}
