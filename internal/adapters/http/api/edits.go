package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/score"
)

// Participant actions accepted by POST /api/v1/participants.
const (
	actionAdd    = "add"
	actionRemove = "remove"
	actionMove   = "move"
)

// EditsHandler accepts edits and reports their outcome. Edits are applied
// asynchronously in submission order; a 202 only means the edit was queued.
type EditsHandler struct {
	deps Dependencies
}

// NewEditsHandler creates a new edits handler.
func NewEditsHandler(deps Dependencies) *EditsHandler {
	return &EditsHandler{deps: deps}
}

// scoreRequest mirrors the body of POST /api/v1/scores. Value may be a
// number, a string or null; null clears the cell.
type scoreRequest struct {
	Group   string `json:"group"`
	Fixture *int   `json:"fixture"`
	Set     int    `json:"set"`
	Side    int    `json:"side"`
	Value   any    `json:"value"`
}

func (s scoreRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Group) == "":
		return errors.New("missing group")
	case s.Fixture == nil:
		return errors.New("missing fixture")
	case *s.Fixture < 0:
		return errors.New("fixture must be >= 0")
	case s.Set < 1 || s.Set > score.SetsPerMatch:
		return fmt.Errorf("set must be between 1 and %d", score.SetsPerMatch)
	case s.Side != 1 && s.Side != 2:
		return errors.New("side must be 1 or 2")
	}
	return nil
}

type knockoutScoreRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type participantRequest struct {
	Action string `json:"action"`
	Group  string `json:"group"`
	Target string `json:"target,omitempty"`
	Name   string `json:"name"`
}

func (p participantRequest) validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(p.Group) == "":
		return errors.New("missing group")
	}
	switch p.Action {
	case actionAdd, actionRemove:
	case actionMove:
		if strings.TrimSpace(p.Target) == "" {
			return errors.New("missing target")
		}
	default:
		return fmt.Errorf("unknown action %q", p.Action)
	}
	return nil
}

func (p participantRequest) edit() model.Edit {
	var e model.Edit
	switch p.Action {
	case actionAdd:
		e = model.NewEdit(model.EditAddParticipant)
	case actionRemove:
		e = model.NewEdit(model.EditRemoveParticipant)
	default:
		e = model.NewEdit(model.EditMoveParticipant)
		e.Target = p.Target
	}
	e.Group, e.Participant = p.Group, p.Name
	return e
}

type ackResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *EditsHandler) submit(w http.ResponseWriter, r *http.Request, op string, e model.Edit) {
	id, err := h.deps.Submit(r.Context(), e)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: id})
}

// HandleFixtureScore handles POST /api/v1/scores requests.
func (h *EditsHandler) HandleFixtureScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req scoreRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	e := model.NewEdit(model.EditFixtureScore)
	e.Group, e.Fixture, e.Set, e.Side, e.Value = req.Group, *req.Fixture, req.Set, req.Side, req.Value
	h.submit(w, r, op, e)
}

// HandleKnockoutScore handles POST /api/v1/knockout/scores requests.
func (h *EditsHandler) HandleKnockoutScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_knockout_score"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req knockoutScoreRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if _, err := bracket.ParseKey(req.Key); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	e := model.NewEdit(model.EditKnockoutScore)
	e.Key, e.Value = req.Key, req.Value
	h.submit(w, r, op, e)
}

// HandleKnockoutReset handles POST /api/v1/knockout/reset requests.
func (h *EditsHandler) HandleKnockoutReset(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	h.submit(w, r, "api.reset_knockout", model.NewEdit(model.EditResetKnockout))
}

// HandleParticipants handles POST /api/v1/participants requests.
func (h *EditsHandler) HandleParticipants(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_participant"
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req participantRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.submit(w, r, op, req.edit())
}

// HandleEditStatus handles GET /api/v1/edits/{id} requests.
func (h *EditsHandler) HandleEditStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.edit_status"
	if !allow(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, prefix+"/edits/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing edit id")))
		return
	}
	st, err := h.deps.EditStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrEditNotFound) {
			err = WrapKind(op, ErrNotFound, err)
		}
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
