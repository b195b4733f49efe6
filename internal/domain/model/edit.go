package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EditKind names a mutation of a snapshot.
type EditKind string

const (
	EditFixtureScore      EditKind = "fixture_score"
	EditKnockoutScore     EditKind = "knockout_score"
	EditAddParticipant    EditKind = "add_participant"
	EditRemoveParticipant EditKind = "remove_participant"
	EditMoveParticipant   EditKind = "move_participant"
	EditResetKnockout     EditKind = "reset_knockout"
)

// Edit is a queued change to the tournament state. Only the fields used by
// its Kind are read.
type Edit struct {
	ID   string    `json:"id"`
	Kind EditKind  `json:"kind"`
	At   time.Time `json:"at"`

	Group       string `json:"group,omitempty"`
	Target      string `json:"target,omitempty"` // destination group of a move
	Participant string `json:"participant,omitempty"`

	// Fixture is the 0-based position in the group's fixture list; Set and
	// Side are 1-based.
	Fixture int    `json:"fixture"`
	Set     int    `json:"set,omitempty"`
	Side    int    `json:"side,omitempty"`
	Key     string `json:"key,omitempty"` // knockout wire key
	Value   any    `json:"value,omitempty"`
}

// NewEdit returns an edit of the given kind with a fresh id and timestamp.
func NewEdit(kind EditKind) Edit {
	return Edit{ID: uuid.NewString(), Kind: kind, At: time.Now()}
}

// Apply returns s with the edit applied. On error s is returned unchanged.
func (e Edit) Apply(s Snapshot) (Snapshot, error) {
	switch e.Kind {
	case EditFixtureScore:
		return s.WithFixtureScore(e.Group, e.Fixture, e.Set, e.Side, e.Value)
	case EditKnockoutScore:
		return s.WithKnockoutScore(e.Key, e.Value)
	case EditAddParticipant:
		return s.WithParticipantAdded(e.Group, e.Participant)
	case EditRemoveParticipant:
		return s.WithParticipantRemoved(e.Group, e.Participant)
	case EditMoveParticipant:
		return s.WithParticipantMoved(e.Group, e.Target, e.Participant)
	case EditResetKnockout:
		return s.WithKnockoutReset(), nil
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownEdit, e.Kind)
	}
}
