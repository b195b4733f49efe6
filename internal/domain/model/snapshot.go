// Package model holds the tournament input state: group rosters, their
// fixtures with entered scores, and knockout scores.
//
// A Snapshot is never mutated after construction. Every With* method returns
// a new Snapshot that shares nothing mutable with the receiver, so readers
// holding an older snapshot always see a consistent state.
package model

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/fixture"
	"github.com/okian/birdie/internal/domain/score"
	"github.com/vmihailenco/msgpack/v5"
)

// Group is one round-robin group. Participant order decides fixture order
// and sides.
type Group struct {
	Key          string            `json:"key" msgpack:"key"`
	Participants []string          `json:"participants" msgpack:"participants"`
	Fixtures     []fixture.Fixture `json:"fixtures" msgpack:"fixtures"`
}

// Roster names a group's participants in order.
type Roster struct {
	Key          string
	Participants []string
}

// Snapshot is the complete input to a derivation.
type Snapshot struct {
	Groups   []Group        `json:"groups"`
	Knockout bracket.Scores `json:"knockout"`
}

// NewSnapshot builds a snapshot with freshly generated, unscored fixtures.
func NewSnapshot(rosters ...Roster) Snapshot {
	s := Snapshot{Groups: make([]Group, 0, len(rosters)), Knockout: bracket.Scores{}}
	for _, r := range rosters {
		p := slices.Clone(r.Participants)
		if p == nil {
			p = []string{}
		}
		s.Groups = append(s.Groups, Group{Key: r.Key, Participants: p, Fixtures: fixture.Generate(p)})
	}
	return s
}

// Group returns the group with the given key.
func (s Snapshot) Group(key string) (Group, bool) {
	i := s.groupIndex(key)
	if i < 0 {
		return Group{}, false
	}
	return s.Groups[i], true
}

func (s Snapshot) groupIndex(key string) int {
	return slices.IndexFunc(s.Groups, func(g Group) bool { return g.Key == key })
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Groups: make([]Group, len(s.Groups)), Knockout: s.Knockout.Clone()}
	for i, g := range s.Groups {
		out.Groups[i] = g.clone()
	}
	return out
}

func (g Group) clone() Group {
	return Group{
		Key:          g.Key,
		Participants: slices.Clone(g.Participants),
		Fixtures:     slices.Clone(g.Fixtures),
	}
}

// withGroup copies s and replaces the group at i. Other groups share their
// backing arrays with s, which is safe because nothing writes to them.
func (s Snapshot) withGroup(i int, g Group) Snapshot {
	out := Snapshot{Groups: slices.Clone(s.Groups), Knockout: s.Knockout}
	out.Groups[i] = g
	return out
}

// WithFixtureScore stores raw as one side of one set of a group fixture.
// index is the fixture's position in the group's list; set and side are
// 1-based. raw goes through score.Normalize, so junk input clears the value
// rather than failing.
func (s Snapshot) WithFixtureScore(group string, index, set, side int, raw any) (Snapshot, error) {
	gi := s.groupIndex(group)
	if gi < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	g := s.Groups[gi]
	if index < 0 || index >= len(g.Fixtures) {
		return s, fmt.Errorf("%w: group %q index %d", ErrFixtureNotFound, group, index)
	}
	if set < 1 || set > score.SetsPerMatch {
		return s, fmt.Errorf("%w: %d", ErrInvalidSet, set)
	}
	if side < 1 || side > 2 {
		return s, fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
	g.Fixtures = slices.Clone(g.Fixtures)
	g.Fixtures[index].Sets[set-1][side-1] = score.Normalize(raw)
	return s.withGroup(gi, g), nil
}

// WithKnockoutScore stores raw under a knockout wire key such as "semi121".
func (s Snapshot) WithKnockoutScore(key string, raw any) (Snapshot, error) {
	k, err := bracket.ParseKey(key)
	if err != nil {
		return s, err
	}
	return Snapshot{Groups: s.Groups, Knockout: s.Knockout.With(k, score.Normalize(raw))}, nil
}

// WithKnockoutReset clears every knockout score. Group data is kept.
func (s Snapshot) WithKnockoutReset() Snapshot {
	return Snapshot{Groups: s.Groups, Knockout: bracket.Scores{}}
}

// WithParticipantAdded appends name to a group and regenerates its
// fixtures. Scores of existing pairs are preserved.
func (s Snapshot) WithParticipantAdded(group, name string) (Snapshot, error) {
	if name == "" {
		return s, ErrEmptyParticipant
	}
	gi := s.groupIndex(group)
	if gi < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	g := s.Groups[gi]
	if slices.Contains(g.Participants, name) {
		return s, fmt.Errorf("%w: %q in %q", ErrDuplicateParticipant, name, group)
	}
	return s.withGroup(gi, g.reroster(append(slices.Clone(g.Participants), name))), nil
}

// WithParticipantRemoved drops name from a group along with every fixture
// it played.
func (s Snapshot) WithParticipantRemoved(group, name string) (Snapshot, error) {
	gi := s.groupIndex(group)
	if gi < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	g := s.Groups[gi]
	pi := slices.Index(g.Participants, name)
	if pi < 0 {
		return s, fmt.Errorf("%w: %q in %q", ErrParticipantNotFound, name, group)
	}
	return s.withGroup(gi, g.reroster(slices.Delete(slices.Clone(g.Participants), pi, pi+1))), nil
}

// WithParticipantMoved moves name from one group to the end of another.
// Its fixtures in the source group are dropped; it starts unscored in the
// destination.
func (s Snapshot) WithParticipantMoved(from, to, name string) (Snapshot, error) {
	if ti := s.groupIndex(to); ti < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownGroup, to)
	} else if slices.Contains(s.Groups[ti].Participants, name) {
		return s, fmt.Errorf("%w: %q in %q", ErrDuplicateParticipant, name, to)
	}
	out, err := s.WithParticipantRemoved(from, name)
	if err != nil {
		return s, err
	}
	return out.WithParticipantAdded(to, name)
}

func (g Group) reroster(participants []string) Group {
	return Group{
		Key:          g.Key,
		Participants: participants,
		Fixtures:     fixture.Regenerate(participants, g.Fixtures),
	}
}

// canonical is the hashed form of a snapshot. Knockout scores are keyed by
// their wire strings so the encoder can sort them.
type canonical struct {
	Groups   []Group                `msgpack:"groups"`
	Knockout map[string]score.Value `msgpack:"knockout"`
}

// Fingerprint hashes the snapshot's content. Equal content always yields the
// same value, regardless of map iteration order or how the snapshot was
// built. A knockout key holding an unset value hashes differently from an
// absent key.
func (s Snapshot) Fingerprint() (uint64, error) {
	d := xxhash.New()
	enc := msgpack.NewEncoder(d)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(canonical{Groups: s.Groups, Knockout: s.Knockout.Wire()}); err != nil {
		return 0, fmt.Errorf("fingerprint: %w", err)
	}
	return d.Sum64(), nil
}
