package bracket

import (
	"fmt"
	"strconv"

	"github.com/okian/birdie/internal/domain/score"
)

// SlotID names a knockout bracket position.
type SlotID string

const (
	Semi1 SlotID = "semi1"
	Semi2 SlotID = "semi2"
	Final SlotID = "final"
	Third SlotID = "third"

	ConsolationSemi1 SlotID = "semi1_2"
	ConsolationSemi2 SlotID = "semi2_2"
	ConsolationFinal SlotID = "final_2"
)

// MainSlots lists the main draw in play order.
var MainSlots = []SlotID{Semi1, Semi2, Final, Third}

// ConsolationSlots lists the consolation draw in play order.
var ConsolationSlots = []SlotID{ConsolationSemi1, ConsolationSemi2, ConsolationFinal}

// Known reports whether id is one of the defined slots.
func (id SlotID) Known() bool {
	switch id {
	case Semi1, Semi2, Final, Third, ConsolationSemi1, ConsolationSemi2, ConsolationFinal:
		return true
	}
	return false
}

// Key addresses one side of one set of one slot. Set and Side are 1-based.
//
// The stored form concatenates the three parts with no separator, e.g.
// "semi1" + "2" + "1" = "semi121" for set 2, side 1 of semi1.
type Key struct {
	Slot SlotID
	Set  int
	Side int
}

// NewKey validates and builds a key.
func NewKey(slot SlotID, set, side int) (Key, error) {
	k := Key{Slot: slot, Set: set, Side: side}
	if !k.valid() {
		return Key{}, fmt.Errorf("%w: slot=%q set=%d side=%d", ErrInvalidKey, slot, set, side)
	}
	return k, nil
}

func (k Key) valid() bool {
	return k.Slot.Known() && k.Set >= 1 && k.Set <= score.SetsPerMatch && k.Side >= 1 && k.Side <= 2
}

// String returns the stored wire form.
func (k Key) String() string {
	return string(k.Slot) + strconv.Itoa(k.Set) + strconv.Itoa(k.Side)
}

// ParseKey decodes the stored wire form. The last two characters are the
// set and side digits; everything before them must be a known slot id.
func ParseKey(s string) (Key, error) {
	if len(s) < 3 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	set := int(s[len(s)-2] - '0')
	side := int(s[len(s)-1] - '0')
	k := Key{Slot: SlotID(s[:len(s)-2]), Set: set, Side: side}
	if !k.valid() {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return k, nil
}

// MarshalText lets Key serve as a JSON object key in its wire form.
func (k Key) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidKey, k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses the wire form.
func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Scores holds entered knockout scores. It is treated as immutable: With
// returns a copy.
type Scores map[Key]score.Value

// FromWire decodes a stored score map. Entries whose key does not parse are
// dropped and reported in skipped; values go through score.Normalize.
func FromWire(raw map[string]any) (s Scores, skipped []string) {
	s = make(Scores, len(raw))
	for ks, v := range raw {
		k, err := ParseKey(ks)
		if err != nil {
			skipped = append(skipped, ks)
			continue
		}
		s[k] = score.Normalize(v)
	}
	return s, skipped
}

// Wire returns the map keyed by stored wire strings.
func (s Scores) Wire() map[string]score.Value {
	out := make(map[string]score.Value, len(s))
	for k, v := range s {
		out[k.String()] = v
	}
	return out
}

// Sets gathers a slot's three sets.
func (s Scores) Sets(id SlotID) score.Sets {
	var out score.Sets
	for set := 1; set <= score.SetsPerMatch; set++ {
		out[set-1] = score.Set{
			s[Key{Slot: id, Set: set, Side: 1}],
			s[Key{Slot: id, Set: set, Side: 2}],
		}
	}
	return out
}

// With returns a copy of s with k set to v.
func (s Scores) With(k Key, v score.Value) Scores {
	out := make(Scores, len(s)+1)
	for kk, vv := range s {
		out[kk] = vv
	}
	out[k] = v
	return out
}

// Clone returns a copy of s.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
