// Package score normalizes raw score input into an integer-or-unset value and
// defines the fixed three-set score layout shared by group fixtures and
// knockout slots.
package score

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/vmihailenco/msgpack/v5"
)

// SetsPerMatch is the number of set slots every match carries.
const SetsPerMatch = 3

// Value is a single side's score in a single set. The zero value is unset.
type Value struct {
	n     int
	valid bool
}

// Of returns a set Value holding n.
func Of(n int) Value { return Value{n: n, valid: true} }

// Unset returns the unset Value.
func Unset() Value { return Value{} }

// IsSet reports whether a score was entered.
func (v Value) IsSet() bool { return v.valid }

// Int returns the score and whether it is set.
func (v Value) Int() (int, bool) { return v.n, v.valid }

// String renders the value for logs; unset renders as "-".
func (v Value) String() string {
	if !v.valid {
		return "-"
	}
	return strconv.Itoa(v.n)
}

// Normalize converts raw input into a Value. Strings are parsed leniently:
// leading whitespace is skipped, an optional sign and the leading run of
// digits are read, and anything after them is ignored ("21abc" -> 21,
// "3.7" -> 3). Input without a leading integer yields Unset. Negative and
// zero values are kept as-is.
func Normalize(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Unset()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Unset()
		}
		return *x
	case *int:
		if x == nil {
			return Unset()
		}
		return Of(*x)
	case int:
		return Of(x)
	case int8:
		return Of(int(x))
	case int16:
		return Of(int(x))
	case int32:
		return Of(int(x))
	case int64:
		return fromInt64(x)
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return Of(int(x))
	case uint16:
		return Of(int(x))
	case uint32:
		return fromUint64(uint64(x))
	case uint64:
		return fromUint64(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		return parseLeadingInt(string(x))
	case string:
		return parseLeadingInt(x)
	case []byte:
		return parseLeadingInt(string(x))
	default:
		return Unset()
	}
}

func fromInt64(x int64) Value {
	if x > math.MaxInt || x < math.MinInt {
		return Unset()
	}
	return Of(int(x))
}

func fromUint64(x uint64) Value {
	if x > math.MaxInt {
		return Unset()
	}
	return Of(int(x))
}

func fromFloat(x float64) Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Unset()
	}
	t := math.Trunc(x)
	if t >= math.MaxInt || t < math.MinInt {
		return Unset()
	}
	return Of(int(t))
}

func parseLeadingInt(s string) Value {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return Unset()
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return Unset()
	}
	return Of(n)
}

// MarshalJSON encodes unset as null and set values as JSON numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(v.n)), nil
}

// UnmarshalJSON accepts null, numbers and numeric strings. Anything that
// does not normalize to an integer becomes unset rather than an error.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = parseLeadingInt(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = Unset()
		return nil
	}
	*v = parseLeadingInt(string(data))
	return nil
}

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// EncodeMsgpack writes nil for unset and an integer otherwise.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if !v.valid {
		return enc.EncodeNil()
	}
	return enc.EncodeInt(int64(v.n))
}

// DecodeMsgpack reads any msgpack scalar through Normalize.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	*v = Normalize(raw)
	return nil
}
