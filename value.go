package vizpipe

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind tells which of the three cell types a Value holds.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// Value is a single table cell. The zero Value is missing.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Missing is the missing cell value.
var Missing = Value{}

func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// Num builds a numeric cell; NaN is stored as missing.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Missing
	}

	return Value{kind: KindNumber, num: f}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float returns the numeric content and whether v is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the string content and whether v is a string.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == KindString
}

// Equal compares numbers by value and strings by content.
// Two missing values are equal to each other and to nothing else.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	default:
		return true
	}
}

// Any converts v into the plain Go value used by expression evaluators:
// string, float64 or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return "<missing>"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// key encodes v so that two values map to the same key
// exactly when Equal reports true.
func (v Value) key() string {
	switch v.kind {
	case KindString:
		return "s" + strconv.Quote(v.str)
	case KindNumber:
		n := v.num
		if n == 0 {
			// Collapses -0 into 0
			n = 0
		}
		return "n" + strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return "m"
	}
}
