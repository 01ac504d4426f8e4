package grading

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the dynamic type of a submitted or stored answer.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
)

// Value is the tagged union an answer is converted to immediately after
// ingestion. Clients submit answers as JSON strings, numbers or booleans;
// everything downstream works on Value so the comparison logic stays
// exhaustive instead of reflecting over interface{}.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }

// FromAny converts a decoded JSON primitive into a Value. Integers show up
// when callers build answers programmatically; encoding/json only ever
// produces float64 for numbers.
func FromAny(raw interface{}) (Value, bool) {
	switch t := raw.(type) {
	case string:
		return String(t), true
	case bool:
		return Bool(t), true
	case float64:
		return Number(t), true
	case float32:
		return Number(float64(t)), true
	case int:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case uint:
		return Number(float64(t)), true
	default:
		return Value{}, false
	}
}

// Answers maps stringified question index to the submitted value. Sparse:
// an absent index means the question was left unanswered.
type Answers map[string]Value

// ParseAnswers validates a raw decoded submission. The only contract
// enforced here is "mapping of primitives"; per-key shape is the grader's
// problem and never an error.
func ParseAnswers(raw map[string]interface{}) (Answers, error) {
	out := make(Answers, len(raw))
	for k, v := range raw {
		val, ok := FromAny(v)
		if !ok {
			return nil, fmt.Errorf("answer %q: value must be a string, number or boolean", k)
		}
		out[k] = val
	}
	return out, nil
}

// normalize maps booleans onto their canonical string form so that a
// boolean submission and a stored "true"/"false" string compare equal.
func normalize(v Value) Value {
	if v.kind == KindBool {
		if v.b {
			return String("true")
		}
		return String("false")
	}
	return v
}

// boolString reports whether v is a string reading "true" or "false" once
// trimmed and lowercased, returning the canonical form.
func boolString(v Value) (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	s := strings.ToLower(strings.TrimSpace(v.str))
	if s == "true" || s == "false" {
		return s, true
	}
	return "", false
}

// asNumber attempts numeric coercion. Strings parse through
// strconv.ParseFloat after trimming; failure is reported, never raised.
func asNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) {
			return 0, false
		}
		return v.num, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// asString renders the value for the fallback comparison.
func (v Value) asString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	}
	return ""
}
