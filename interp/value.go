// Package interp evaluates the compile-time constant subset of HaloScript.
package interp

import (
	"math"
	"strconv"
	"strings"
)

// Value is the result of evaluating an expression: Void, Atom, Long,
// Short, Float or Bool. A nil Value means the expression is not a
// compile-time constant.
type Value interface {
	isValue()
}

// Void is the result of an expression that produces nothing.
type Void struct{}

// Atom is literal source text whose type is decided by how it is used.
type Atom string

type (
	Long  int64
	Short int16
	Float float32
	Bool  bool
)

func (Void) isValue() {}
func (Atom) isValue() {}
func (Long) isValue() {}
func (Short) isValue() {}
func (Float) isValue() {}
func (Bool) isValue() {}

func parseLong(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func parseShort(s string) (int16, bool) {
	n, err := strconv.ParseInt(s, 10, 16)
	return int16(n), err == nil
}

// parseFloat only accepts decimal numbers, so identifiers such as "inf" or
// "nan" stay strings.
func parseFloat(s string) (float32, bool) {
	if s == "" {
		return 0, false
	}
	switch c := s[0]; {
	case c >= '0' && c <= '9', c == '-', c == '+', c == '.':
	default:
		return 0, false
	}
	if strings.ContainsAny(s, "xX_pP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err == nil
}

func parseBool(s string) (bool, bool) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	}
	return false, false
}

func floatToLong(f float32) (int64, bool) {
	if math.IsNaN(float64(f)) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func floatToShort(f float32) (int16, bool) {
	if math.IsNaN(float64(f)) || f >= math.MaxInt16+1 || f <= math.MinInt16-1 {
		return 0, false
	}
	return int16(f), true
}

// GetLong coerces v to a long. Atoms are parsed as integers, then as
// floats which are truncated.
func GetLong(v Value) (int64, bool) {
	switch v := v.(type) {
	case Atom:
		if n, ok := parseLong(string(v)); ok {
			return n, true
		}
		if f, ok := parseFloat(string(v)); ok {
			return floatToLong(f)
		}
	case Long:
		return int64(v), true
	case Short:
		return int64(v), true
	case Float:
		return floatToLong(float32(v))
	}
	return 0, false
}

// GetShort coerces v to a short. A whole number out of the short range does
// not coerce.
func GetShort(v Value) (int16, bool) {
	switch v := v.(type) {
	case Atom:
		if n, ok := parseShort(string(v)); ok {
			return n, true
		}
		if _, ok := parseLong(string(v)); ok {
			return 0, false
		}
		if f, ok := parseFloat(string(v)); ok {
			return floatToShort(f)
		}
	case Long:
		if v > math.MaxInt16 || v < math.MinInt16 {
			return 0, false
		}
		return int16(v), true
	case Short:
		return int16(v), true
	case Float:
		return floatToShort(float32(v))
	}
	return 0, false
}

func GetFloat(v Value) (float32, bool) {
	switch v := v.(type) {
	case Atom:
		return parseFloat(string(v))
	case Long:
		return float32(v), true
	case Short:
		return float32(v), true
	case Float:
		return float32(v), true
	}
	return 0, false
}

// GetBoolean treats non-zero numbers as true. Atoms may also spell true or
// false in any case.
func GetBoolean(v Value) (bool, bool) {
	switch v := v.(type) {
	case Atom:
		if n, ok := parseLong(string(v)); ok {
			return n != 0, true
		}
		if f, ok := parseFloat(string(v)); ok {
			return f != 0, true
		}
		return parseBool(string(v))
	case Long:
		return v != 0, true
	case Short:
		return v != 0, true
	case Float:
		return v != 0, true
	case Bool:
		return bool(v), true
	}
	return false, false
}

// GetString renders v as source text. Void has no text.
func GetString(v Value) (string, bool) {
	switch v := v.(type) {
	case Atom:
		return string(v), true
	case Long:
		return strconv.FormatInt(int64(v), 10), true
	case Short:
		return strconv.FormatInt(int64(v), 10), true
	case Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case Bool:
		if v {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

// GetLiteral is GetString for values that are folded back into source.
// Infinities and NaN have no HaloScript spelling, so they stay unfolded.
func GetLiteral(v Value) (string, bool) {
	if f, ok := v.(Float); ok && (math.IsInf(float64(f), 0) || math.IsNaN(float64(f))) {
		return "", false
	}
	return GetString(v)
}

// IsNotString reports whether v can be used as a number or boolean.
func IsNotString(v Value) bool {
	if _, ok := GetFloat(v); ok {
		return true
	}
	_, ok := GetBoolean(v)
	return ok
}

// IsEqual compares a and b the way the runtime's = does. ok is false when
// the comparison cannot be decided at compile time.
func IsEqual(a, b Value) (equal, ok bool) {
	if a == nil || b == nil {
		return false, false
	}
	switch a := a.(type) {
	case Void:
		_, same := b.(Void)
		return same, true
	case Atom:
		switch b := b.(type) {
		case Atom:
			return a == b, true
		case Void:
			return false, true
		}
		return IsEqual(b, a)
	case Long:
		if _, isVoid := b.(Void); isVoid {
			return false, true
		}
		n, ok := GetLong(b)
		return ok && int64(a) == n, ok
	case Short:
		if _, isVoid := b.(Void); isVoid {
			return false, true
		}
		n, ok := GetShort(b)
		return ok && int16(a) == n, ok
	case Float:
		if _, isVoid := b.(Void); isVoid {
			return false, true
		}
		f, ok := GetFloat(b)
		return ok && float32(a) == f, ok
	case Bool:
		return boolEqual(bool(a), b)
	}
	return false, false
}

// boolEqual compares a boolean with another value. Numbers compare against
// 1 and 0, so "5" is not equal to true.
func boolEqual(a bool, b Value) (equal, ok bool) {
	switch b := b.(type) {
	case Void:
		return false, true
	case Bool:
		return a == bool(b), true
	case Atom:
		if v, ok := parseBool(string(b)); ok {
			return a == v, true
		}
	}
	f, ok := GetFloat(b)
	if !ok {
		return false, false
	}
	if a {
		return f == 1, true
	}
	return f == 0, true
}
