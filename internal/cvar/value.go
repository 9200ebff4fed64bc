package cvar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the underlying type of a cvar.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. An empty name means string.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string", "str":
		return KindString, nil
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "number":
		return KindFloat, nil
	default:
		return KindString, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Value is a typed cvar value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Kind returns the value's kind
func (v Value) Kind() Kind { return v.kind }

// Bool returns the value as a bool; non-bool kinds report their zero-ness.
func (v Value) Bool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	default:
		return v.s != ""
	}
}

// Int returns the value as an integer, truncating floats.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	case KindBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Float returns the value as a float.
func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	case KindBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// String formats the value the same way Parse accepts it.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Parse converts raw into a value of the given kind.
func Parse(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBool, b: b}, nil
	case KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
		}
		return Value{kind: KindInt, i: i}, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: %q is not a finite number", ErrInvalidValue, raw)
		}
		return Value{kind: KindFloat, f: f}, nil
	case KindString:
		return Value{kind: KindString, s: raw}, nil
	default:
		return Value{}, ErrInvalidKind
	}
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "y", "enable", "enabled":
		return true, nil
	case "off", "no", "n", "disable", "disabled":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
	}
	return b, nil
}
