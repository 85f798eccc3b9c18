package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindString
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is the tagged variant stored in state: a string (text, color), a
// number (number, range) or a boolean (switch).
type Value struct {
	kind ValueKind
	str  string
	num  float64
	flag bool
}

// String builds a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number builds a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool builds a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind reports the variant.
func (v Value) Kind() ValueKind { return v.kind }

// IsValid reports whether the value holds a variant.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload; zero for other kinds.
func (v Value) Num() float64 { return v.num }

// Flag returns the boolean payload; false for other kinds.
func (v Value) Flag() bool { return v.flag }

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
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
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// MarshalJSON writes the payload as its natural JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML writes the payload as its natural YAML type.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// ValueFor coerces a decoded document value (JSON or YAML) into the kind
// required by the field type. A nil input yields the type's zero value.
func ValueFor(t FieldType, raw any) (Value, error) {
	if raw == nil {
		return t.Zero(), nil
	}
	switch t.ValueKind() {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("default must be a string, got %T", raw)
		}
		return String(s), nil
	case KindNumber:
		switch n := raw.(type) {
		case float64:
			return Number(n), nil
		case float32:
			return Number(float64(n)), nil
		case int:
			return Number(float64(n)), nil
		case int64:
			return Number(float64(n)), nil
		case uint64:
			return Number(float64(n)), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return Value{}, fmt.Errorf("default must be a number: %w", err)
			}
			return Number(f), nil
		default:
			return Value{}, fmt.Errorf("default must be a number, got %T", raw)
		}
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("default must be a boolean, got %T", raw)
		}
		return Bool(b), nil
	default:
		return Value{}, fmt.Errorf("unsupported field type %q", t)
	}
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}
