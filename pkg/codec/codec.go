// Package codec converts raw control values into state values and state
// values into query-string text. Every branch is an exhaustive switch over
// schema.FieldType.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-urlform/pkg/schema"
)

var (
	// ErrInvalidNumber is returned for number/range input that does not parse
	// to a finite value.
	ErrInvalidNumber = errors.New("codec: invalid number")
	// ErrInvalidBool is returned for switch input outside the accepted tokens.
	ErrInvalidBool = errors.New("codec: invalid boolean")
)

// Normalize turns the raw text a control reports into the value stored for
// field. Text and color pass through untouched; number is parsed but never
// clamped; range is parsed, snapped to its step grid and clamped to its
// bounds.
func Normalize(field schema.Field, raw string) (schema.Value, error) {
	switch field.Type {
	case schema.FieldText, schema.FieldColor:
		return schema.String(raw), nil
	case schema.FieldNumber:
		n, err := parseNumber(raw)
		if err != nil {
			return schema.Value{}, fmt.Errorf("%s: %w", field.ID, err)
		}
		return schema.Number(n), nil
	case schema.FieldRange:
		n, err := parseNumber(raw)
		if err != nil {
			return schema.Value{}, fmt.Errorf("%s: %w", field.ID, err)
		}
		return schema.Number(Snap(field, n)), nil
	case schema.FieldSwitch:
		b, err := ParseBool(raw)
		if err != nil {
			return schema.Value{}, fmt.Errorf("%s: %w", field.ID, err)
		}
		return schema.Bool(b), nil
	default:
		return schema.Value{}, fmt.Errorf("codec: unsupported field type %q", field.Type)
	}
}

// Coerce accepts an already-typed value (as decoded from JSON) and applies
// the same rules as Normalize. Strings are routed through Normalize so API
// clients may send either form.
func Coerce(field schema.Field, raw any) (schema.Value, error) {
	if s, ok := raw.(string); ok {
		return Normalize(field, s)
	}
	value, err := schema.ValueFor(field.Type, raw)
	if err != nil {
		return schema.Value{}, fmt.Errorf("%s: %w", field.ID, err)
	}
	switch field.Type {
	case schema.FieldRange:
		if !finite(value.Num()) {
			return schema.Value{}, fmt.Errorf("%s: %w", field.ID, ErrInvalidNumber)
		}
		return schema.Number(Snap(field, value.Num())), nil
	case schema.FieldNumber:
		if !finite(value.Num()) {
			return schema.Value{}, fmt.Errorf("%s: %w", field.ID, ErrInvalidNumber)
		}
		return value, nil
	case schema.FieldText, schema.FieldColor, schema.FieldSwitch:
		return value, nil
	default:
		return schema.Value{}, fmt.Errorf("codec: unsupported field type %q", field.Type)
	}
}

// Encode renders value as the query value for field. A value of the wrong
// kind encodes as the type's zero value.
func Encode(field schema.Field, value schema.Value) string {
	if value.Kind() != field.Type.ValueKind() {
		value = field.Type.Zero()
	}
	switch field.Type {
	case schema.FieldText, schema.FieldColor:
		return value.Str()
	case schema.FieldNumber, schema.FieldRange:
		return FormatNumber(value.Num())
	case schema.FieldSwitch:
		if value.Flag() {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Display renders value for humans: numbers carry the field suffix and
// switches read On/Off.
func Display(field schema.Field, value schema.Value) string {
	if value.Kind() != field.Type.ValueKind() {
		value = field.Type.Zero()
	}
	switch field.Type {
	case schema.FieldText, schema.FieldColor:
		return value.Str()
	case schema.FieldNumber, schema.FieldRange:
		return FormatNumber(value.Num()) + field.Suffix
	case schema.FieldSwitch:
		if value.Flag() {
			return "On"
		}
		return "Off"
	default:
		return ""
	}
}

// FormatNumber writes the shortest decimal text that round-trips n.
func FormatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ParseBool accepts true/false, 1/0, on/off and yes/no in any case.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w %q", ErrInvalidBool, raw)
	}
}

// Snap constrains n the way a native slider does: onto the step grid
// anchored at min, then into [min, max]. A max that falls between grid
// points is lowered to the last reachable point.
func Snap(field schema.Field, n float64) float64 {
	lo, hi := field.Bounds()
	lower, upper := float64(schema.DefaultRangeMin), float64(schema.DefaultRangeMax)
	if lo != nil {
		lower = *lo
	}
	if hi != nil {
		upper = *hi
	}
	step := field.StepOrDefault()
	if upper < lower {
		upper = lower
	}
	top := lower + math.Floor((upper-lower)/step+1e-9)*step
	snapped := lower + math.Round((n-lower)/step)*step
	if snapped < lower {
		snapped = lower
	}
	if snapped > top {
		snapped = top
	}
	return tidy(snapped)
}

func parseNumber(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || !finite(n) {
		return 0, fmt.Errorf("%w %q", ErrInvalidNumber, raw)
	}
	return n, nil
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// tidy drops binary noise such as 0.30000000000000004 introduced by grid
// arithmetic.
func tidy(n float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(n, 'g', 12, 64), 64)
	if err != nil {
		return n
	}
	return out
}
