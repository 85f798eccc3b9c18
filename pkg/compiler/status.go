package compiler

import "fmt"

// Status summarizes a compilation. The zero value is StatusMissingBase.
type Status int

const (
	// StatusMissingBase means the base URL text was blank. It is an
	// expected state, not a failure.
	StatusMissingBase Status = iota
	// StatusReady means URL holds a complete compiled URL.
	StatusReady
	// StatusInvalidBase means the base URL text could not be parsed.
	StatusInvalidBase
)

func (s Status) String() string {
	switch s {
	case StatusMissingBase:
		return "missing_base"
	case StatusReady:
		return "ready"
	case StatusInvalidBase:
		return "invalid_base"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Label is the operator-facing text for the status indicator.
func (s Status) Label() string {
	switch s {
	case StatusMissingBase:
		return "Missing base URL"
	case StatusReady:
		return "Ready"
	case StatusInvalidBase:
		return "Invalid base URL"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the status as its String form.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseError reports base URL text that is non-empty but not a valid
// absolute or page-relative URL.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("compiler: invalid base url %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
