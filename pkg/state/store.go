// Package state holds the live mapping from field id to current value. Its
// key set always equals the schema's field ids: Initialize rebuilds it from
// defaults and Set only overwrites existing keys.
package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-urlform/pkg/schema"
)

var (
	// ErrUnknownField is returned when Set targets an id the schema never
	// declared.
	ErrUnknownField = errors.New("state: unknown field")
	// ErrKindMismatch is returned when a value's kind does not match the
	// field type.
	ErrKindMismatch = errors.New("state: value kind does not match field type")
)

// Store is owned by a single controller. It performs no locking of its own.
type Store struct {
	values map[string]schema.Value
	types  map[string]schema.FieldType
}

// New returns a store initialized from the schema defaults.
func New(s *schema.Schema) *Store {
	st := &Store{}
	st.Initialize(s)
	return st
}

// Initialize replaces all content with {field.id: field.default}.
func (s *Store) Initialize(sch *schema.Schema) {
	fields := sch.Fields()
	s.values = make(map[string]schema.Value, len(fields))
	s.types = make(map[string]schema.FieldType, len(fields))
	for _, field := range fields {
		s.values[field.ID] = field.Default
		s.types[field.ID] = field.Type
	}
}

// Set overwrites the value at id.
func (s *Store) Set(id string, value schema.Value) error {
	fieldType, ok := s.types[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, id)
	}
	if value.Kind() != fieldType.ValueKind() {
		return fmt.Errorf("%w: %q is %s, got %s", ErrKindMismatch, id, fieldType, value.Kind())
	}
	s.values[id] = value
	return nil
}

// Get returns the value at id. An id missing from the store yields an
// invalid Value; callers that know the field type should prefer Value.
func (s *Store) Get(id string) schema.Value {
	if s == nil {
		return schema.Value{}
	}
	if value, ok := s.values[id]; ok {
		return value
	}
	if fieldType, ok := s.types[id]; ok {
		return fieldType.Zero()
	}
	return schema.Value{}
}

// Value returns the value for field, falling back to the zero-equivalent of
// its type.
func (s *Store) Value(field schema.Field) schema.Value {
	if s != nil {
		if value, ok := s.values[field.ID]; ok {
			return value
		}
	}
	return field.Type.Zero()
}

// Has reports whether id is a known key.
func (s *Store) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[id]
	return ok
}

// Keys returns the stored ids sorted.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for id := range s.values {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of keys.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() map[string]schema.Value {
	if s == nil {
		return nil
	}
	out := make(map[string]schema.Value, len(s.values))
	for id, value := range s.values {
		out[id] = value
	}
	return out
}
