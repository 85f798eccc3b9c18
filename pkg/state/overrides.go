package state

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// FromOverrides returns a store holding sch's defaults with overrides, raw
// control text keyed by field id, normalized on top. Ids for which skip
// reports true are ignored. Any other id sch does not declare fails with
// ErrUnknownField; the first offending id in sorted order is named.
func FromOverrides(sch *schema.Schema, overrides map[string]string, skip func(id string) bool) (*Store, error) {
	ignored := func(id string) bool { return skip != nil && skip(id) }

	store := New(sch)
	for _, field := range sch.Fields() {
		raw, ok := overrides[field.ID]
		if !ok || ignored(field.ID) {
			continue
		}
		value, err := codec.Normalize(field, raw)
		if err != nil {
			return nil, fmt.Errorf("state: field %q: %w", field.ID, err)
		}
		if err := store.Set(field.ID, value); err != nil {
			return nil, err
		}
	}

	var unknown []string
	for id := range overrides {
		if ignored(id) {
			continue
		}
		if _, ok := sch.Field(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w %q", ErrUnknownField, unknown[0])
	}
	return store, nil
}
