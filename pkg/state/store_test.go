package state_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/state"
	"github.com/goliatone/go-urlform/pkg/testsupport"
)

func TestStore_InitializeMatchesDefaults(t *testing.T) {
	sch := testsupport.MustLoadSchema(t, "widget.json")
	st := state.New(sch)

	if diff := cmp.Diff([]string{"accent", "dark", "limit", "radius", "title"}, st.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if got := st.Get("title").Str(); got != "Hello world" {
		t.Fatalf("title default mismatch: %q", got)
	}
	if got := st.Get("radius").Num(); got != 8 {
		t.Fatalf("radius default mismatch: %v", got)
	}
}

func TestStore_SetOverwritesOnlyKnownKeys(t *testing.T) {
	sch := testsupport.MustLoadSchema(t, "widget.json")
	st := state.New(sch)

	if err := st.Set("dark", schema.Bool(true)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !st.Get("dark").Flag() {
		t.Fatalf("expected dark=true")
	}

	err := st.Set("nope", schema.Bool(true))
	if !errors.Is(err, state.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	err = st.Set("dark", schema.String("true"))
	if !errors.Is(err, state.ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if st.Len() != 5 || st.Has("nope") {
		t.Fatalf("key set changed after rejected writes: %v", st.Keys())
	}
}

func TestStore_InitializeDiscardsEdits(t *testing.T) {
	sch := testsupport.MustLoadSchema(t, "widget.json")
	st := state.New(sch)
	_ = st.Set("title", schema.String("changed"))

	st.Initialize(sch)
	if got := st.Get("title").Str(); got != "Hello world" {
		t.Fatalf("expected default after initialize, got %q", got)
	}
}

func TestStore_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("key set equals schema field ids", prop.ForAll(
		func(sch *schema.Schema) bool {
			st := state.New(sch)
			ids := sch.FieldIDs()
			if st.Len() != len(ids) {
				return false
			}
			for _, id := range ids {
				if !st.Has(id) {
					return false
				}
			}
			return true
		},
		testsupport.GenSchema(),
	))

	properties.Property("initialize twice yields identical defaults", prop.ForAll(
		func(sch *schema.Schema) bool {
			st := state.New(sch)
			for _, field := range sch.Fields() {
				_ = st.Set(field.ID, field.Type.Zero())
			}
			st.Initialize(sch)
			first := st.Snapshot()
			st.Initialize(sch)
			second := st.Snapshot()
			for _, field := range sch.Fields() {
				if first[field.ID] != field.Default || second[field.ID] != field.Default {
					return false
				}
			}
			return len(first) == len(second)
		},
		testsupport.GenSchema(),
	))

	properties.TestingRun(t)
}

func TestFromOverrides(t *testing.T) {
	sch := testsupport.MustLoadSchema(t, "widget.json")

	st, err := state.FromOverrides(sch, map[string]string{"dark": "on", "radius": "13", "lang": "es"},
		func(id string) bool { return id == "lang" })
	if err != nil {
		t.Fatalf("from overrides: %v", err)
	}
	got := map[string]any{"dark": st.Get("dark").Flag(), "radius": st.Get("radius").Num(), "limit": st.Get("limit").Num()}
	want := map[string]any{"dark": true, "radius": 14.0, "limit": 5.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overrides mismatch (-want +got):\n%s", diff)
	}

	_, err = state.FromOverrides(sch, map[string]string{"zz": "1", "lang": "es"}, nil)
	if !errors.Is(err, state.ErrUnknownField) || err.Error() != `state: unknown field "lang"` {
		t.Fatalf("expected first unknown id named, got %v", err)
	}
	if _, err := state.FromOverrides(sch, map[string]string{"limit": "lots"}, nil); err == nil {
		t.Fatalf("expected normalization error")
	}
}
