package codec_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/testsupport"
)

func TestNormalize(t *testing.T) {
	size := schema.Field{ID: "size", Type: schema.FieldRange, Param: "s",
		Min: testsupport.Float(0), Max: testsupport.Float(100), Step: testsupport.Float(5)}
	limit := schema.Field{ID: "limit", Type: schema.FieldNumber, Param: "limit",
		Min: testsupport.Float(1), Max: testsupport.Float(20)}

	cases := []struct {
		name  string
		field schema.Field
		raw   string
		want  schema.Value
	}{
		{"text untouched", schema.Field{ID: "t", Type: schema.FieldText}, "  hi there ", schema.String("  hi there ")},
		{"empty text", schema.Field{ID: "t", Type: schema.FieldText}, "", schema.String("")},
		{"color untouched", schema.Field{ID: "c", Type: schema.FieldColor}, "#FF8800", schema.String("#FF8800")},
		{"number not clamped", limit, "250", schema.Number(250)},
		{"number below min kept", limit, "-3.5", schema.Number(-3.5)},
		{"number empty is zero", limit, "  ", schema.Number(0)},
		{"range on grid", size, "35", schema.Number(35)},
		{"range snapped", size, "37", schema.Number(35)},
		{"range snapped up", size, "38", schema.Number(40)},
		{"range clamped high", size, "180", schema.Number(100)},
		{"range clamped low", size, "-20", schema.Number(0)},
		{"switch on", schema.Field{ID: "d", Type: schema.FieldSwitch}, "on", schema.Bool(true)},
		{"switch TRUE", schema.Field{ID: "d", Type: schema.FieldSwitch}, "TRUE", schema.Bool(true)},
		{"switch 0", schema.Field{ID: "d", Type: schema.FieldSwitch}, "0", schema.Bool(false)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := codec.Normalize(tc.field, tc.raw)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	number := schema.Field{ID: "n", Type: schema.FieldNumber}
	for _, raw := range []string{"abc", "NaN", "Inf", "-Infinity", "1,5"} {
		if _, err := codec.Normalize(number, raw); !errors.Is(err, codec.ErrInvalidNumber) {
			t.Fatalf("expected ErrInvalidNumber for %q, got %v", raw, err)
		}
	}
	toggle := schema.Field{ID: "s", Type: schema.FieldSwitch}
	if _, err := codec.Normalize(toggle, "maybe"); !errors.Is(err, codec.ErrInvalidBool) {
		t.Fatalf("expected ErrInvalidBool, got %v", err)
	}
}

func TestSnap_OffGridMax(t *testing.T) {
	field := schema.Field{ID: "r", Type: schema.FieldRange,
		Min: testsupport.Float(0), Max: testsupport.Float(10), Step: testsupport.Float(3)}
	if got := codec.Snap(field, 10); got != 9 {
		t.Fatalf("expected 9, got %v", got)
	}
	fractional := schema.Field{ID: "r", Type: schema.FieldRange,
		Min: testsupport.Float(0), Max: testsupport.Float(1), Step: testsupport.Float(0.1)}
	if got := codec.Snap(fractional, 0.3); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
}

func TestEncode(t *testing.T) {
	cases := []struct {
		name  string
		field schema.Field
		value schema.Value
		want  string
	}{
		{"switch true", schema.Field{Type: schema.FieldSwitch}, schema.Bool(true), "true"},
		{"switch false", schema.Field{Type: schema.FieldSwitch}, schema.Bool(false), "false"},
		{"integer", schema.Field{Type: schema.FieldNumber}, schema.Number(5), "5"},
		{"decimal", schema.Field{Type: schema.FieldNumber}, schema.Number(0.25), "0.25"},
		{"negative zero", schema.Field{Type: schema.FieldNumber}, schema.Number(math.Copysign(0, -1)), "0"},
		{"large", schema.Field{Type: schema.FieldRange}, schema.Number(1e21), "1000000000000000000000"},
		{"empty text", schema.Field{Type: schema.FieldText}, schema.String(""), ""},
		{"color", schema.Field{Type: schema.FieldColor}, schema.String("#ff8800"), "#ff8800"},
		{"kind mismatch falls back to zero", schema.Field{Type: schema.FieldColor}, schema.Bool(true), "#000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := codec.Encode(tc.field, tc.value); got != tc.want {
				t.Fatalf("encode mismatch: want %q got %q", tc.want, got)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	radius := schema.Field{Type: schema.FieldRange, Suffix: "px"}
	if got := codec.Display(radius, schema.Number(35)); got != "35px" {
		t.Fatalf("unexpected display %q", got)
	}
	if got := codec.Display(schema.Field{Type: schema.FieldSwitch}, schema.Bool(true)); got != "On" {
		t.Fatalf("unexpected display %q", got)
	}
}

func TestCoerce(t *testing.T) {
	size := schema.Field{ID: "size", Type: schema.FieldRange, Step: testsupport.Float(5)}
	got, err := codec.Coerce(size, 37.0)
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got.Num() != 35 {
		t.Fatalf("expected snapped 35, got %v", got.Num())
	}
	got, err = codec.Coerce(schema.Field{ID: "d", Type: schema.FieldSwitch}, "yes")
	if err != nil || !got.Flag() {
		t.Fatalf("expected string routed through Normalize, got %v %v", got, err)
	}
	if _, err := codec.Coerce(schema.Field{ID: "d", Type: schema.FieldSwitch}, 1.0); err == nil {
		t.Fatalf("expected kind error for number on switch")
	}
}

func TestCodec_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("switch encodes only true or false", prop.ForAll(
		func(b bool) bool {
			got := codec.Encode(schema.Field{Type: schema.FieldSwitch}, schema.Bool(b))
			return (b && got == "true") || (!b && got == "false")
		},
		gen.Bool(),
	))

	properties.Property("number round-trips through encode and normalize", prop.ForAll(
		func(n float64) bool {
			field := schema.Field{ID: "n", Type: schema.FieldNumber}
			back, err := codec.Normalize(field, codec.Encode(field, schema.Number(n)))
			return err == nil && back.Num() == n
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("range stays within bounds", prop.ForAll(
		func(n float64) bool {
			field := schema.Field{ID: "r", Type: schema.FieldRange,
				Min: testsupport.Float(-10), Max: testsupport.Float(50), Step: testsupport.Float(2.5)}
			got := codec.Snap(field, n)
			return got >= -10 && got <= 50
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}
