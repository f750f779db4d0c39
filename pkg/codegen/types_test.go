package codegen

import (
	"errors"
	"testing"

	"github.com/stefan-lacatus/ThingTransformer/pkg/entity"
	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

func testGenerator() *generator {
	opts := DefaultOptions()
	return &generator{opts: opts, log: opts.Log}
}

// TestMapType tests the base-type mapping and generic parameterization.
func TestMapType(t *testing.T) {
	tests := []struct {
		name  string
		field *entity.Field
		want  string
	}{
		{
			name:  "nil field is NOTHING",
			field: nil,
			want:  "NOTHING",
		},
		{
			name:  "empty base type is NOTHING",
			field: &entity.Field{Name: "x"},
			want:  "NOTHING",
		},
		{
			name:  "verbatim name",
			field: &entity.Field{BaseType: "STRING"},
			want:  "STRING",
		},
		{
			name:  "JSON renames to avoid the ambient type",
			field: &entity.Field{BaseType: "JSON"},
			want:  "TWJSON",
		},
		{
			name:  "unknown base type passes through",
			field: &entity.Field{BaseType: "WIDGET"},
			want:  "WIDGET",
		},
		{
			name:  "infotable without shape",
			field: &entity.Field{BaseType: "INFOTABLE"},
			want:  "INFOTABLE",
		},
		{
			name: "infotable with shape",
			field: &entity.Field{
				BaseType: "INFOTABLE",
				Aspects:  entity.Aspects{DataShape: "Reading"},
			},
			want: "INFOTABLE<Reading>",
		},
		{
			name: "infotable shape name is sanitized",
			field: &entity.Field{
				BaseType: "INFOTABLE",
				Aspects:  entity.Aspects{DataShape: "My Shape"},
			},
			want: "INFOTABLE<My_Shape>",
		},
		{
			name: "thingname with template",
			field: &entity.Field{
				BaseType: "THINGNAME",
				Aspects:  entity.Aspects{ThingTemplate: "PumpTemplate"},
			},
			want: "THINGNAME<PumpTemplate>",
		},
		{
			name: "thingname with template and shape",
			field: &entity.Field{
				BaseType: "THINGNAME",
				Aspects:  entity.Aspects{ThingTemplate: "PumpTemplate", ThingShape: "Maintainable"},
			},
			want: "THINGNAME<PumpTemplate, Maintainable>",
		},
		{
			name: "thingname shape alone is not enough",
			field: &entity.Field{
				BaseType: "THINGNAME",
				Aspects:  entity.Aspects{ThingShape: "Maintainable"},
			},
			want: "THINGNAME",
		},
	}

	g := testGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tsast.Print(g.mapType(tt.field))
			if got != tt.want {
				t.Errorf("mapType() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestLiteralExpr tests rendering of decoded JSON values, including the
// sorted-key ordering of objects.
func TestLiteralExpr(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "null"},
		{name: "string", value: "hi", want: `"hi"`},
		{name: "bool", value: true, want: "true"},
		{name: "number", value: float64(2.5), want: "2.5"},
		{name: "whole number has no fraction", value: float64(5), want: "5"},
		{name: "array", value: []any{float64(1), "a", nil}, want: `[1, "a", null]`},
		{
			name:  "object keys are sorted",
			value: map[string]any{"z": float64(1), "a": float64(2)},
			want:  "{a: 2, z: 1}",
		},
		{
			name:  "non-identifier key is quoted",
			value: map[string]any{"a-b": float64(1)},
			want:  `{"a-b": 1}`,
		},
		{
			name:  "nested",
			value: map[string]any{"rows": []any{map[string]any{"x": false}}},
			want:  "{rows: [{x: false}]}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := literalExpr(tt.value)
			if err != nil {
				t.Fatalf("literalExpr() error = %v", err)
			}
			if got := tsast.Print(expr); got != tt.want {
				t.Errorf("literalExpr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLiteralExpr_UnsupportedKind(t *testing.T) {
	_, err := literalExpr(make(chan int))
	if !errors.Is(err, entity.ErrUnsupported) {
		t.Fatalf("error = %v, want ErrUnsupported", err)
	}
}

// TestSanitizeName tests identifier derivation.
func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		replacement string
		want        string
	}{
		{name: "clean name", input: "MyThing", replacement: "_", want: "MyThing"},
		{name: "spaces and dashes", input: "My Thing-1", replacement: "_", want: "My_Thing_1"},
		{name: "leading digit escaped", input: "1stFloor", replacement: "_", want: "_1stFloor"},
		{name: "dollar and underscore kept", input: "$a_b", replacement: "_", want: "$a_b"},
		{name: "dots", input: "com.acme.Pump", replacement: "_", want: "com_acme_Pump"},
		{name: "custom replacement", input: "a b", replacement: "$", want: "a$b"},
		{name: "empty replacement drops characters", input: "a b", replacement: "", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeName(tt.input, tt.replacement)
			if got != tt.want {
				t.Errorf("SanitizeName(%q, %q) = %q, want %q", tt.input, tt.replacement, got, tt.want)
			}
		})
	}
}
