package coerce

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBool(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  bool
	}{
		{name: "nil", input: nil, want: false},
		{name: "true", input: true, want: true},
		{name: "one int", input: 1, want: true},
		{name: "zero float", input: 0.0, want: false},
		{name: "empty string", input: "", want: false},
		{name: "false string", input: "False", want: false},
		{name: "off string", input: "off", want: false},
		{name: "truthy string", input: "enabled", want: true},
		{name: "json number", input: json.Number("2"), want: true},
		{name: "empty list", input: []any{}, want: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Bool(tc.input); got != tc.want {
				t.Fatalf("Bool(%#v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	if got, ok := Number("12.5"); !ok || got != 12.5 {
		t.Fatalf("Number(\"12.5\") = %v, %v", got, ok)
	}
	if got, ok := Number(int64(7)); !ok || got != 7 {
		t.Fatalf("Number(int64(7)) = %v, %v", got, ok)
	}
	if _, ok := Number("abc"); ok {
		t.Fatalf("expected non-numeric string to fail")
	}
	for _, raw := range []any{"NaN", "Inf", "+Inf", "-inf", math.NaN(), math.Inf(1), json.Number("NaN")} {
		if got, ok := Number(raw); ok {
			t.Fatalf("Number(%#v) = %v, want rejection", raw, got)
		}
	}
	if got := NumberOrZero("NaN"); got != 0 {
		t.Fatalf("NumberOrZero(\"NaN\") = %v", got)
	}
	if got := NumberOrZero(nil); got != 0 {
		t.Fatalf("NumberOrZero(nil) = %v", got)
	}
}

func TestStringAndSlice(t *testing.T) {
	if got := String(map[string]any{"a": 1}); got != `{"a":1}` {
		t.Fatalf("String(map) = %q", got)
	}
	if got := String(3.0); got != "3" {
		t.Fatalf("String(3.0) = %q", got)
	}

	got := StringSlice([]any{"a", nil, 2})
	if diff := cmp.Diff([]string{"a", "2"}, got); diff != "" {
		t.Fatalf("StringSlice mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{}, StringSlice("")); diff != "" {
		t.Fatalf("StringSlice(\"\") mismatch (-want +got):\n%s", diff)
	}
}
