package postgen

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCompletePartialJSON(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
		valid bool
	}{
		{
			name:  "complete_object",
			in:    `{"summary":"done"}`,
			want:  `{"summary":"done"}`,
			valid: true,
		},
		{
			name:  "open_object",
			in:    `{"summary":"done"`,
			want:  `{"summary":"done"}`,
			valid: true,
		},
		{
			name:  "open_string_value",
			in:    `{"summary":"half wa`,
			want:  `{"summary":"half wa"}`,
			valid: true,
		},
		{
			name:  "half_key_dropped",
			in:    `{"summary":"done","po`,
			want:  `{"summary":"done"}`,
			valid: true,
		},
		{
			name:  "dangling_colon",
			in:    `{"summary":`,
			want:  `{"summary": null}`,
			valid: true,
		},
		{
			name:  "trailing_comma",
			in:    `{"summary":"done",`,
			want:  `{"summary":"done"}`,
			valid: true,
		},
		{
			name:  "nested_array_open",
			in:    `{"post":{"slides":[{"id":1,"content":{"title":"Rise`,
			want:  `{"post":{"slides":[{"id":1,"content":{"title":"Rise"}}]}}`,
			valid: true,
		},
		{
			name:  "incomplete_literal_dropped",
			in:    `{"post":{"theme":"grit","ready":tru`,
			want:  `{"post":{"theme":"grit"}}`,
			valid: true,
		},
		{
			name:  "trailing_escape_in_string",
			in:    `{"summary":"line\`,
			want:  `{"summary":"line"}`,
			valid: true,
		},
		{
			name:  "no_json_yet",
			in:    "   ",
			valid: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := CompletePartialJSON(tc.in)
			if ok != tc.valid {
				t.Fatalf("CompletePartialJSON(%q) ok=%v, want %v", tc.in, ok, tc.valid)
			}
			if !tc.valid {
				return
			}
			var gotVal, wantVal any
			if err := json.Unmarshal([]byte(got), &gotVal); err != nil {
				t.Fatalf("repaired output is not valid JSON: %q: %v", got, err)
			}
			if err := json.Unmarshal([]byte(tc.want), &wantVal); err != nil {
				t.Fatalf("bad want fixture: %v", err)
			}
			if !reflect.DeepEqual(gotVal, wantVal) {
				t.Fatalf("CompletePartialJSON(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeGrowingProgression(t *testing.T) {
	// a single logical document arriving as growing prefixes
	prefixes := []string{
		`{"post":{"slid`,
		`{"post":{"slides":[{"content":{"title":"Do the`,
		`{"post":{"slides":[{"content":{"title":"Do the hard thing"}}]}}`,
	}

	var acc map[string]any
	for _, p := range prefixes {
		if obj, ok := DecodeGrowing(p); ok {
			acc = MergePartial(acc, obj)
		}
	}
	if !HasMinimumUsableData(acc) {
		t.Fatalf("expected accumulated partial to be usable, got %v", acc)
	}
	post := acc["post"].(map[string]any)
	slides := post["slides"].([]any)
	content := slides[0].(map[string]any)["content"].(map[string]any)
	if content["title"] != "Do the hard thing" {
		t.Fatalf("title=%v, want final value", content["title"])
	}
}
