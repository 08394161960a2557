package formula

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type base struct {
	ID string `json:"id"`
}

func (base) Describe() string { return "" }

type derived struct {
	base
	Title   string
	private int
}

func (*derived) Summary() string { return "" }

func TestIsPropertyAllowedDenied(t *testing.T) {
	values := map[string]any{
		"map":    map[string]any{"constructor": 1, "__proto__": 2, "$$x": 3, "toString": 4},
		"struct": &derived{},
		"array":  []any{1.0},
		"string": "abc",
	}
	keys := []string{"constructor", "hasOwnProperty", "isPrototypeOf", "propertyIsEnumerable",
		"toString", "valueOf", "toLocaleString", "__proto__", "__x", "$$typeof", "$$x"}
	for name, v := range values {
		for _, k := range keys {
			if IsPropertyAllowed(v, k) {
				t.Errorf("IsPropertyAllowed(%s, %q) = true", name, k)
			}
		}
	}
	for _, v := range []any{nil, Undefined} {
		for _, k := range []string{"length", "a", "0"} {
			if IsPropertyAllowed(v, k) {
				t.Errorf("IsPropertyAllowed(%v, %q) = true", v, k)
			}
		}
	}
}

func TestIsPropertyAllowed(t *testing.T) {
	tests := []struct {
		name string
		v    any
		key  string
		want bool
	}{
		{name: "array length", v: []any{}, key: "length", want: true},
		{name: "array slice", v: []string{"a"}, key: "slice", want: true},
		{name: "array join", v: []any{}, key: "join", want: true},
		{name: "array push", v: []any{}, key: "push", want: false},
		{name: "string length", v: "x", key: "length", want: true},
		{name: "string replaceAll", v: "x", key: "replaceAll", want: true},
		{name: "string replace", v: "x", key: "replace", want: false},
		{name: "map key", v: map[string]any{"a": 1}, key: "a", want: true},
		{name: "map missing", v: map[string]any{"a": 1}, key: "b", want: false},
		{name: "number", v: 1.0, key: "toFixed", want: false},
		{name: "bool", v: true, key: "x", want: false},
		{name: "promoted field", v: &derived{}, key: "ID", want: true},
		{name: "promoted json name", v: &derived{}, key: "id", want: true},
		{name: "promoted method", v: &derived{}, key: "Describe", want: true},
		{name: "own method", v: &derived{}, key: "Summary", want: true},
		{name: "unexported", v: &derived{}, key: "private", want: false},
		{name: "embedded itself", v: &derived{}, key: "base", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPropertyAllowed(tt.v, tt.key); got != tt.want {
				t.Errorf("IsPropertyAllowed(%v, %q) = %v, want %v", tt.v, tt.key, got, tt.want)
			}
		})
	}
}

func TestPublicKeys(t *testing.T) {
	got := PublicKeys(&derived{})
	want := []string{"Describe", "ID", "Summary", "Title", "id"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PublicKeys() (-want +got):\n%s", diff)
	}
	got = PublicKeys(map[string]any{"b": 1, "a": 2, "__c": 3})
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("PublicKeys(map) (-want +got):\n%s", diff)
	}
	if got := PublicKeys(nil); len(got) != 0 {
		t.Errorf("PublicKeys(nil) = %v", got)
	}
}

func TestTruthyAndToString(t *testing.T) {
	for _, v := range []any{false, nil, Undefined, 0.0, 0, ""} {
		if Truthy(v) {
			t.Errorf("Truthy(%#v) = true", v)
		}
	}
	for _, v := range []any{true, 1.0, "0", []any{}, map[string]any{}} {
		if !Truthy(v) {
			t.Errorf("Truthy(%#v) = false", v)
		}
	}
	tests := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{Undefined, "undefined"},
		{1.5, "1.5"},
		{100.0, "100"},
		{1e21, "1e+21"},
		{[]any{1.0, nil, "a"}, "1,,a"},
		{map[string]any{}, "[object Object]"},
	}
	for _, tt := range tests {
		if got := ToString(tt.v); got != tt.want {
			t.Errorf("ToString(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestMemberFollowsGuard(t *testing.T) {
	d := &derived{base: base{ID: "i"}, Title: "t"}
	values := map[string]any{
		"map":    map[string]any{"a": 1.0, "constructor": 2.0},
		"struct": d,
		"array":  []any{"x"},
		"string": "abc",
		"number": 1.0,
	}
	keys := []string{"a", "constructor", "length", "push", "slice", "substring",
		"toUpperCase", "Title", "id", "ID", "Summary", "Describe", "private", "String"}
	for name, v := range values {
		for _, k := range keys {
			got, err := member(v, k)
			if IsPropertyAllowed(v, k) {
				if err != nil || IsUndefined(got) {
					t.Errorf("member(%s, %q) = %v, %v; want a value", name, k, got, err)
				}
				continue
			}
			if m, ok := v.(map[string]any); ok && !denied(k) {
				if _, present := m[k]; !present {
					if err != nil || !IsUndefined(got) {
						t.Errorf("member(%s, %q) = %v, %v; want Undefined", name, k, got, err)
					}
					continue
				}
			}
			if !errors.Is(err, ErrPropertyNotAllowed) {
				t.Errorf("member(%s, %q) = %v, %v; want ErrPropertyNotAllowed", name, k, got, err)
			}
		}
	}

	got, err := member([]any{"x"}, 0.0)
	if err != nil || got != "x" {
		t.Errorf("index read = %v, %v", got, err)
	}
	if IsPropertyAllowed([]any{"x"}, "0") {
		t.Error("index reported as a member")
	}
}
