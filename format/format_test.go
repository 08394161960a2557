package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"j", JSONFormat, false},
		{"json", JSONFormat, false},
		{"yml", YAMLFormat, false},
		{"yaml", YAMLFormat, false},
		{"toml", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				if !errors.Is(err, ErrBadFormat) {
					t.Errorf("got %v, want ErrBadFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %v %v, want %v", got, err, tt.want)
			}
		})
	}
}

func TestFromPath(t *testing.T) {
	for p, want := range map[string]Format{
		"doc.yaml":  YAMLFormat,
		"a/doc.yml": YAMLFormat,
		"doc.json":  JSONFormat,
		"doc":       JSONFormat,
	} {
		if got := FromPath(p); got != want {
			t.Errorf("%s: got %v, want %v", p, got, want)
		}
		if want.Suffix() == "" {
			t.Errorf("%v has no suffix", want)
		}
	}
}
