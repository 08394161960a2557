package encode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
)

func TestEncode(t *testing.T) {
	v := map[string]any{"a": 1.0, "b": []any{"x", true}}
	tests := []struct {
		f    format.Format
		want string
	}{
		{f: format.JSONFormat, want: "{\n  \"a\": 1,\n  \"b\": [\n    \"x\",\n    true\n  ]\n}\n"},
		{f: format.YAMLFormat, want: "a: 1\nb:\n- x\n- true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, v, EncodeFormat(tt.f)); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestEncodeColors(t *testing.T) {
	var plain, colored bytes.Buffer
	v := map[string]any{"name": "x", "n": 2.0}
	if err := Encode(&plain, v, EncodeFormat(format.YAMLFormat)); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&colored, v, EncodeFormat(format.YAMLFormat), EncodeColors(NewColors())); err != nil {
		t.Fatal(err)
	}
	s := colored.String()
	if !strings.Contains(s, "\x1b[") {
		t.Fatalf("no color in %q", s)
	}
	if stripped := stripEscapes(s); stripped != plain.String() {
		t.Errorf("colored text differs: %q vs %q", stripped, plain.String())
	}
}

func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestOutline(t *testing.T) {
	d := report.New("me")
	d.Name = "inv"
	d.Children = []*report.Node{
		report.NewNode("TextSimple", map[string]any{"formula": "data.a"}),
		report.NewNode("Repeat", map[string]any{"varName": "x", "source": "data.rows"},
			report.NewNode("TextSimple", map[string]any{"formula": "x"}),
		),
	}
	got := Outline(d)
	for _, want := range []string{
		"inv (pdf)",
		"0 TextSimple formula=data.a",
		"1 Repeat varName=x source=data.rows",
		"1.0 TextSimple formula=x",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("outline missing %q:\n%s", want, got)
		}
	}
}
