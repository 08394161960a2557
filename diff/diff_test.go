package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
)

func TestLines(t *testing.T) {
	got := Lines("a\nb\nc\n", "a\nx\nc\n")
	want := []Line{
		{Op: Equal, Text: "a"},
		{Op: Delete, Text: "b"},
		{Op: Insert, Text: "x"},
		{Op: Equal, Text: "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDocuments(t *testing.T) {
	a := report.New("me")
	a.Name = "one"
	b := a.Clone()
	if _, changed, err := Documents(a, b, format.YAMLFormat); err != nil || changed {
		t.Fatalf("same documents: %v %v", changed, err)
	}
	b.Name = "two"
	lines, changed, err := Documents(a, b, format.YAMLFormat)
	if err != nil || !changed {
		t.Fatalf("got %v %v", changed, err)
	}
	out := Format(lines, 1, false)
	if !strings.Contains(out, "-name: one\n") || !strings.Contains(out, "+name: two\n") {
		t.Errorf("unexpected diff:\n%s", out)
	}
}

func TestFormatContext(t *testing.T) {
	lines := []Line{
		{Op: Equal, Text: "1"},
		{Op: Equal, Text: "2"},
		{Op: Equal, Text: "3"},
		{Op: Delete, Text: "4"},
		{Op: Equal, Text: "5"},
		{Op: Equal, Text: "6"},
		{Op: Equal, Text: "7"},
	}
	want := "@@\n 3\n-4\n 5\n@@\n"
	if got := Format(lines, 1, false); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := Format(lines, -1, false); strings.Count(got, "\n") != 7 {
		t.Errorf("full context: %q", got)
	}
}
