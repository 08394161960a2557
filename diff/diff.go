// Package diff compares documents by their encodings.
package diff

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
)

// Op is the kind of a Line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) prefix() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	}
	return " "
}

type Line struct {
	Op   Op
	Text string
}

// Lines diffs two texts line by line.
func Lines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var res []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l == "" {
				continue
			}
			res = append(res, Line{Op: op, Text: strings.TrimSuffix(l, "\n")})
		}
	}
	return res
}

// Documents diffs the encodings of two documents in f. It reports false
// if they are the same.
func Documents(from, to *report.Document, f format.Format) ([]Line, bool, error) {
	a, err := report.Encode(from, f)
	if err != nil {
		return nil, false, err
	}
	b, err := report.Encode(to, f)
	if err != nil {
		return nil, false, err
	}
	if string(a) == string(b) {
		return nil, false, nil
	}
	return Lines(string(a), string(b)), true, nil
}

// Format renders lines with +, - and space prefixes, coloring inserts and
// deletes if colored is set. Runs of more than context equal lines are
// elided; a negative context keeps all of them.
func Format(lines []Line, context int, colored bool) string {
	ins, del := fmtFunc(colored, color.FgGreen), fmtFunc(colored, color.FgRed)
	var b strings.Builder
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		switch l.Op {
		case Insert:
			b.WriteString(ins("+" + l.Text))
			b.WriteByte('\n')
			continue
		case Delete:
			b.WriteString(del("-" + l.Text))
			b.WriteByte('\n')
			continue
		}
		j := i
		for j < len(lines) && lines[j].Op == Equal {
			j++
		}
		run := lines[i:j]
		if context >= 0 && len(run) > 2*context {
			head, tail := run[:context], run[len(run)-context:]
			if i == 0 {
				head = nil
			}
			if j == len(lines) {
				tail = nil
			}
			writeEqual(&b, head)
			b.WriteString("@@\n")
			writeEqual(&b, tail)
		} else {
			writeEqual(&b, run)
		}
		i = j - 1
	}
	return b.String()
}

func writeEqual(b *strings.Builder, lines []Line) {
	for _, l := range lines {
		b.WriteString(l.Op.prefix() + l.Text + "\n")
	}
}

func fmtFunc(colored bool, a color.Attribute) func(string) string {
	if !colored {
		return func(s string) string { return s }
	}
	c := color.New(a)
	c.EnableColor()
	return func(s string) string { return c.Sprint(s) }
}
