package report

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Target string

const (
	TargetPDF            Target = "pdf"
	TargetHTML           Target = "html"
	TargetJSON           Target = "json"
	TargetCSVUTF8        Target = "csv-utf-8"
	TargetCSVWindows1250 Target = "csv-windows-1250"
)

var ErrBadTarget = errors.New("bad target")

func Targets() []Target {
	return []Target{TargetPDF, TargetHTML, TargetJSON, TargetCSVUTF8, TargetCSVWindows1250}
}

func ParseTarget(s string) (Target, error) {
	t := Target(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrBadTarget, s)
	}
	return t, nil
}

func (t Target) Valid() bool {
	for _, x := range Targets() {
		if x == t {
			return true
		}
	}
	return false
}

// IsCSV reports whether the target is a CSV table rather than a document.
func (t Target) IsCSV() bool {
	return t == TargetCSVUTF8 || t == TargetCSVWindows1250
}

type Font struct {
	Family     string   `json:"family,omitempty"`
	Size       string   `json:"size,omitempty"`
	Weight     string   `json:"weight,omitempty"`
	Style      string   `json:"style,omitempty"`
	Color      string   `json:"color,omitempty"`
	LineHeight *float64 `json:"lineHeight,omitempty"`
}

// FontStyle identifies a font face a compiled document needs.
type FontStyle struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Italic bool   `json:"italic"`
}

var fontWeights = map[string]int{
	"":       400,
	"normal": 400,
	"bold":   700,
	"100":    100,
	"200":    200,
	"300":    300,
	"400":    400,
	"500":    500,
	"600":    600,
	"700":    700,
	"800":    800,
	"900":    900,
}

// Face returns the face used by f, or false if f names no family.
func (f *Font) Face() (FontStyle, bool) {
	if f == nil || f.Family == "" {
		return FontStyle{}, false
	}
	w, ok := fontWeights[f.Weight]
	if !ok {
		w = 400
	}
	return FontStyle{Name: f.Family, Weight: w, Italic: f.Style == "italic"}, true
}

type Properties struct {
	Font        *Font       `json:"font,omitempty"`
	Margin      *[4]float64 `json:"margin,omitempty"`
	FileName    string      `json:"fileName,omitempty"`
	PaperWidth  *float64    `json:"paperWidth,omitempty"`
	PaperHeight *float64    `json:"paperHeight,omitempty"`
	Lang        string      `json:"lang,omitempty"`
}

// Variable is a report level binding visible to every node.
type Variable struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

type Document struct {
	ID         string       `json:"id,omitempty"`
	Owner      string       `json:"owner,omitempty"`
	Name       string       `json:"name"`
	Target     Target       `json:"target"`
	Children   []*Node      `json:"children"`
	Transforms []*Transform `json:"transforms"`
	Properties Properties   `json:"properties"`
	DataURL    string       `json:"dataUrl"`
	Variables  []Variable   `json:"variables"`
}

// New returns an empty document owned by owner.
func New(owner string) *Document {
	return &Document{
		ID:         uuid.NewString(),
		Owner:      owner,
		Target:     TargetPDF,
		Children:   []*Node{},
		Transforms: []*Transform{},
		Variables:  []Variable{},
	}
}

// Clone returns a copy of the document header and top level slices. Nodes
// and transforms are shared.
func (d *Document) Clone() *Document {
	res := *d
	res.Children = append([]*Node{}, d.Children...)
	res.Transforms = append([]*Transform{}, d.Transforms...)
	res.Variables = append([]Variable{}, d.Variables...)
	return &res
}

// WithChildren returns a copy of d whose top level children are children.
func (d *Document) WithChildren(children []*Node) *Document {
	res := *d
	res.Children = children
	return &res
}

// Map renders the document as a plain value, the form formulas see it in.
func (d *Document) Map() (map[string]any, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	type plain Document
	p := plain(*d)
	p.Children = nonNil(p.Children)
	p.Transforms = nonNil(p.Transforms)
	p.Variables = nonNil(p.Variables)
	return json.Marshal(p)
}

func (d *Document) UnmarshalJSON(b []byte) error {
	type plain Document
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	p.Children = nonNil(p.Children)
	p.Transforms = nonNil(p.Transforms)
	p.Variables = nonNil(p.Variables)
	*d = Document(p)
	return nil
}
