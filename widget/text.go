package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
)

var (
	textSimpleW = &textSimple{name: "TextSimple"}
	htmlW       = &html{name: "Html"}
	textHtmlW   = &textHtml{name: "TextHtml"}
)

// TextSimple renders the string value of a formula.
func TextSimple() Widget { return textSimpleW }

// Html renders the string value of a formula as raw html.
func Html() Widget { return htmlW }

// TextHtml renders a sequence of html fragments and formula parts.
func TextHtml() Widget { return textHtmlW }

type textSimple struct{ name }

func (w *textSimple) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{"formula": ""})
}

func (w *textSimple) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	v, err := h.EvalField(ctx, "formula", n.Str("formula"))
	if err != nil {
		return nil, err
	}
	return report.NewCompiled(n.Type, map[string]any{"data": text(v)}), nil
}

type html struct{ name }

func (w *html) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{"source": ""})
}

func (w *html) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	v, err := h.EvalField(ctx, "source", n.Str("source"))
	if err != nil {
		return nil, err
	}
	return report.NewCompiled(n.Type, map[string]any{"data": text(v)}), nil
}

// text is the rendering of v, with null, undefined and false shown as
// nothing.
func text(v any) string {
	if formula.IsNullish(v) || v == false {
		return ""
	}
	return formula.ToString(v)
}

const (
	PartHTML    = "html"
	PartFormula = "formula"
)

// Part is one piece of a TextHtml value.
type Part struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Adjust string `json:"adjust,omitempty"`
}

type textHtmlFields struct {
	Value []Part       `json:"value"`
	Font  *report.Font `json:"font"`
}

type textHtml struct{ name }

func (w *textHtml) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{
		"value": []any{},
		"font":  map[string]any{},
	})
}

func (w *textHtml) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	var f textHtmlFields
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	h.UseFont(f.Font)
	lang := h.Document.Properties.Lang
	var b strings.Builder
	for i, p := range f.Value {
		field := fmt.Sprintf("value.%d", i)
		switch p.Type {
		case PartHTML:
			b.WriteString(p.Value)
		case PartFormula:
			v, err := h.EvalField(ctx, field, p.Value)
			if err != nil {
				return nil, err
			}
			if p.Adjust != "" {
				s, err := Adjust(p.Adjust, v, lang)
				if err != nil {
					return nil, FieldError(field, err)
				}
				b.WriteString(s)
				continue
			}
			b.WriteString(formula.ToString(v))
		default:
			return nil, FieldError(field, fmt.Errorf("%w: part type %q", ErrBadValue, p.Type))
		}
	}
	fields := map[string]any{"value": b.String()}
	if font, ok := n.CopyFields()["font"]; ok {
		fields["font"] = font
	}
	return report.NewCompiled(n.Type, fields), nil
}
