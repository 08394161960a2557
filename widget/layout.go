package widget

import (
	"context"

	"github.com/signadot/rpt/report"
)

var (
	frameW     = &frame{name: "Frame"}
	columnsW   = &columns{name: "Columns"}
	columnsCtW = &columnsCt{name: "ColumnsCt"}
	spacerW    = &static{name: "Spacer", defaults: map[string]any{"height": 50.0}}
	separatorW = &static{name: "Separator", defaults: map[string]any{
		"marginTop":    20.0,
		"marginBottom": 20.0,
		"border":       map[string]any{"width": 1.0, "style": "solid", "color": "#999999"},
	}}
	pageBreakW = &static{name: "PageBreak"}
)

// Frame is a box with margin, padding, border and font around its
// children.
func Frame() Widget { return frameW }

// Columns lays out its ColumnsCt children side by side.
func Columns() Widget { return columnsW }

// ColumnsCt is one column of a Columns.
func ColumnsCt() Widget { return columnsCtW }

func Spacer() Widget    { return spacerW }
func Separator() Widget { return separatorW }
func PageBreak() Widget { return pageBreakW }

type frame struct{ name }

func (w *frame) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{
		"margin":  []any{0.0, 0.0, 0.0, 0.0},
		"padding": []any{0.0, 0.0, 0.0, 0.0},
		"border":  map[string]any{"width": 1.0, "style": "solid", "color": "#333333"},
		"width":   "",
		"height":  "",
		"font":    map[string]any{},
	})
}

func (w *frame) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	var f struct {
		Font *report.Font `json:"font"`
	}
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	h.UseFont(f.Font)
	children, err := h.CompileChildren(ctx, n.Children)
	if err != nil {
		return nil, err
	}
	return report.NewCompiled(n.Type, n.CopyFields(), children...), nil
}

type columns struct{ name }

func (w *columns) NewItem() *report.Node {
	ct := func() *report.Node { return columnsCtW.NewItem() }
	return report.NewNode(w.Name(), map[string]any{
		"widths": []any{"", "", ""},
	}, ct(), ct(), ct())
}

func (w *columns) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	children, err := h.CompileChildren(ctx, n.Children)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if v, ok := n.CopyFields()["widths"]; ok {
		fields["widths"] = v
	}
	return report.NewCompiled(n.Type, fields, children...), nil
}

type columnsCt struct{ name }

func (w *columnsCt) NewItem() *report.Node {
	return report.NewNode(w.Name(), nil)
}

func (w *columnsCt) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	children, err := h.CompileChildren(ctx, n.Children)
	if err != nil {
		return nil, err
	}
	return report.NewCompiled(n.Type, nil, children...), nil
}

// static widgets compile to a copy of their fields.
type static struct {
	name
	defaults map[string]any
}

func (w *static) NewItem() *report.Node {
	n := report.NewNode(w.Name(), w.defaults)
	n.Fields = n.CopyFields()
	return n
}

func (w *static) Compile(_ context.Context, n *report.Node, _ *Helper) (*report.Compiled, error) {
	return report.NewCompiled(n.Type, n.CopyFields()), nil
}
