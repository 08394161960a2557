package widget

import (
	"context"
	"fmt"

	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
)

const (
	DirectionRows    = "rows"
	DirectionColumns = "columns"
	DirectionGrid    = "grid"
)

var (
	repeatW     = &repeat{name: "Repeat"}
	conditionW  = &condition{name: "Condition"}
	firstMatchW = &firstMatch{name: "FirstMatch"}
)

// RepeatItem is the type of the compiled node holding one iteration of a
// Repeat.
const RepeatItem = "RepeatItem"

// Repeat compiles its children once per element of an array. Each
// iteration sees the element as varName and its index as varName_i.
func Repeat() Widget { return repeatW }

// Condition compiles its children only if its formula is truthy.
func Condition() Widget { return conditionW }

// FirstMatch binds the first element of an array satisfying a condition
// and compiles its children if there is one.
func FirstMatch() Widget { return firstMatchW }

type repeatFields struct {
	Source    string `json:"source"`
	VarName   string `json:"varName"`
	Direction string `json:"direction"`
}

type repeat struct{ name }

func (w *repeat) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{
		"source":    "",
		"varName":   "item",
		"direction": DirectionRows,
	})
}

func (w *repeat) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	var f repeatFields
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	arr, err := evalArray(ctx, h, "source", f.Source)
	if err != nil {
		return nil, err
	}
	items := make([]*report.Compiled, 0, len(arr))
	for i, x := range arr {
		h.Push(f.VarName, x)
		h.Push(f.VarName+"_i", float64(i))
		children, err := h.CompileChildren(ctx, n.Children)
		h.Pop()
		h.Pop()
		if err != nil {
			return nil, err
		}
		items = append(items, report.NewCompiled(RepeatItem, map[string]any{"index": float64(i)}, children...))
	}
	// a grid of single frames lets the frames size themselves
	addChild := !(f.Direction == DirectionGrid && len(n.Children) == 1 && n.Children[0].Type == frameW.Name())
	return report.NewCompiled(n.Type, map[string]any{
		"direction":       f.Direction,
		"addChildElement": addChild,
	}, items...), nil
}

type condition struct{ name }

func (w *condition) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{"formula": "true"})
}

func (w *condition) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	v, err := h.EvalField(ctx, "formula", n.Str("formula"))
	if err != nil {
		return nil, err
	}
	if !formula.Truthy(v) {
		return report.NewCompiled(n.Type, nil), nil
	}
	children, err := h.CompileChildren(ctx, n.Children)
	if err != nil {
		return nil, err
	}
	return report.NewCompiled(n.Type, nil, children...), nil
}

type firstMatchFields struct {
	Source    string `json:"source"`
	Condition string `json:"condition"`
	VarName   string `json:"varName"`
}

type firstMatch struct{ name }

func (w *firstMatch) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{
		"source":    "[]",
		"condition": "true",
		"varName":   "match1",
	})
}

func (w *firstMatch) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	var f firstMatchFields
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	arr, err := evalArray(ctx, h, "source", f.Source)
	if err != nil {
		return nil, err
	}
	for _, x := range arr {
		h.Push(f.VarName, x)
		ok, err := h.EvalField(ctx, "condition", f.Condition)
		if err != nil {
			h.Pop()
			return nil, err
		}
		if !formula.Truthy(ok) {
			h.Pop()
			continue
		}
		children, err := h.CompileChildren(ctx, n.Children)
		h.Pop()
		if err != nil {
			return nil, err
		}
		return report.NewCompiled(n.Type, nil, children...), nil
	}
	return report.NewCompiled(n.Type, nil), nil
}

func evalArray(ctx context.Context, h *Helper, field, src string) ([]any, error) {
	v, err := h.EvalField(ctx, field, src)
	if err != nil {
		return nil, err
	}
	arr, ok := formula.AsArray(v)
	if !ok {
		return nil, FieldError(field, fmt.Errorf("%w, got %s", ErrNotArray, kind(v)))
	}
	return arr, nil
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	}
	if formula.IsUndefined(v) {
		return "undefined"
	}
	return fmt.Sprintf("%T", v)
}
