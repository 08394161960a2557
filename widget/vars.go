package widget

import (
	"context"
	"fmt"

	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/scope"
)

var (
	counterW   = &counter{name: "Counter"}
	setVarW    = &setVar{name: "SetVar"}
	updateVarW = &updateVar{name: "UpdateVar"}
)

// Counter binds varName for its descendants to a counter yielding
// 0, 1, 2, ... on successive references.
func Counter() Widget { return counterW }

// SetVar binds varName to a variable for its descendants. UpdateVar nodes
// among them may assign it.
func SetVar() Widget { return setVarW }

// UpdateVar assigns the nearest variable named varName.
func UpdateVar() Widget { return updateVarW }

type counter struct{ name }

func (w *counter) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{"varName": "counter"})
}

func (w *counter) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	varName := n.Str("varName")
	if varName == "" {
		return nil, FieldError("varName", fmt.Errorf("%w: empty name", ErrBadValue))
	}
	next := 0.0
	h.Push(varName, scope.Thunk(func(context.Context) (any, error) {
		v := next
		next++
		return v, nil
	}))
	children, err := h.CompileChildren(ctx, n.Children)
	h.Pop()
	if err != nil {
		return nil, err
	}
	return report.NewCompiled(n.Type, nil, children...), nil
}

type setVarFields struct {
	VarName string `json:"varName"`
	Source  string `json:"source"`
}

type setVar struct{ name }

func (w *setVar) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{
		"source":  "0",
		"varName": "var",
	})
}

func (w *setVar) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	var f setVarFields
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	v, err := h.EvalField(ctx, "source", f.Source)
	if err != nil {
		return nil, err
	}
	if formula.IsUndefined(v) {
		return nil, FieldError("source", fmt.Errorf("%w: %s", ErrUndefined, f.VarName))
	}
	h.Push(f.VarName, &scope.Var{Name: f.VarName, Value: v})
	children, err := h.CompileChildren(ctx, n.Children)
	h.Pop()
	if err != nil {
		return nil, err
	}
	return report.NewCompiled(n.Type, nil, children...), nil
}

type updateVarFields struct {
	VarName string `json:"varName"`
	Formula string `json:"formula"`
}

type updateVar struct{ name }

func (w *updateVar) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{
		"varName": "",
		"formula": "",
	})
}

func (w *updateVar) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	var f updateVarFields
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	v, err := h.EvalField(ctx, "formula", f.Formula)
	if err != nil {
		return nil, err
	}
	if formula.IsUndefined(v) {
		return nil, FieldError("formula", fmt.Errorf("%w: %s", ErrUndefined, f.VarName))
	}
	x, ok := h.Var(f.VarName)
	if !ok {
		return nil, FieldError("varName", fmt.Errorf("%w %q", ErrNoVariable, f.VarName))
	}
	x.Value = v
	return report.NewCompiled(n.Type, nil), nil
}
