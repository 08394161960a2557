package widget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signadot/rpt/asset"
	"github.com/signadot/rpt/debug"
	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/scope"
)

type state struct {
	reg   *Registry
	progs map[string]*formula.Program
	now   func() time.Time
	fonts map[report.FontStyle]bool
}

// Helper is passed to Widget.Compile. It is only valid for the duration of
// the call.
type Helper struct {
	// Path is the path of the node being compiled.
	Path report.Path
	// Scope holds the bindings visible to the node.
	Scope *scope.Stack
	// Document is the document being compiled.
	Document *report.Document
	// Compiled is the document being produced.
	Compiled *report.CompiledDocument
	Assets   asset.Resolver

	st *state
}

// Eval evaluates src against the current scope.
func (h *Helper) Eval(ctx context.Context, src string) (any, error) {
	p, ok := h.st.progs[src]
	if !ok {
		var err error
		p, err = formula.Parse(src)
		if err != nil {
			return nil, err
		}
		h.st.progs[src] = p
	}
	return p.Eval(ctx, h.Scope, formula.WithClock(h.st.now))
}

// EvalField evaluates src, attributing any failure to field.
func (h *Helper) EvalField(ctx context.Context, field, src string) (any, error) {
	v, err := h.Eval(ctx, src)
	if err != nil {
		return nil, FieldError(field, err)
	}
	return v, nil
}

// Push binds name to v for the nodes compiled until the matching Pop.
func (h *Helper) Push(name string, v any) {
	h.Scope.Push(name, v)
}

func (h *Helper) Pop() {
	h.Scope.Pop()
}

// Var returns the nearest variable named name, whether set by a SetVar
// ancestor or declared by the document.
func (h *Helper) Var(name string) (*scope.Var, bool) {
	return h.Scope.Var(name)
}

// UseFont records that the compiled document needs the face of f.
func (h *Helper) UseFont(f *report.Font) {
	s, ok := f.Face()
	if !ok || h.st.fonts[s] {
		return
	}
	h.st.fonts[s] = true
	h.Compiled.FontsUsed = append(h.Compiled.FontsUsed, s)
}

// CompileChildren compiles children in order. The first failure aborts.
func (h *Helper) CompileChildren(ctx context.Context, children []*report.Node) ([]*report.Compiled, error) {
	res := make([]*report.Compiled, 0, len(children))
	for i, c := range children {
		ch := *h
		ch.Path = h.Path.Child(i)
		x, err := ch.compileNode(ctx, c)
		if err != nil {
			return nil, err
		}
		res = append(res, x)
	}
	return res, nil
}

func (h *Helper) compileNode(ctx context.Context, n *report.Node) (*report.Compiled, error) {
	w := h.st.reg.Lookup(n.Type)
	if w == nil {
		err := fmt.Errorf("%w %q", ErrUnknownWidget, n.Type)
		if s := formula.Suggest(n.Type, h.st.reg.names()); s != "" {
			err = fmt.Errorf("%w %q, did you mean %q", ErrUnknownWidget, n.Type, s)
		}
		return nil, &CompileError{Path: h.Path.Clone(), Type: n.Type, Err: err}
	}
	mark := h.Scope.Len()
	if debug.Compile() {
		debug.Logf("compile %s [%s] depth %d\n", n.Type, h.Path, mark)
	}
	res, err := w.Compile(ctx, n, h)
	if d := h.Scope.Len() - mark; d != 0 {
		h.Scope.Reset(mark)
		if err == nil {
			err = fmt.Errorf("%w: %s changed depth by %d", ErrScope, n.Type, d)
		}
	}
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			return nil, err
		}
		ce = &CompileError{Path: h.Path.Clone(), Type: n.Type, Err: err}
		var fe *fieldError
		if errors.As(err, &fe) {
			ce.Field = fe.field
			ce.Err = fe.err
		}
		return nil, ce
	}
	return res, nil
}
