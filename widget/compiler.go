package widget

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/copystructure"

	"github.com/signadot/rpt/asset"
	"github.com/signadot/rpt/debug"
	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/scope"
)

// Compiler compiles documents against external data.
//
// A Compiler may be used for many documents, but a single Compile call runs
// on one goroutine and its scope is private to it.
type Compiler struct {
	// Widgets maps node types to widgets. Nil means Default().
	Widgets *Registry
	// Assets resolves local image references. Nil leaves them unresolved.
	Assets asset.Resolver
	// Helpers are extra bindings visible to every formula, such as
	// functions.
	Helpers map[string]any
	// Now is the clock used by now(). Nil means time.Now.
	Now func() time.Time
}

// Compile compiles doc with data bound to "data" and the document header
// bound to "report".
func (c *Compiler) Compile(ctx context.Context, doc *report.Document, data any) (*report.CompiledDocument, error) {
	if data != nil {
		cp, err := copystructure.Copy(data)
		if err != nil {
			return nil, fmt.Errorf("copy data: %w", err)
		}
		data = cp
	}
	header, err := doc.Map()
	if err != nil {
		return nil, err
	}
	reg := c.Widgets
	if reg == nil {
		reg = Default()
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}
	res := &report.CompiledDocument{
		Name:       doc.Name,
		Target:     doc.Target,
		Properties: report.CompiledProperties{Properties: doc.Properties},
	}
	st := &state{
		reg:   reg,
		progs: map[string]*formula.Program{},
		now:   now,
		fonts: map[report.FontStyle]bool{},
	}
	h := &Helper{
		Scope:    scope.New(),
		Document: doc,
		Compiled: res,
		Assets:   c.Assets,
		st:       st,
	}
	defer h.Scope.Reset(0)

	names := make([]string, 0, len(c.Helpers))
	for k := range c.Helpers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		h.Push(k, c.Helpers[k])
	}
	h.Push("data", data)
	h.Push("report", header)
	for _, v := range doc.Variables {
		x, err := h.Eval(ctx, v.Formula)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		h.Push(v.Name, &scope.Var{Name: v.Name, Value: x})
	}
	mark := h.Scope.Len()

	h.UseFont(doc.Properties.Font)
	if doc.Properties.FileName != "" {
		x, err := h.Eval(ctx, doc.Properties.FileName)
		if err != nil {
			return nil, fmt.Errorf("fileName: %w", err)
		}
		s, ok := x.(string)
		if !ok {
			return nil, fmt.Errorf("fileName: %w: expected string, got %T", ErrBadValue, x)
		}
		res.Properties.FileName = s
	}

	children, err := h.CompileChildren(ctx, doc.Children)
	if err != nil {
		return nil, err
	}
	if h.Scope.Len() != mark {
		return nil, fmt.Errorf("%w: depth %d after compile, want %d", ErrScope, h.Scope.Len(), mark)
	}
	res.Children = children
	if res.FontsUsed == nil {
		res.FontsUsed = []report.FontStyle{}
	}
	if debug.Compile() {
		debug.Logf("compiled %q: %d children, %d fonts\n", doc.Name, len(children), len(res.FontsUsed))
	}
	return res, nil
}
