// Package rpt compiles report documents: it applies a document's data
// transforms to external data and compiles the document against the
// result.
package rpt

import (
	"context"
	"fmt"

	"github.com/signadot/rpt/asset"
	"github.com/signadot/rpt/debug"
	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/source"
	"github.com/signadot/rpt/transform"
	"github.com/signadot/rpt/widget"
)

type Tool struct {
	Widgets    *widget.Registry
	Transforms *transform.Registry
	Assets     asset.Resolver
	// Helpers are bindings visible to every formula.
	Helpers map[string]any
}

func DefaultTool() *Tool {
	return &Tool{
		Widgets:    widget.Default(),
		Transforms: transform.Default(),
		Helpers:    map[string]any{},
	}
}

// Transform applies the first limit transforms of doc to data, or all of
// them if limit is negative.
func (t *Tool) Transform(ctx context.Context, doc *report.Document, data any, limit int) (any, error) {
	return transform.Chain{Registry: t.Transforms}.Apply(ctx, data, doc.Transforms, limit)
}

// Compile transforms data and compiles doc against it.
func (t *Tool) Compile(ctx context.Context, doc *report.Document, data any) (*report.CompiledDocument, error) {
	data, err := t.Transform(ctx, doc, data, -1)
	if err != nil {
		return nil, err
	}
	if debug.Compile() {
		debug.Logf("compiling %q with %d transforms applied\n", doc.Name, len(doc.Transforms))
	}
	c := &widget.Compiler{
		Widgets: t.Widgets,
		Assets:  t.Assets,
		Helpers: t.Helpers,
	}
	return c.Compile(ctx, doc, data)
}

// CompileSource fetches data from src and compiles doc against it.
func (t *Tool) CompileSource(ctx context.Context, doc *report.Document, src source.Source) (*report.CompiledDocument, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}
	return t.Compile(ctx, doc, data)
}
