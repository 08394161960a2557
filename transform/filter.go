package transform

import (
	"context"
	"fmt"
	"strconv"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
)

var filterT = &filter{name: "Filter"}

// Filter removes the elements of an array in the data for which a
// condition is falsy. field addresses the array, e.g. "data.rows", and the
// condition sees each element as item. The array is replaced in data,
// which is modified.
func Filter() Transform { return filterT }

type filterFields struct {
	Field     string `json:"field"`
	Condition string `json:"condition"`
}

type filter struct{ name }

func (f *filter) NewItem() *report.Transform {
	return report.NewTransform(f.Name(), map[string]any{"field": "", "condition": ""})
}

func (f *filter) Apply(ctx context.Context, data any, t *report.Transform) (any, error) {
	var ff filterFields
	if err := t.Decode(&ff); err != nil {
		return nil, err
	}
	if ff.Field == "" || ff.Condition == "" {
		return data, nil
	}
	path, err := fieldPath(ff.Field)
	if err != nil {
		return nil, err
	}
	vars := formula.Vars{"data": data}
	v, err := formula.Evaluate(ctx, ff.Field, vars)
	if err != nil {
		return nil, err
	}
	arr, ok := formula.AsArray(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrNotArray, ff.Field, v)
	}
	cond, err := formula.Parse(ff.Condition)
	if err != nil {
		return nil, err
	}
	kept := arr[:0:0]
	for i := 0; i < len(arr); i++ {
		vars["item"] = arr[i]
		ok, err := cond.Eval(ctx, vars)
		if err != nil {
			return nil, err
		}
		if formula.Truthy(ok) {
			kept = append(kept, arr[i])
		}
	}
	return assign(data, path, kept)
}

// fieldPath returns the keys of a formula of the form data.a[0].b, or
// ErrNotAssignable for any other formula.
func fieldPath(src string) ([]any, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", formula.ErrSyntax, err)
	}
	var keys []any
	n := tree.Node
	for {
		switch x := n.(type) {
		case *ast.IdentifierNode:
			if x.Value != "data" {
				return nil, fmt.Errorf("%w: %s", ErrNotAssignable, src)
			}
			for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
				keys[i], keys[j] = keys[j], keys[i]
			}
			return keys, nil
		case *ast.MemberNode:
			switch p := x.Property.(type) {
			case *ast.StringNode:
				keys = append(keys, p.Value)
			case *ast.IntegerNode:
				keys = append(keys, p.Value)
			default:
				return nil, fmt.Errorf("%w: %s", ErrNotAssignable, src)
			}
			n = x.Node
		default:
			return nil, fmt.Errorf("%w: %s", ErrNotAssignable, src)
		}
	}
}

// assign replaces the value at path in data with v.
func assign(data any, path []any, v any) (any, error) {
	if len(path) == 0 {
		return v, nil
	}
	switch k := path[0].(type) {
	case string:
		m, ok := data.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q of %T", ErrNotAssignable, k, data)
		}
		x, err := assign(m[k], path[1:], v)
		if err != nil {
			return nil, err
		}
		m[k] = x
		return m, nil
	case int:
		a, ok := data.([]any)
		if !ok || k < 0 || k >= len(a) {
			return nil, fmt.Errorf("%w: [%s] of %T", ErrNotAssignable, strconv.Itoa(k), data)
		}
		x, err := assign(a[k], path[1:], v)
		if err != nil {
			return nil, err
		}
		a[k] = x
		return a, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNotAssignable, path[0])
}
