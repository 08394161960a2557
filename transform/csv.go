package transform

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"

	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
)

var csvT = &csvTransform{name: "CSV"}

// CSV turns the data into a table of strings. Each row definition yields
// one row, or if it has a source, one row per element of the source with
// the element bound to item.
func CSV() Transform { return csvT }

type Row struct {
	Source string   `json:"source"`
	Cols   []string `json:"cols"`
}

type csvFields struct {
	Rows []Row `json:"rows"`
}

type csvTransform struct{ name }

func (c *csvTransform) NewItem() *report.Transform {
	return report.NewTransform(c.Name(), map[string]any{
		"rows": []any{
			map[string]any{"source": "", "cols": []any{"", "", ""}},
		},
	})
}

func (c *csvTransform) Apply(ctx context.Context, data any, t *report.Transform) (any, error) {
	var f csvFields
	if err := t.Decode(&f); err != nil {
		return nil, err
	}
	vars := formula.Vars{"data": data}
	table := [][]string{}
	for i, r := range f.Rows {
		if r.Source == "" {
			row, err := csvRow(ctx, r.Cols, vars)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			table = append(table, row)
			continue
		}
		v, err := formula.Evaluate(ctx, r.Source, vars)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		arr, ok := formula.AsArray(v)
		if !ok {
			return nil, fmt.Errorf("row %d: %w: source %s is %T", i, ErrNotArray, r.Source, v)
		}
		for _, item := range arr {
			vars["item"] = item
			row, err := csvRow(ctx, r.Cols, vars)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			table = append(table, row)
		}
		delete(vars, "item")
	}
	return table, nil
}

func csvRow(ctx context.Context, cols []string, vars formula.Vars) ([]string, error) {
	row := make([]string, len(cols))
	for i, src := range cols {
		v, err := formula.Evaluate(ctx, src, vars)
		if err != nil {
			return nil, err
		}
		row[i] = formula.ToString(v)
	}
	return row, nil
}

// Table returns the table produced by CSV from data which has been round
// tripped through a generic encoding.
func Table(v any) ([][]string, error) {
	switch x := v.(type) {
	case [][]string:
		return x, nil
	case []any:
		res := make([][]string, len(x))
		for i, r := range x {
			cells, ok := r.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: row %d is %T", ErrNotArray, i, r)
			}
			res[i] = make([]string, len(cells))
			for j, c := range cells {
				res[i][j] = formula.ToString(c)
			}
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: table is %T", ErrNotArray, v)
}

// WriteCSV writes table to w in the encoding of target, which must be a
// csv target.
func WriteCSV(w io.Writer, table [][]string, target report.Target) error {
	var closer io.Closer
	switch target {
	case report.TargetCSVUTF8:
	case report.TargetCSVWindows1250:
		w = charmap.Windows1250.NewEncoder().Writer(w)
		closer, _ = w.(io.Closer)
	default:
		return fmt.Errorf("%w: %s is not a csv target", report.ErrBadTarget, target)
	}
	if err := csv.NewWriter(w).WriteAll(table); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}
