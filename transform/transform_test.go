package transform

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
)

func filterItem(field, cond string) *report.Transform {
	return report.NewTransform("Filter", map[string]any{"field": field, "condition": cond})
}

func apply(t *testing.T, data any, ts ...*report.Transform) any {
	t.Helper()
	res, err := Chain{}.Apply(context.Background(), data, ts, -1)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestEmptyChain(t *testing.T) {
	data := map[string]any{"a": 1.0}
	res := apply(t, data)
	if diff := cmp.Diff(data, res); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		data any
		tr   *report.Transform
		want any
	}{
		{
			name: "nested",
			data: map[string]any{"myArr": []any{1.0, 2.0, 3.0, 4.0, 5.0}},
			tr:   filterItem("data.myArr", "item > 3"),
			want: map[string]any{"myArr": []any{4.0, 5.0}},
		},
		{
			name: "root",
			data: []any{5.0, 1.0, 7.0},
			tr:   filterItem("data", "item < 6"),
			want: []any{5.0, 1.0},
		},
		{
			name: "index",
			data: map[string]any{"g": []any{[]any{"a", "bb", "c"}}},
			tr:   filterItem("data.g[0]", "item.length == 1"),
			want: map[string]any{"g": []any{[]any{"a", "c"}}},
		},
		{
			name: "no condition",
			data: []any{1.0},
			tr:   filterItem("data", ""),
			want: []any{1.0},
		},
		{
			name: "no field",
			data: []any{1.0},
			tr:   filterItem("", "false"),
			want: []any{1.0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := apply(t, tt.data, tt.tr)
			if diff := cmp.Diff(tt.want, res); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestChainDoesNotModifyInput(t *testing.T) {
	data := map[string]any{"myArr": []any{1.0, 2.0, 3.0, 4.0, 5.0}}
	apply(t, data, filterItem("data.myArr", "item > 3"))
	if len(data["myArr"].([]any)) != 5 {
		t.Errorf("input modified: %v", data)
	}
}

func TestChainErrors(t *testing.T) {
	tests := []struct {
		name  string
		ts    []*report.Transform
		index int
		err   error
	}{
		{
			name:  "unknown",
			ts:    []*report.Transform{filterItem("data.arr", "true"), report.NewTransform("Sort", nil)},
			index: 1,
			err:   ErrUnknownTransform,
		},
		{
			name: "not array",
			ts:   []*report.Transform{filterItem("data.x", "true")},
			err:  ErrNotArray,
		},
		{
			name: "not assignable",
			ts:   []*report.Transform{filterItem("data.x + []", "true")},
			err:  ErrNotAssignable,
		},
		{
			name: "condition",
			ts:   []*report.Transform{filterItem("data.arr", "item.constructor")},
			err:  formula.ErrPropertyNotAllowed,
		},
	}
	data := map[string]any{"x": 1.0, "arr": []any{map[string]any{}}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Chain{}.Apply(context.Background(), data, tt.ts, -1)
			if res != nil {
				t.Errorf("partial result %v", res)
			}
			var te *Error
			if !errors.As(err, &te) {
				t.Fatalf("got %v, want *Error", err)
			}
			if te.Index != tt.index || !errors.Is(err, tt.err) {
				t.Errorf("got %v at %d", err, te.Index)
			}
		})
	}
}

func TestNullData(t *testing.T) {
	addOp := report.NewTransform("JSONPatch", map[string]any{
		"patch": []any{map[string]any{"op": "add", "path": "/a", "value": 1.0}},
	})
	tests := []struct {
		name string
		ts   []*report.Transform
		err  error
	}{
		{
			name: "identity filter",
			ts:   []*report.Transform{filterItem("", "")},
		},
		{
			name: "empty patch",
			ts:   []*report.Transform{JSONPatch().NewItem()},
		},
		{
			name: "filter root",
			ts:   []*report.Transform{filterItem("data", "item > 3")},
			err:  ErrNotArray,
		},
		{
			name: "filter member",
			ts:   []*report.Transform{filterItem("data.arr", "true")},
			err:  formula.ErrPropertyNotAllowed,
		},
		{
			name: "patch",
			ts:   []*report.Transform{addOp},
			err:  ErrBadPatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Chain{}.Apply(context.Background(), nil, tt.ts, -1)
			if tt.err == nil {
				if err != nil || res != nil {
					t.Errorf("got %v %v, want nil data", res, err)
				}
				return
			}
			var te *Error
			if !errors.As(err, &te) || te.Index != 0 || !errors.Is(err, tt.err) {
				t.Errorf("got %v, want %v at 0", err, tt.err)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	ts := []*report.Transform{
		filterItem("data", "item > 1"),
		filterItem("data", "item > 2"),
	}
	data := []any{1.0, 2.0, 3.0}
	tests := []struct {
		limit int
		want  any
	}{
		{limit: 0, want: []any{1.0, 2.0, 3.0}},
		{limit: 1, want: []any{2.0, 3.0}},
		{limit: 2, want: []any{3.0}},
		{limit: 9, want: []any{3.0}},
		{limit: -1, want: []any{3.0}},
	}
	for _, tt := range tests {
		res, err := Chain{}.Apply(context.Background(), data, ts, tt.limit)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want, res); diff != "" {
			t.Errorf("limit %d (-want +got):\n%s", tt.limit, diff)
		}
	}
}

func TestCSV(t *testing.T) {
	tr := report.NewTransform("CSV", map[string]any{
		"rows": []any{
			map[string]any{"source": "", "cols": []any{`"name"`, `"qty"`}},
			map[string]any{"source": "data.items", "cols": []any{"item.name", "item.qty"}},
		},
	})
	data := map[string]any{"items": []any{
		map[string]any{"name": "č", "qty": 1.0},
		map[string]any{"name": "b", "qty": 2.5},
	}}
	res := apply(t, data, tr)
	want := [][]string{{"name", "qty"}, {"č", "1"}, {"b", "2.5"}}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, want, report.TargetCSVUTF8); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "name,qty\nč,1\nb,2.5\n" {
		t.Errorf("utf-8: %q", got)
	}
	buf.Reset()
	if err := WriteCSV(&buf, want, report.TargetCSVWindows1250); err != nil {
		t.Fatal(err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, []byte("name,qty\n\xe8,1\nb,2.5\n")) {
		t.Errorf("windows-1250: %q", got)
	}
	if err := WriteCSV(&buf, want, report.TargetPDF); !errors.Is(err, report.ErrBadTarget) {
		t.Errorf("got %v, want ErrBadTarget", err)
	}
}

func TestTable(t *testing.T) {
	got, err := Table([]any{[]any{"a", 1.0}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{"a", "1"}}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := Table("x"); !errors.Is(err, ErrNotArray) {
		t.Errorf("got %v", err)
	}
}

func TestJSONPatch(t *testing.T) {
	tr := report.NewTransform("JSONPatch", map[string]any{"patch": []any{
		map[string]any{"op": "add", "path": "/b", "value": 2.0},
		map[string]any{"op": "remove", "path": "/a"},
	}})
	res := apply(t, map[string]any{"a": 1.0}, tr)
	if diff := cmp.Diff(map[string]any{"b": 2.0}, res); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	bad := report.NewTransform("JSONPatch", map[string]any{"patch": []any{
		map[string]any{"op": "frobnicate", "path": "/a"},
	}})
	if _, err := (Chain{}).Apply(context.Background(), map[string]any{}, []*report.Transform{bad}, -1); !errors.Is(err, ErrBadPatch) {
		t.Errorf("got %v, want ErrBadPatch", err)
	}
}

func TestRegistry(t *testing.T) {
	if _, err := NewRegistry(Filter(), Filter()); !errors.Is(err, ErrTransformExists) {
		t.Errorf("got %v", err)
	}
	var names []string
	for _, tr := range Default().Transforms() {
		names = append(names, tr.Name())
		if tr.NewItem().Type != tr.Name() {
			t.Errorf("%s: bad new item", tr.Name())
		}
	}
	if diff := cmp.Diff([]string{"CSV", "Filter", "JSONPatch"}, names); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
