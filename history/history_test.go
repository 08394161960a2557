package history

import (
	"context"
	"errors"
	"testing"

	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/tree"
)

var errDisk = errors.New("disk full")

type saver struct {
	fail  bool
	saved []string
}

func (s *saver) Save(_ context.Context, doc *report.Document) error {
	if s.fail {
		return errDisk
	}
	s.saved = append(s.saved, doc.Name)
	return nil
}

func named(n string) *report.Document {
	d := report.New("test")
	d.Name = n
	return d
}

func names(h *History) []string {
	var res []string
	for _, d := range h.snaps {
		res = append(res, d.Name)
	}
	return res
}

func TestUndoRedo(t *testing.T) {
	ctx := context.Background()
	s := &saver{}
	h := New(named("a"), s)
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("fresh history can move")
	}
	for _, n := range []string{"b", "c"} {
		if err := h.Commit(ctx, named(n)); err != nil {
			t.Fatal(err)
		}
	}
	d, ok, err := h.Undo(ctx)
	if err != nil || !ok || d.Name != "b" {
		t.Fatalf("undo: %v %v %v", d.Name, ok, err)
	}
	d, ok, _ = h.Undo(ctx)
	if !ok || d.Name != "a" {
		t.Fatalf("undo: %v %v", d.Name, ok)
	}
	d, ok, _ = h.Undo(ctx)
	if ok || d.Name != "a" {
		t.Errorf("undo at start: %v %v", d.Name, ok)
	}
	d, ok, _ = h.Redo(ctx)
	if !ok || d.Name != "b" {
		t.Errorf("redo: %v %v", d.Name, ok)
	}
	if err := h.Commit(ctx, named("x")); err != nil {
		t.Fatal(err)
	}
	if h.CanRedo() || h.Len() != 3 {
		t.Errorf("commit kept redo tail: %v", names(h))
	}
	if _, ok, _ := h.Redo(ctx); ok {
		t.Error("redo at end")
	}
	want := []string{"b", "c", "b", "a", "b", "x"}
	if len(s.saved) != len(want) {
		t.Fatalf("saved %v, want %v", s.saved, want)
	}
	for i := range want {
		if s.saved[i] != want[i] {
			t.Errorf("saved %v, want %v", s.saved, want)
			break
		}
	}
}

func TestCommitReverted(t *testing.T) {
	ctx := context.Background()
	s := &saver{}
	h := New(named("a"), s)
	if err := h.Commit(ctx, named("b")); err != nil {
		t.Fatal(err)
	}
	h.Undo(ctx)
	s.fail = true
	err := h.Commit(ctx, named("c"))
	var re *RevertedError
	if !errors.As(err, &re) || !errors.Is(err, ErrPersistence) || !errors.Is(err, errDisk) {
		t.Fatalf("got %v", err)
	}
	if h.Current().Name != "a" || !h.CanRedo() || h.Len() != 2 {
		t.Errorf("not reverted: %v at %d", names(h), h.cur)
	}
}

func TestUndoReverted(t *testing.T) {
	ctx := context.Background()
	s := &saver{}
	h := New(named("a"), s)
	h.Commit(ctx, named("b"))
	s.fail = true
	d, ok, err := h.Undo(ctx)
	if ok || !errors.Is(err, ErrPersistence) || d.Name != "b" {
		t.Errorf("got %v %v %v", d.Name, ok, err)
	}
	s.fail = false
	if _, ok, err := h.Undo(ctx); !ok || err != nil {
		t.Errorf("undo after recovery: %v %v", ok, err)
	}
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	doc := named("a")
	doc.Children = []*report.Node{report.NewNode("TextSimple", nil)}
	h := New(doc, nil)
	err := h.Edit(ctx, func(d *report.Document) (*report.Document, error) {
		return tree.Insert(d, report.Path{1}, report.NewNode("Spacer", nil))
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Current().Children) != 2 || len(doc.Children) != 1 {
		t.Errorf("edit: %d children, original %d", len(h.Current().Children), len(doc.Children))
	}
	err = h.Edit(ctx, func(d *report.Document) (*report.Document, error) {
		return tree.Remove(d, report.Path{5})
	})
	if !errors.Is(err, tree.ErrPathOutOfRange) || h.Len() != 2 {
		t.Errorf("failed edit: %v, len %d", err, h.Len())
	}
	h.Undo(ctx)
	if h.Current() != doc {
		t.Error("undo did not restore original snapshot")
	}
}
