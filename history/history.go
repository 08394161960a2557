// Package history keeps the snapshots of a document being edited and moves
// between them.
//
// Every edit is committed as a new snapshot and persisted. If persisting
// fails the edit is reverted. A History has a single writer and is not safe
// for concurrent use.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/signadot/rpt/debug"
	"github.com/signadot/rpt/report"
)

var ErrPersistence = errors.New("edit reverted")

// Saver persists the current snapshot of a document.
type Saver interface {
	Save(ctx context.Context, doc *report.Document) error
}

// RevertedError is returned when an edit was undone because it could not
// be saved.
type RevertedError struct {
	Err error
}

func (e *RevertedError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPersistence, e.Err)
}

func (e *RevertedError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

type History struct {
	saver Saver
	snaps []*report.Document
	cur   int
}

// New returns a history holding initial. A nil saver persists nothing.
func New(initial *report.Document, saver Saver) *History {
	return &History{saver: saver, snaps: []*report.Document{initial}}
}

func (h *History) Current() *report.Document { return h.snaps[h.cur] }

func (h *History) CanUndo() bool { return h.cur > 0 }

func (h *History) CanRedo() bool { return h.cur < len(h.snaps)-1 }

func (h *History) Len() int { return len(h.snaps) }

// Commit makes doc the current snapshot, dropping any redo snapshots, and
// saves it.
func (h *History) Commit(ctx context.Context, doc *report.Document) error {
	prevSnaps, prevCur := h.snaps, h.cur
	h.snaps = append(h.snaps[:h.cur+1:h.cur+1], doc)
	h.cur = len(h.snaps) - 1
	if debug.History() {
		debug.Logf("commit %d of %d\n", h.cur, len(h.snaps))
	}
	if err := h.save(ctx); err != nil {
		h.snaps, h.cur = prevSnaps, prevCur
		return err
	}
	return nil
}

// Edit commits the result of applying fn to the current snapshot.
func (h *History) Edit(ctx context.Context, fn func(*report.Document) (*report.Document, error)) error {
	doc, err := fn(h.Current())
	if err != nil {
		return err
	}
	return h.Commit(ctx, doc)
}

// Undo moves to the previous snapshot. It reports false, and does nothing,
// when there is none.
func (h *History) Undo(ctx context.Context) (*report.Document, bool, error) {
	if !h.CanUndo() {
		return h.Current(), false, nil
	}
	return h.move(ctx, -1)
}

// Redo moves to the next snapshot. It reports false, and does nothing,
// when there is none.
func (h *History) Redo(ctx context.Context) (*report.Document, bool, error) {
	if !h.CanRedo() {
		return h.Current(), false, nil
	}
	return h.move(ctx, 1)
}

func (h *History) move(ctx context.Context, d int) (*report.Document, bool, error) {
	h.cur += d
	if debug.History() {
		debug.Logf("move to %d of %d\n", h.cur, len(h.snaps))
	}
	if err := h.save(ctx); err != nil {
		h.cur -= d
		return h.Current(), false, err
	}
	return h.Current(), true, nil
}

func (h *History) save(ctx context.Context) error {
	if h.saver == nil {
		return nil
	}
	if err := h.saver.Save(ctx, h.Current()); err != nil {
		return &RevertedError{Err: err}
	}
	return nil
}
