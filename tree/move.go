package tree

import (
	"fmt"

	"github.com/signadot/rpt/report"
)

// AdjustAfterRemoval returns dest corrected for the removal of the node at
// removed, so that inserting at the result addresses the slot dest meant
// before the removal.
//
// It fails with ErrInvalidMove when dest lies inside the removed subtree.
// When dest equals removed, dest is returned unchanged.
func AdjustAfterRemoval(dest, removed report.Path) (report.Path, error) {
	if len(dest) == 0 || len(removed) == 0 {
		return nil, ErrEmptyPath
	}
	res := dest.Clone()
	n := min(len(dest), len(removed))
	for i := 0; i < n; i++ {
		last := i == len(removed)-1
		switch {
		case removed[i] > dest[i]:
			return res, nil
		case removed[i] < dest[i]:
			if last {
				res[i]--
			}
			return res, nil
		case last && len(dest) > len(removed):
			return nil, fmt.Errorf("%w: [%s] is inside [%s]", ErrInvalidMove, dest, removed)
		}
	}
	return res, nil
}

type MoveMode int

const (
	MoveNode MoveMode = iota
	CopyNode
)

func (m MoveMode) String() string {
	if m == CopyNode {
		return "copy"
	}
	return "move"
}

// Move relocates the node at from to the slot to, where to is given in
// terms of the document before the node is removed. CopyNode mode inserts a
// deep copy at to and leaves from in place.
//
// Moving a node onto its own path is a no-op.
func Move(doc *report.Document, from, to report.Path, mode MoveMode) (*report.Document, error) {
	n, err := Find(doc, from)
	if err != nil {
		return nil, err
	}
	if mode == CopyNode {
		return Insert(doc, to, n.Clone())
	}
	if from.Equal(to) {
		return doc, nil
	}
	dest, err := AdjustAfterRemoval(to, from)
	if err != nil {
		return nil, pathErr("move", to, err)
	}
	removed, err := Remove(doc, from)
	if err != nil {
		return nil, err
	}
	return Insert(removed, dest, n)
}
