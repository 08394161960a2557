package tree

import (
	"errors"
	"fmt"

	"github.com/signadot/rpt/debug"
	"github.com/signadot/rpt/report"
)

var (
	ErrEmptyPath      = errors.New("empty path")
	ErrPathOutOfRange = errors.New("path out of range")
	ErrInvalidMove    = errors.New("invalid move")
)

// PathError records the operation and path of a failed edit.
type PathError struct {
	Op   string
	Path report.Path
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func pathErr(op string, p report.Path, err error) error {
	return &PathError{Op: op, Path: p.Clone(), Err: err}
}

// Children returns the child list addressed by p. The empty path addresses
// the document's top level children.
func Children(doc *report.Document, p report.Path) ([]*report.Node, error) {
	nodes := doc.Children
	for i, j := range p {
		if j < 0 || j >= len(nodes) {
			return nil, pathErr("children", p, fmt.Errorf("%w: index %d of %d at depth %d", ErrPathOutOfRange, j, len(nodes), i))
		}
		nodes = nodes[j].Children
	}
	return nodes, nil
}

// Find returns the node at p.
func Find(doc *report.Document, p report.Path) (*report.Node, error) {
	if len(p) == 0 {
		return nil, pathErr("find", p, ErrEmptyPath)
	}
	nodes, err := Children(doc, p.Parent())
	if err != nil {
		return nil, pathErr("find", p, errors.Unwrap(err))
	}
	i := p.Last()
	if i < 0 || i >= len(nodes) {
		return nil, pathErr("find", p, fmt.Errorf("%w: index %d of %d", ErrPathOutOfRange, i, len(nodes)))
	}
	return nodes[i], nil
}

// Remove returns a document without the node at p.
func Remove(doc *report.Document, p report.Path) (*report.Document, error) {
	return edit(doc, "remove", p, func(nodes []*report.Node, i int) ([]*report.Node, error) {
		if i < 0 || i >= len(nodes) {
			return nil, fmt.Errorf("%w: index %d of %d", ErrPathOutOfRange, i, len(nodes))
		}
		out := make([]*report.Node, 0, len(nodes)-1)
		out = append(out, nodes[:i]...)
		return append(out, nodes[i+1:]...), nil
	})
}

// Insert returns a document with n inserted at p, shifting later siblings.
// The last index of p may equal the length of the parent's children, which
// appends.
func Insert(doc *report.Document, p report.Path, n *report.Node) (*report.Document, error) {
	return edit(doc, "insert", p, func(nodes []*report.Node, i int) ([]*report.Node, error) {
		if i < 0 || i > len(nodes) {
			return nil, fmt.Errorf("%w: index %d of %d", ErrPathOutOfRange, i, len(nodes))
		}
		out := make([]*report.Node, 0, len(nodes)+1)
		out = append(out, nodes[:i]...)
		out = append(out, n)
		return append(out, nodes[i:]...), nil
	})
}

// Update returns a document with the node at p replaced by n.
func Update(doc *report.Document, p report.Path, n *report.Node) (*report.Document, error) {
	return edit(doc, "update", p, func(nodes []*report.Node, i int) ([]*report.Node, error) {
		if i < 0 || i >= len(nodes) {
			return nil, fmt.Errorf("%w: index %d of %d", ErrPathOutOfRange, i, len(nodes))
		}
		out := make([]*report.Node, len(nodes))
		copy(out, nodes)
		out[i] = n
		return out, nil
	})
}

// edit rebuilds the spine down to the parent of p and lets fn produce the
// parent's new child list.
func edit(doc *report.Document, op string, p report.Path, fn func([]*report.Node, int) ([]*report.Node, error)) (*report.Document, error) {
	if len(p) == 0 {
		return nil, pathErr(op, p, ErrEmptyPath)
	}
	if debug.Tree() {
		debug.Logf("tree %s [%s]\n", op, p)
	}
	children, err := rebuild(doc.Children, p, 0, fn)
	if err != nil {
		return nil, pathErr(op, p, err)
	}
	return doc.WithChildren(children), nil
}

func rebuild(nodes []*report.Node, p report.Path, depth int, fn func([]*report.Node, int) ([]*report.Node, error)) ([]*report.Node, error) {
	i := p[depth]
	if depth == len(p)-1 {
		return fn(nodes, i)
	}
	if i < 0 || i >= len(nodes) {
		return nil, fmt.Errorf("%w: index %d of %d at depth %d", ErrPathOutOfRange, i, len(nodes), depth)
	}
	sub, err := rebuild(nodes[i].Children, p, depth+1, fn)
	if err != nil {
		return nil, err
	}
	out := make([]*report.Node, len(nodes))
	copy(out, nodes)
	out[i] = nodes[i].WithChildren(sub)
	return out, nil
}
