package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/signadot/rpt/report"
)

// Widget is the behavior of one node type.
type Widget interface {
	// Name is the node type the widget implements.
	Name() string
	// NewItem returns a new node of this type with default fields.
	NewItem() *report.Node
	// Compile compiles n using h for evaluation and children.
	Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error)
}

type name string

func (n name) Name() string   { return string(n) }
func (n name) String() string { return string(n) }

var (
	ErrUnknownWidget = errors.New("unknown widget")
	ErrWidgetExists  = errors.New("widget exists")
	ErrNotArray      = errors.New("expected array")
	ErrBadValue      = errors.New("bad value")
	ErrUndefined     = errors.New("value is undefined")
	ErrNoVariable    = errors.New("no such variable")
	ErrUnknownAdjust = errors.New("unknown adjust")
	ErrScope         = errors.New("unbalanced scope")
)

// CompileError reports the node, and if known the field, whose compilation
// failed.
type CompileError struct {
	Path  report.Path
	Type  string
	Field string
	Err   error
}

func (e *CompileError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("compile %s [%s] field %s: %v", e.Type, e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("compile %s [%s]: %v", e.Type, e.Path, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

// FieldError attributes err to field of the node being compiled.
func FieldError(field string, err error) error {
	return &fieldError{field: field, err: err}
}
