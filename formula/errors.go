package formula

import (
	"errors"
	"fmt"

	"github.com/agext/levenshtein"
)

var (
	ErrSyntax             = errors.New("syntax error")
	ErrPropertyNotAllowed = errors.New("property not allowed")
	ErrOperator           = errors.New("bad operands")
	ErrNotCallable        = errors.New("not callable")
	ErrUnknownFunction    = errors.New("unknown function")
	ErrArgument           = errors.New("bad argument")
	ErrUnsupported        = errors.New("unsupported expression")
)

// Error is an evaluation failure. Node is the part of the formula at fault.
type Error struct {
	Formula string
	Node    string
	Err     error
}

func (e *Error) Error() string {
	if e.Node == "" || e.Node == e.Formula {
		return fmt.Sprintf("%v\nformula: %s", e.Err, e.Formula)
	}
	return fmt.Sprintf("%v at %s\nformula: %s", e.Err, e.Node, e.Formula)
}

func (e *Error) Unwrap() error { return e.Err }

// Suggest returns the candidate closest to name, or "" if none is close.
func Suggest(name string, candidates []string) string {
	best, bestD := "", 3
	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if d < bestD || (d == bestD && best != "" && c < best) {
			best, bestD = c, d
		}
	}
	return best
}

func unknownFunction(name string) error {
	if s := Suggest(name, Functions()); s != "" {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownFunction, name, s)
	}
	return fmt.Errorf("%w %q", ErrUnknownFunction, name)
}
