package transform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/copystructure"

	"github.com/signadot/rpt/debug"
	"github.com/signadot/rpt/report"
)

// Transform is the behavior of one transform type.
type Transform interface {
	Name() string
	NewItem() *report.Transform
	Apply(ctx context.Context, data any, t *report.Transform) (any, error)
}

type name string

func (n name) Name() string { return string(n) }

var (
	ErrUnknownTransform = errors.New("unknown transform")
	ErrTransformExists  = errors.New("transform exists")
	ErrNotArray         = errors.New("expected array")
	ErrNotAssignable    = errors.New("field is not assignable")
	ErrBadPatch         = errors.New("bad patch")
)

// Error reports the failing transform of a chain.
type Error struct {
	Index int
	Type  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transform %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Registry struct {
	mu sync.RWMutex
	d  map[string]Transform
}

func NewRegistry(ts ...Transform) (*Registry, error) {
	r := &Registry{d: map[string]Transform{}}
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(t Transform) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, present := r.d[t.Name()]; present {
		return fmt.Errorf("%s: %w", t.Name(), ErrTransformExists)
	}
	r.d[t.Name()] = t
	return nil
}

func (r *Registry) Lookup(s string) Transform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.d[s]
}

// Transforms returns the registered transforms sorted by name.
func (r *Registry) Transforms() []Transform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Transform, 0, len(r.d))
	for _, t := range r.d {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

// Default returns a registry holding Filter, CSV and JSONPatch.
func Default() *Registry {
	r, err := NewRegistry(Filter(), CSV(), JSONPatch())
	if err != nil {
		panic(err)
	}
	return r
}

// Chain applies lists of transforms.
type Chain struct {
	// Registry resolves transform types. Nil means Default().
	Registry *Registry
}

// Apply folds data through the first limit transforms of ts, or all of them
// if limit is negative. data itself is never modified. On failure no
// partial result is returned.
func (c Chain) Apply(ctx context.Context, data any, ts []*report.Transform, limit int) (any, error) {
	if limit < 0 || limit > len(ts) {
		limit = len(ts)
	}
	if limit == 0 {
		return data, nil
	}
	reg := c.Registry
	if reg == nil {
		reg = Default()
	}
	var (
		cur any
		err error
	)
	if data != nil {
		cur, err = copystructure.Copy(data)
		if err != nil {
			return nil, fmt.Errorf("copy data: %w", err)
		}
	}
	for i, t := range ts[:limit] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		impl := reg.Lookup(t.Type)
		if impl == nil {
			return nil, &Error{Index: i, Type: t.Type, Err: fmt.Errorf("%w %q", ErrUnknownTransform, t.Type)}
		}
		if debug.Transform() {
			debug.Logf("transform %d %s\n", i, t.Type)
		}
		cur, err = impl.Apply(ctx, cur, t)
		if err != nil {
			return nil, &Error{Index: i, Type: t.Type, Err: err}
		}
	}
	return cur, nil
}
