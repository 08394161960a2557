// Package scope implements the binding stack used while compiling a
// document. Bindings are pushed before descending into a subtree and popped
// after it returns; lookups see the most recent binding of a name.
package scope

import (
	"context"
	"fmt"
)

// Thunk is a binding computed on every lookup.
type Thunk func(ctx context.Context) (any, error)

// Var is a mutable binding. Lookups see its current value.
type Var struct {
	Name  string
	Value any
}

type binding struct {
	name  string
	value any
}

// Stack is a LIFO list of named bindings. It implements formula.Lookup.
// A Stack is not safe for concurrent use.
type Stack struct {
	bindings []binding
}

func New() *Stack {
	return &Stack{}
}

// Push binds name to v. v may be a Thunk or a *Var.
func (s *Stack) Push(name string, v any) {
	s.bindings = append(s.bindings, binding{name: name, value: v})
}

// Pop removes the most recent binding. Popping an empty stack panics.
func (s *Stack) Pop() {
	if len(s.bindings) == 0 {
		panic("scope: pop of empty stack")
	}
	s.bindings[len(s.bindings)-1] = binding{}
	s.bindings = s.bindings[:len(s.bindings)-1]
}

func (s *Stack) Len() int {
	return len(s.bindings)
}

// Reset pops bindings until the stack has depth n.
func (s *Stack) Reset(n int) {
	for s.Len() > n {
		s.Pop()
	}
}

// Binding returns the most recent binding of name without resolving it.
func (s *Stack) Binding(name string) (any, bool) {
	for i := len(s.bindings) - 1; i >= 0; i-- {
		if s.bindings[i].name == name {
			return s.bindings[i].value, true
		}
	}
	return nil, false
}

// Lookup returns the value of the most recent binding of name, calling it
// if it is a Thunk.
func (s *Stack) Lookup(ctx context.Context, name string) (any, bool, error) {
	v, ok := s.Binding(name)
	if !ok {
		return nil, false, nil
	}
	switch x := v.(type) {
	case Thunk:
		res, err := x(ctx)
		if err != nil {
			return nil, true, fmt.Errorf("%s: %w", name, err)
		}
		return res, true, nil
	case *Var:
		return x.Value, true, nil
	}
	return v, true, nil
}

// Var returns the most recent *Var bound to name, skipping other bindings
// of the same name.
func (s *Stack) Var(name string) (*Var, bool) {
	for i := len(s.bindings) - 1; i >= 0; i-- {
		b := s.bindings[i]
		if b.name != name {
			continue
		}
		if v, ok := b.value.(*Var); ok {
			return v, true
		}
	}
	return nil, false
}

// Names returns the bound names, most recent first, without duplicates.
func (s *Stack) Names() []string {
	seen := map[string]bool{}
	var res []string
	for i := len(s.bindings) - 1; i >= 0; i-- {
		n := s.bindings[i].name
		if !seen[n] {
			seen[n] = true
			res = append(res, n)
		}
	}
	return res
}
