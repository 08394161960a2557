package formula

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/signadot/rpt/debug"
)

// Lookup resolves names in formulas.
type Lookup interface {
	Lookup(ctx context.Context, name string) (any, bool, error)
}

// Vars is a Lookup over a fixed set of bindings.
type Vars map[string]any

func (v Vars) Lookup(_ context.Context, name string) (any, bool, error) {
	x, ok := v[name]
	return x, ok, nil
}

// Chain is a Lookup trying each of its elements in order.
type Chain []Lookup

func (c Chain) Lookup(ctx context.Context, name string) (any, bool, error) {
	for _, l := range c {
		v, ok, err := l.Lookup(ctx, name)
		if err != nil || ok {
			return v, ok, err
		}
	}
	return nil, false, nil
}

type EvalOption func(*evaluator)

// WithClock sets the clock used by now().
func WithClock(now func() time.Time) EvalOption {
	return func(e *evaluator) { e.now = now }
}

// Program is a parsed formula.
type Program struct {
	src  string
	node ast.Node
}

// Parse parses src. An empty or blank formula parses to a program
// evaluating to Undefined.
func Parse(src string) (*Program, error) {
	p := &Program{src: src}
	if strings.TrimSpace(src) == "" {
		return p, nil
	}
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, &Error{Formula: src, Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
	}
	p.node = tree.Node
	return p, nil
}

func (p *Program) String() string { return p.src }

// Eval evaluates p with names resolved by vars.
func (p *Program) Eval(ctx context.Context, vars Lookup, opts ...EvalOption) (any, error) {
	if p.node == nil {
		return Undefined, nil
	}
	e := &evaluator{ctx: ctx, vars: vars, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	if e.vars == nil {
		e.vars = Vars{}
	}
	v, err := e.eval(p.node)
	if err != nil {
		var fe *Error
		if !errors.As(err, &fe) {
			fe = &Error{Err: err}
		}
		fe.Formula = p.src
		if debug.Eval() {
			debug.Logf("eval %q: %v\n", p.src, err)
		}
		return nil, fe
	}
	if debug.Eval() {
		debug.Logf("eval %q = %v\n", p.src, v)
	}
	return v, nil
}

// Evaluate parses and evaluates src.
func Evaluate(ctx context.Context, src string, vars Lookup, opts ...EvalOption) (any, error) {
	p, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return p.Eval(ctx, vars, opts...)
}

type evaluator struct {
	ctx  context.Context
	vars Lookup
	now  func() time.Time
}

// errShort ends an optional member chain whose base is null.
var errShort = errors.New("short circuit")

func (e *evaluator) fail(n ast.Node, err error) error {
	var fe *Error
	if errors.As(err, &fe) || errors.Is(err, errShort) {
		return err
	}
	return &Error{Node: n.String(), Err: err}
}

func (e *evaluator) eval(node ast.Node) (any, error) {
	if err := e.ctx.Err(); err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case *ast.NilNode:
		return nil, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.IntegerNode:
		return float64(n.Value), nil
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.ConstantNode:
		return normalize(n.Value), nil
	case *ast.IdentifierNode:
		return e.ident(n)
	case *ast.UnaryNode:
		v, err := e.eval(n.Node)
		if err != nil {
			return nil, err
		}
		res, err := unary(n.Operator, v)
		if err != nil {
			return nil, e.fail(n, err)
		}
		return res, nil
	case *ast.BinaryNode:
		return e.binary(n)
	case *ast.ConditionalNode:
		c, err := e.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if Truthy(c) {
			return e.eval(n.Exp1)
		}
		return e.eval(n.Exp2)
	case *ast.ArrayNode:
		res := make([]any, len(n.Nodes))
		for i, x := range n.Nodes {
			v, err := e.eval(x)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	case *ast.MapNode:
		res := make(map[string]any, len(n.Pairs))
		for _, x := range n.Pairs {
			pair, ok := x.(*ast.PairNode)
			if !ok {
				return nil, e.fail(x, ErrUnsupported)
			}
			k, err := e.eval(pair.Key)
			if err != nil {
				return nil, err
			}
			v, err := e.eval(pair.Value)
			if err != nil {
				return nil, err
			}
			res[ToString(k)] = v
		}
		return res, nil
	case *ast.ChainNode:
		v, err := e.eval(n.Node)
		if errors.Is(err, errShort) {
			return Undefined, nil
		}
		return v, err
	case *ast.MemberNode:
		base, err := e.eval(n.Node)
		if err != nil {
			return nil, err
		}
		if n.Optional && IsNullish(base) {
			return nil, errShort
		}
		key, err := e.eval(n.Property)
		if err != nil {
			return nil, err
		}
		v, err := member(base, key)
		if err != nil {
			return nil, e.fail(n, err)
		}
		return e.resolve(n, v)
	case *ast.SliceNode:
		return e.slice(n)
	case *ast.CallNode:
		return e.call(n)
	case *ast.BuiltinNode:
		args, err := e.args(n.Arguments)
		if err != nil {
			return nil, err
		}
		fn, ok := builtins[n.Name]
		if !ok {
			return nil, e.fail(n, unknownFunction(n.Name))
		}
		v, err := fn(e, args)
		if err != nil {
			return nil, e.fail(n, err)
		}
		return v, nil
	default:
		return nil, e.fail(node, fmt.Errorf("%w: %T", ErrUnsupported, node))
	}
}

func (e *evaluator) ident(n *ast.IdentifierNode) (any, error) {
	v, ok, err := e.vars.Lookup(e.ctx, n.Value)
	if err != nil {
		return nil, e.fail(n, err)
	}
	if ok {
		return e.resolve(n, v)
	}
	if c, ok := constants[n.Value]; ok {
		return c, nil
	}
	if fn, ok := builtins[n.Value]; ok {
		return Func(func(ctx context.Context, args ...any) (any, error) {
			return fn(e, args)
		}), nil
	}
	return Undefined, nil
}

// resolve forces lazy data values and normalizes numbers.
func (e *evaluator) resolve(n ast.Node, v any) (any, error) {
	for {
		t, ok := v.(Thunk)
		if !ok {
			return normalize(v), nil
		}
		var err error
		if v, err = t(e.ctx); err != nil {
			return nil, e.fail(n, err)
		}
	}
}

func (e *evaluator) args(nodes []ast.Node) ([]any, error) {
	res := make([]any, len(nodes))
	for i, a := range nodes {
		v, err := e.eval(a)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func (e *evaluator) call(n *ast.CallNode) (any, error) {
	var fn any
	if id, ok := n.Callee.(*ast.IdentifierNode); ok {
		v, err := e.ident(id)
		if err != nil {
			return nil, err
		}
		if IsUndefined(v) {
			return nil, e.fail(n, unknownFunction(id.Value))
		}
		fn = v
	} else {
		v, err := e.eval(n.Callee)
		if err != nil {
			return nil, err
		}
		fn = v
	}
	args, err := e.args(n.Arguments)
	if err != nil {
		return nil, err
	}
	v, err := callValue(e.ctx, fn, args)
	if err != nil {
		return nil, e.fail(n, err)
	}
	return e.resolve(n, v)
}

func (e *evaluator) binary(n *ast.BinaryNode) (any, error) {
	a, err := e.eval(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Operator == "??" {
		if !IsNullish(a) {
			return a, nil
		}
		return e.eval(n.Right)
	}
	// && and || evaluate both operands.
	b, err := e.eval(n.Right)
	if err != nil {
		return nil, err
	}
	v, err := binary(n.Operator, a, b)
	if err != nil {
		return nil, e.fail(n, err)
	}
	return v, nil
}

func (e *evaluator) slice(n *ast.SliceNode) (any, error) {
	base, err := e.eval(n.Node)
	if err != nil {
		return nil, err
	}
	var args []any
	for _, x := range []ast.Node{n.From, n.To} {
		if x == nil {
			args = append(args, Undefined)
			continue
		}
		v, err := e.eval(x)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	var v any
	if s, ok := base.(string); ok {
		v, err = sliceString(s, args)
	} else if arr, ok := AsArray(base); ok {
		v, err = sliceArray(arr, args)
	} else {
		err = fmt.Errorf("%w: cannot slice %s", ErrOperator, typeName(base))
	}
	if err != nil {
		return nil, e.fail(n, err)
	}
	return v, nil
}
