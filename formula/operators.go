package formula

import (
	"fmt"
	"math"
	"strings"
)

func unary(op string, v any) (any, error) {
	switch op {
	case "!", "not":
		return !Truthy(v), nil
	case "-", "+":
		f, ok := normalize(v).(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %s%s", ErrOperator, op, typeName(v))
		}
		if op == "-" {
			return -f, nil
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: operator %q", ErrUnsupported, op)
}

func binary(op string, a, b any) (any, error) {
	a, b = normalize(a), normalize(b)
	switch op {
	case "==":
		return Equal(a, b), nil
	case "!=":
		return !Equal(a, b), nil
	case "<", ">", "<=", ">=":
		return compare(op, a, b)
	case "&&", "and":
		if !Truthy(a) {
			return a, nil
		}
		return b, nil
	case "||", "or":
		if Truthy(a) {
			return a, nil
		}
		return b, nil
	case "in":
		return in(a, b)
	case "contains", "startsWith", "endsWith":
		sa, ok1 := a.(string)
		sb, ok2 := b.(string)
		if !ok1 || !ok2 {
			return nil, opErr(op, a, b)
		}
		switch op {
		case "contains":
			return strings.Contains(sa, sb), nil
		case "startsWith":
			return strings.HasPrefix(sa, sb), nil
		default:
			return strings.HasSuffix(sa, sb), nil
		}
	}

	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch op {
			case "+":
				return x + y, nil
			case "-":
				return x - y, nil
			case "*":
				return x * y, nil
			case "/":
				return x / y, nil
			case "%":
				return math.Mod(x, y), nil
			case "^", "**":
				return math.Pow(x, y), nil
			}
		}
	}
	if op == "+" {
		if x, ok := a.(string); ok {
			return x + ToString(b), nil
		}
		if x, ok := AsArray(a); ok {
			if y, ok := AsArray(b); ok {
				res := make([]any, 0, len(x)+len(y))
				return append(append(res, x...), y...), nil
			}
		}
	}
	return nil, opErr(op, a, b)
}

func opErr(op string, a, b any) error {
	return fmt.Errorf("%w: operator %s is not defined for %s and %s", ErrOperator, op, typeName(a), typeName(b))
}

func compare(op string, a, b any) (any, error) {
	var c int
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return nil, opErr(op, a, b)
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			return false, nil
		}
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	case string:
		y, ok := b.(string)
		if !ok {
			return nil, opErr(op, a, b)
		}
		c = strings.Compare(x, y)
	default:
		return nil, opErr(op, a, b)
	}
	switch op {
	case "<":
		return c < 0, nil
	case ">":
		return c > 0, nil
	case "<=":
		return c <= 0, nil
	default:
		return c >= 0, nil
	}
}

func in(a, b any) (any, error) {
	if arr, ok := AsArray(b); ok {
		for _, e := range arr {
			if Equal(a, e) {
				return true, nil
			}
		}
		return false, nil
	}
	if m, ok := b.(map[string]any); ok {
		k := ToString(a)
		if denied(k) {
			return false, nil
		}
		_, ok := m[k]
		return ok, nil
	}
	return nil, opErr("in", a, b)
}
