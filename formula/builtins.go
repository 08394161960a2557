package formula

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type builtin func(e *evaluator, args []any) (any, error)

var constants = map[string]any{
	"true":  true,
	"false": false,
	"null":  nil,
	"pi":    math.Pi,
	"PI":    math.Pi,
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"pow": numbers2("pow", math.Pow),
		"not": func(_ *evaluator, args []any) (any, error) {
			if err := arity("not", args, 1); err != nil {
				return nil, err
			}
			return !Truthy(args[0]), nil
		},
		"columnName":   columnName,
		"inArray":      inArray,
		"arrayIndexOf": arrayIndexOf,
		"string":       toStringFn,
		"str":          toStringFn,
		"substr":       substr,
		"substring":    substr,
		"now": func(e *evaluator, _ []any) (any, error) {
			return e.now().UTC().Format("2006-01-02T15:04:05Z"), nil
		},
		"lower":       stringFn("lower", strings.ToLower),
		"toLowerCase": stringFn("toLowerCase", strings.ToLower),
		"upper":       stringFn("upper", strings.ToUpper),
		"toUpperCase": stringFn("toUpperCase", strings.ToUpper),
		"sin":         number1("sin", math.Sin),
		"cos":         number1("cos", math.Cos),
		"tan":         number1("tan", math.Tan),
		"asin":        number1("asin", math.Asin),
		"acos":        number1("acos", math.Acos),
		"atan":        number1("atan", math.Atan),
		"atan2":       numbers2("atan2", math.Atan2),
	}
}

// Functions returns the sorted names of the built-in functions.
func Functions() []string {
	res := make([]string, 0, len(builtins))
	for k := range builtins {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Constants returns the sorted names of the built-in constants.
func Constants() []string {
	res := make([]string, 0, len(constants))
	for k := range constants {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

func arity(name string, args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgument, name, n, len(args))
	}
	return nil
}

func number1(name string, fn func(float64) float64) builtin {
	return func(_ *evaluator, args []any) (any, error) {
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}
		x, ok := normalize(args[0]).(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %s expected number but got %s", ErrArgument, name, typeName(args[0]))
		}
		return fn(x), nil
	}
}

func numbers2(name string, fn func(float64, float64) float64) builtin {
	return func(_ *evaluator, args []any) (any, error) {
		if err := arity(name, args, 2); err != nil {
			return nil, err
		}
		x, ok1 := normalize(args[0]).(float64)
		y, ok2 := normalize(args[1]).(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: %s expected numbers but got %s and %s", ErrArgument, name, typeName(args[0]), typeName(args[1]))
		}
		return fn(x, y), nil
	}
}

func stringFn(name string, fn func(string) string) builtin {
	return func(_ *evaluator, args []any) (any, error) {
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expected string but got %s", ErrArgument, name, typeName(args[0]))
		}
		return fn(s), nil
	}
}

func toStringFn(_ *evaluator, args []any) (any, error) {
	if err := arity("string", args, 1); err != nil {
		return nil, err
	}
	return ToString(args[0]), nil
}

// columnName converts 1 to "A", 27 to "AA" and so on.
func columnName(_ *evaluator, args []any) (any, error) {
	if err := arity("columnName", args, 1); err != nil {
		return nil, err
	}
	f, ok := normalize(args[0]).(float64)
	if !ok {
		return nil, fmt.Errorf("%w: columnName expected number but got %s", ErrArgument, typeName(args[0]))
	}
	n := int(f)
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b), nil
}

func arrayArg(name string, args []any) ([]any, error) {
	if err := arity(name, args, 2); err != nil {
		return nil, err
	}
	arr, ok := AsArray(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: %s expected array but got %s", ErrArgument, name, typeName(args[0]))
	}
	return arr, nil
}

func arrayIndexOf(_ *evaluator, args []any) (any, error) {
	arr, err := arrayArg("arrayIndexOf", args)
	if err != nil {
		return nil, err
	}
	for i, e := range arr {
		if Equal(e, args[1]) {
			return float64(i), nil
		}
	}
	return float64(-1), nil
}

func inArray(e *evaluator, args []any) (any, error) {
	i, err := arrayIndexOf(e, args)
	if err != nil {
		return nil, fmt.Errorf("inArray: %w", err)
	}
	return i.(float64) != -1, nil
}

// substr slices a string, counting negative indices from the end.
func substr(_ *evaluator, args []any) (any, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("%w: substr takes 2 or 3 arguments", ErrArgument)
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: substr expected string but got %s", ErrArgument, typeName(args[0]))
	}
	return sliceString(s, args[1:])
}
