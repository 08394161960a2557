package formula

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"
)

// member reads key of base, consulting the guard.
func member(base, key any) (any, error) {
	base = normalize(base)
	if IsNullish(base) {
		return nil, fmt.Errorf("%w: %v of %s", ErrPropertyNotAllowed, ToString(key), typeName(base))
	}
	if i, ok := normalize(key).(float64); ok {
		return index(base, i)
	}
	k := ToString(key)
	if denied(k) {
		return nil, fmt.Errorf("%w: %q", ErrPropertyNotAllowed, k)
	}
	if m, ok := base.(map[string]any); ok {
		v, ok := m[k]
		if !ok {
			return Undefined, nil
		}
		return guarded(base, k, v)
	}
	rv := reflect.ValueOf(base)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		mv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return Undefined, nil
		}
		return guarded(base, k, mv.Interface())
	}
	if !IsPropertyAllowed(base, k) {
		return nil, fmt.Errorf("%w: %q of %s", ErrPropertyNotAllowed, k, typeName(base))
	}
	if s, ok := base.(string); ok {
		return stringMember(s, k)
	}
	if arr, ok := AsArray(base); ok {
		return arrayMember(arr, k)
	}
	if v, ok := hostMember(rv, k); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q of %s", ErrPropertyNotAllowed, k, typeName(base))
}

func guarded(base any, k string, v any) (any, error) {
	if !IsPropertyAllowed(base, k) {
		return nil, fmt.Errorf("%w: %q of %s", ErrPropertyNotAllowed, k, typeName(base))
	}
	return v, nil
}

func index(base any, f float64) (any, error) {
	i := int(f)
	if float64(i) != f {
		return Undefined, nil
	}
	if s, ok := base.(string); ok {
		r := []rune(s)
		if i < 0 || i >= len(r) {
			return Undefined, nil
		}
		return string(r[i]), nil
	}
	if arr, ok := AsArray(base); ok {
		if i < 0 || i >= len(arr) {
			return Undefined, nil
		}
		return arr[i], nil
	}
	// numeric keys of maps
	return member(base, formatNumber(f))
}

func stringMember(s, k string) (any, error) {
	switch k {
	case "length":
		return float64(utf8.RuneCountInString(s)), nil
	case "substring":
		return Func(func(_ context.Context, args ...any) (any, error) {
			return substring(s, args)
		}), nil
	case "replaceAll":
		return Func(func(_ context.Context, args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%w: replaceAll takes 2 arguments", ErrArgument)
			}
			return strings.ReplaceAll(s, ToString(args[0]), ToString(args[1])), nil
		}), nil
	}
	return nil, fmt.Errorf("%w: %q of string", ErrPropertyNotAllowed, k)
}

func arrayMember(arr []any, k string) (any, error) {
	switch k {
	case "length":
		return float64(len(arr)), nil
	case "slice":
		return Func(func(_ context.Context, args ...any) (any, error) {
			return sliceArray(arr, args)
		}), nil
	case "join":
		return Func(func(_ context.Context, args ...any) (any, error) {
			sep := ","
			if len(args) > 0 && !IsUndefined(args[0]) {
				sep = ToString(args[0])
			}
			parts := make([]string, len(arr))
			for i, e := range arr {
				if !IsNullish(e) {
					parts[i] = ToString(e)
				}
			}
			return strings.Join(parts, sep), nil
		}), nil
	}
	return nil, fmt.Errorf("%w: %q of array", ErrPropertyNotAllowed, k)
}

func hostMember(rv reflect.Value, k string) (any, bool) {
	if m := rv.MethodByName(k); m.IsValid() {
		return reflectFunc(m), true
	}
	v := rv
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f, ok := fieldByKey(v.Type(), k)
	if !ok {
		return nil, false
	}
	fv, err := v.FieldByIndexErr(f.Index)
	if err != nil {
		// promoted through a nil embedded pointer
		return nil, true
	}
	return fv.Interface(), true
}

// relIndex resolves a possibly negative index against n and clamps it.
func relIndex(v any, n, def int) (int, error) {
	if IsUndefined(v) {
		return def, nil
	}
	f, ok := normalize(v).(float64)
	if !ok {
		return 0, fmt.Errorf("%w: index %s is not a number", ErrArgument, typeName(v))
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	i := int(math.Trunc(f))
	if i < 0 {
		i += n
	}
	return max(0, min(i, n)), nil
}

func sliceBounds(args []any, n int) (int, int, error) {
	var start, end any = Undefined, Undefined
	if len(args) > 0 {
		start = args[0]
	}
	if len(args) > 1 {
		end = args[1]
	}
	s, err := relIndex(start, n, 0)
	if err != nil {
		return 0, 0, err
	}
	e, err := relIndex(end, n, n)
	if err != nil {
		return 0, 0, err
	}
	if e < s {
		e = s
	}
	return s, e, nil
}

func sliceArray(arr []any, args []any) (any, error) {
	s, e, err := sliceBounds(args, len(arr))
	if err != nil {
		return nil, err
	}
	return append([]any{}, arr[s:e]...), nil
}

func sliceString(str string, args []any) (any, error) {
	r := []rune(str)
	s, e, err := sliceBounds(args, len(r))
	if err != nil {
		return nil, err
	}
	return string(r[s:e]), nil
}

// substring clamps negative indices to 0 and swaps reversed bounds.
func substring(str string, args []any) (any, error) {
	r := []rune(str)
	clamp := func(v any, def int) (int, error) {
		if IsUndefined(v) {
			return def, nil
		}
		f, ok := normalize(v).(float64)
		if !ok {
			return 0, fmt.Errorf("%w: index %s is not a number", ErrArgument, typeName(v))
		}
		if math.IsNaN(f) {
			return 0, nil
		}
		return max(0, min(int(f), len(r))), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: substring needs a start", ErrArgument)
	}
	s, err := clamp(args[0], 0)
	if err != nil {
		return nil, err
	}
	end := any(Undefined)
	if len(args) > 1 {
		end = args[1]
	}
	e, err := clamp(end, len(r))
	if err != nil {
		return nil, err
	}
	if s > e {
		s, e = e, s
	}
	return string(r[s:e]), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// reflectFunc wraps a Go function value as a Func.
func reflectFunc(fn reflect.Value) Func {
	return func(_ context.Context, args ...any) (any, error) {
		return callReflect(fn, args)
	}
}

func callReflect(fn reflect.Value, args []any) (res any, err error) {
	t := fn.Type()
	nIn := t.NumIn()
	if t.IsVariadic() {
		if len(args) < nIn-1 {
			return nil, fmt.Errorf("%w: want at least %d arguments, got %d", ErrArgument, nIn-1, len(args))
		}
	} else if len(args) != nIn {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrArgument, nIn, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= nIn-1 {
			pt = t.In(nIn - 1).Elem()
		} else {
			pt = t.In(i)
		}
		v, err := convertArg(a, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("call panicked: %v", r)
		}
	}()
	out := fn.Call(in)
	switch len(out) {
	case 0:
		return Undefined, nil
	case 1:
		if t.Out(0) == errorType {
			if !out[0].IsNil() {
				return nil, out[0].Interface().(error)
			}
			return Undefined, nil
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		if t.Out(len(out)-1) == errorType && !last.IsNil() {
			return nil, last.Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

func convertArg(a any, t reflect.Type) (reflect.Value, error) {
	if IsNullish(a) {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) && v.Kind() != reflect.String && t.Kind() != reflect.String {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrArgument, typeName(a), t)
}

// callValue calls fn, which must be a Func or a Go function.
func callValue(ctx context.Context, fn any, args []any) (any, error) {
	switch f := fn.(type) {
	case Func:
		return f(ctx, args...)
	case func(context.Context, ...any) (any, error):
		return f(ctx, args...)
	case nil:
		return nil, fmt.Errorf("%w: null", ErrNotCallable)
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, typeName(fn))
	}
	return callReflect(rv, args)
}
