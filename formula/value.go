package formula

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined is the value of unbound names and missing keys. It is distinct
// from nil, which is null.
var Undefined = undefined{}

func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// IsNullish reports whether v is nil or Undefined.
func IsNullish(v any) bool {
	return v == nil || IsUndefined(v)
}

// Func is a function value callable from formulas.
type Func func(ctx context.Context, args ...any) (any, error)

// Thunk is a lazily computed data value. It is resolved each time it is
// read by a formula.
type Thunk func(ctx context.Context) (any, error)

// Truthy gives the truth value of v: false, null, Undefined, 0, NaN and ""
// are false, everything else is true.
func Truthy(v any) bool {
	switch x := normalize(v).(type) {
	case nil, undefined:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// ToString converts v the way string concatenation does.
func ToString(v any) string {
	switch x := normalize(v).(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if !IsNullish(e) {
				parts[i] = ToString(e)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return ToString(toSlice(rv))
		case reflect.Map:
			return "[object Object]"
		case reflect.Func:
			return "[function]"
		}
		return fmt.Sprint(x)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	a := math.Abs(f)
	if a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// normalize converts Go numbers to float64. Other values are unchanged.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, undefined, bool, float64, string, []any, map[string]any:
		return v
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return f
	}
	return v
}

func toSlice(rv reflect.Value) []any {
	res := make([]any, rv.Len())
	for i := range res {
		res[i] = rv.Index(i).Interface()
	}
	return res
}

// AsArray returns v as a []any if it is a slice or array.
func AsArray(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case nil, string, undefined:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return toSlice(rv), true
	}
	return nil, false
}

// Equal is deep equality as used by "==".
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	switch a.(type) {
	case nil:
		return b == nil
	case undefined:
		return IsUndefined(b)
	case bool, float64, string:
		return a == b
	}
	if xa, ok := AsArray(a); ok {
		xb, ok := AsArray(b)
		if !ok || len(xa) != len(xb) {
			return false
		}
		for i := range xa {
			if !Equal(xa[i], xb[i]) {
				return false
			}
		}
		return true
	}
	if ma, ok := a.(map[string]any); ok {
		mb, ok := b.(map[string]any)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func typeName(v any) string {
	switch normalize(v).(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case Func:
		return "function"
	}
	if _, ok := AsArray(v); ok {
		return "array"
	}
	return reflect.TypeOf(v).String()
}
