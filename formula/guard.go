package formula

import (
	"reflect"
	"sort"
	"strings"
)

var deniedKeys = map[string]bool{
	"constructor":          true,
	"hasOwnProperty":       true,
	"isPrototypeOf":        true,
	"propertyIsEnumerable": true,
	"toString":             true,
	"valueOf":              true,
	"toLocaleString":       true,
	// formatting internals of Go host values
	"String":   true,
	"GoString": true,
	"Error":    true,
	"Format":   true,
}

var deniedPrefixes = []string{"__", "$$"}

var (
	arrayMembers  = []string{"join", "length", "slice"}
	stringMembers = []string{"length", "replaceAll", "substring"}
)

func denied(key string) bool {
	if deniedKeys[key] {
		return true
	}
	for _, p := range deniedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// IsPropertyAllowed reports whether a formula may read member key of v.
// It is the check every member read goes through. Keys absent from a map
// are not allowed; reading one yields Undefined rather than an error.
// Numeric indices of arrays and strings are not members and are not
// checked here.
func IsPropertyAllowed(v any, key string) bool {
	if denied(key) {
		return false
	}
	switch x := normalize(v).(type) {
	case nil, undefined, bool, float64, Func, Thunk:
		return false
	case string:
		return contains(stringMembers, key)
	case map[string]any:
		_, ok := x[key]
		return ok
	}
	return contains(PublicKeys(v), key)
}

// PublicKeys returns the sorted members of v that formulas may read.
//
// Arrays and strings expose a fixed set of read only members. Maps expose
// their keys. Other host values expose their exported fields and methods,
// including those promoted from embedded types, and the json names of the
// fields. Members named like object internals are never exposed.
func PublicKeys(v any) []string {
	switch x := normalize(v).(type) {
	case nil, undefined, bool, float64, Func, Thunk:
		return nil
	case string:
		return append([]string{}, stringMembers...)
	case map[string]any:
		res := make([]string, 0, len(x))
		for k := range x {
			res = append(res, k)
		}
		return publicOnly(res)
	}
	if _, ok := AsArray(v); ok {
		return append([]string{}, arrayMembers...)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		res := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			res = append(res, k.String())
		}
		return publicOnly(res)
	case reflect.Struct, reflect.Pointer:
		return publicOnly(hostKeys(rv.Type()))
	}
	return nil
}

func publicOnly(keys []string) []string {
	res := keys[:0]
	for _, k := range keys {
		if !denied(k) {
			res = append(res, k)
		}
	}
	sort.Strings(res)
	return res
}

func hostKeys(t reflect.Type) []string {
	seen := map[string]bool{}
	var res []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			res = append(res, k)
		}
	}
	for i := 0; i < t.NumMethod(); i++ {
		if m := t.Method(i); m.IsExported() {
			add(m.Name)
		}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return res
	}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		add(f.Name)
		add(jsonName(f))
	}
	return res
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func fieldByKey(t reflect.Type, key string) (reflect.StructField, bool) {
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if f.Name == key || jsonName(f) == key {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
