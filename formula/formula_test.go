package formula

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func eval(t *testing.T, src string, vars Lookup) (any, error) {
	t.Helper()
	return Evaluate(context.Background(), src, vars)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
	}{
		{name: "blank", src: " ", want: Undefined},
		{name: "add", src: "1+2", want: 3.0},
		{name: "spaces", src: " 1 +\n2 ", want: 3.0},
		{name: "precedence", src: " 1 + 2 \n*\n2", want: 5.0},
		{name: "parens", src: "2*(4+2)", want: 12.0},
		{name: "empty array", src: "[  ]", want: []any{}},
		{name: "array", src: "[ 1, 2 ]", want: []any{1.0, 2.0}},
		{name: "string", src: `"ab, cd '"`, want: "ab, cd '"},
		{name: "empty map", src: "{ }", want: map[string]any{}},
		{name: "map", src: "{ abc: 123}", want: map[string]any{"abc": 123.0}},
		{name: "quoted key", src: `{"1'2": 123 }`, want: map[string]any{"1'2": 123.0}},
		{name: "sub", src: "3-5", want: -2.0},
		{name: "mul", src: "3*5", want: 15.0},
		{name: "div", src: "3/5", want: 0.6},
		{name: "pow op", src: "3^5", want: 243.0},
		{name: "negate", src: "-(2+1)", want: -3.0},
		{name: "concat", src: `"abc"  +"defž"`, want: "abcdefž"},
		{name: "and binds tighter", src: "true || false && false", want: true},
		{name: "grouped or", src: "(true || false) && false", want: false},
		{name: "and keyword", src: "1 or 0 and 0", want: 1.0},
		{name: "concat number", src: `"abc"  + 15`, want: "abc15"},
		{name: "concat array", src: `"abc"  + [1,2,3]`, want: "abc1,2,3"},
		{name: "concat null", src: `"abc"  + null + 1 + 2`, want: "abcnull12"},
		{name: "concat arrays", src: "[1,2] + [3,4]", want: []any{1.0, 2.0, 3.0, 4.0}},
		{name: "eq", src: "1 == 1", want: true},
		{name: "neq", src: "1 == 2", want: false},
		{name: "gt", src: "3 > 5", want: false},
		{name: "ge", src: "3 >= 3", want: true},
		{name: "lt", src: "3 < 5", want: true},
		{name: "le", src: "3 <= 5", want: true},
		{name: "string eq", src: `("ab"+"c") == ("a"+"bc")`, want: true},
		{name: "no coercion", src: `1 == "1"`, want: false},
		{name: "and yields operand", src: "3 && 5", want: 5.0},
		{name: "or yields operand", src: "3 || 5", want: 3.0},
		{name: "and true", src: "true && 2", want: 2.0},
		{name: "empty array truthy", src: "[] && 2", want: 2.0},
		{name: "zero falsy", src: "0 && 2", want: 0.0},
		{name: "arith eq", src: "2*3 == 3*2", want: true},
		{name: "deep array neq", src: "[1,2] == [1,3]", want: false},
		{name: "deep array eq", src: "[1,2] == [1,2]", want: true},
		{name: "deep map eq", src: "{a:1,b:2} == {b:2,a:1}", want: true},
		{name: "deep map neq", src: "{a:1,b:2} != {b:2,a:1}", want: false},
		{name: "map vs array", src: "{} == []", want: false},
		{name: "ternary", src: `1 > 2 ? "a" : "b"`, want: "b"},
		{name: "in", src: "2 in [1,2]", want: true},
		{name: "coalesce", src: `nothing ?? "x"`, want: "x"},
		{name: "member", src: "{a:[1]}.a", want: []any{1.0}},
		{name: "member index", src: "{a:[1,2,3]}.a[2]", want: 3.0},
		{name: "computed index", src: "{a:[1,2,3]}.a[0*5+1]", want: 2.0},
		{name: "array index", src: "[1,2,3][1]", want: 2.0},
		{name: "index past end", src: "[1,2,3][7]", want: Undefined},
		{name: "missing key", src: "{a:1}.b", want: Undefined},
		{name: "optional chain", src: "nothing?.a", want: Undefined},
		{name: "slice syntax", src: "[1,2,3,4][1:3]", want: []any{2.0, 3.0}},
		{name: "unbound", src: "non_existent", want: Undefined},
		{name: "null", src: "null", want: nil},
		{name: "nil", src: "nil", want: nil},
		{name: "true", src: "true", want: true},
		{name: "pi", src: "PI > 3.14 && pi < 3.15", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval(t, tt.src, nil)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.src, err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.Comparer(func(a, b undefined) bool { return true })); diff != "" {
				t.Errorf("Evaluate(%q) (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		src     string
		wantErr error
	}{
		{src: "3?*2", wantErr: ErrSyntax},
		{src: `"abc def`, wantErr: ErrSyntax},
		{src: "{", wantErr: ErrSyntax},
		{src: "[1,2] + \"abc\"", wantErr: ErrOperator},
		{src: `{a:1} + "abc"`, wantErr: ErrOperator},
		{src: `1 < "2"`, wantErr: ErrOperator},
		{src: "-\"a\"", wantErr: ErrOperator},
		{src: "null[1]", wantErr: ErrPropertyNotAllowed},
		{src: "nothing.a", wantErr: ErrPropertyNotAllowed},
		{src: "{a:1}.a(2)", wantErr: ErrNotCallable},
		{src: "{a:1}.__proto__", wantErr: ErrPropertyNotAllowed},
		{src: "{a:1}.__defineGetter__", wantErr: ErrPropertyNotAllowed},
		{src: "{a:1}.constructor", wantErr: ErrPropertyNotAllowed},
		{src: "{a:1}[\"$$typeof\"]", wantErr: ErrPropertyNotAllowed},
		{src: `"abc aa".replace("a", "x")`, wantErr: ErrPropertyNotAllowed},
		{src: "[1].push(2)", wantErr: ErrPropertyNotAllowed},
		{src: "nosuch(1)", wantErr: ErrUnknownFunction},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := eval(t, tt.src, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", tt.src, err, tt.wantErr)
			}
			var fe *Error
			if !errors.As(err, &fe) || fe.Formula != tt.src {
				t.Errorf("error %v does not carry the formula", err)
			}
		})
	}
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		src     string
		want    any
		wantErr bool
	}{
		{src: "pow(3,5)", want: 243.0},
		{src: "not(3)", want: false},
		{src: "not(false)", want: true},
		{src: "columnName(5)", want: "E"},
		{src: "columnName(28)", want: "AB"},
		{src: `columnName("5")`, wantErr: true},
		{src: "inArray([1,2], 1)", want: true},
		{src: "inArray([1,2], 3)", want: false},
		{src: "inArray({a:1}, 1)", wantErr: true},
		{src: "arrayIndexOf([1,2,3], 2)", want: 1.0},
		{src: "arrayIndexOf({a:1}, 1)", wantErr: true},
		{src: "string(2)", want: "2"},
		{src: "str([1,2])", want: "1,2"},
		{src: `substr("12345", 1)`, want: "2345"},
		{src: `substr("12345", 1, 4)`, want: "234"},
		{src: `substr("12345", -2)`, want: "45"},
		{src: "substr(null, 1, 4)", wantErr: true},
		{src: `substring("12345", 1, 4)`, want: "234"},
		{src: "lower([1,2])", wantErr: true},
		{src: "toLowerCase([1,2])", wantErr: true},
		{src: "upper([1,2])", wantErr: true},
		{src: `lower("aAbbCC")`, want: "aabbcc"},
		{src: `toLowerCase("aAbbCC")`, want: "aabbcc"},
		{src: `upper("aAbbCC")`, want: "AABBCC"},
		{src: `toUpperCase("aAbbCC")`, want: "AABBCC"},
		{src: "sin(0)", want: 0.0},
		{src: "cos(0)", want: 1.0},
		{src: "atan2(0, 1)", want: 0.0},
		{src: `sin("x")`, wantErr: true},
		{src: `[ 1, 2 ].join("x")`, want: "1x2"},
		{src: "[ 1, 2 ].length", want: 2.0},
		{src: "[ 1, 2, 3, 4, 5, 6, 7, 8 ].slice(1, 3)", want: []any{2.0, 3.0}},
		{src: `"abc-def".length`, want: 7.0},
		{src: `"abc-def".substring(2,5)`, want: "c-d"},
		{src: `"abc-def".substring(5,2)`, want: "c-d"},
		{src: `"the dog and the dog".replaceAll("dog", "monkey")`, want: "the monkey and the monkey"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := eval(t, tt.src, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Evaluate(%q) error = %v, wantErr %v", tt.src, err, tt.wantErr)
			}
			if err == nil {
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("Evaluate(%q) (-want +got):\n%s", tt.src, diff)
				}
			}
		})
	}
}

func TestUnknownFunctionSuggestion(t *testing.T) {
	_, err := eval(t, "columName(1)", nil)
	if !errors.Is(err, ErrUnknownFunction) || !strings.Contains(err.Error(), `"columnName"`) {
		t.Errorf("error = %v, want suggestion of columnName", err)
	}
}

func TestNow(t *testing.T) {
	clock := func() time.Time { return time.Date(2023, 4, 5, 6, 7, 8, 9, time.FixedZone("x", 3600)) }
	got, err := Evaluate(context.Background(), "now()", nil, WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}
	if got != "2023-04-05T05:07:08Z" {
		t.Errorf("now() = %v", got)
	}
}

func TestVars(t *testing.T) {
	data := map[string]any{"abc": 10.0, "num": 123}
	got, err := eval(t, `data.abc + data.num`, Vars{"data": data})
	if err != nil {
		t.Fatal(err)
	}
	if got != 133.0 {
		t.Errorf("got %v, want 133", got)
	}
	got, err = eval(t, `"Hello: " + data.num`, Vars{"data": data})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello: 123" {
		t.Errorf("got %v", got)
	}
}

func TestChain(t *testing.T) {
	l := Chain{Vars{"a": 1}, Vars{"a": 2, "b": 3}}
	got, err := eval(t, "a * 10 + b", l)
	if err != nil {
		t.Fatal(err)
	}
	if got != 13.0 {
		t.Errorf("got %v, want 13", got)
	}
}

func TestThunkProperty(t *testing.T) {
	calls := 0
	data := map[string]any{
		"lazy": Thunk(func(context.Context) (any, error) {
			calls++
			return map[string]any{"a": 5.0}, nil
		}),
	}
	got, err := eval(t, "data.lazy.a + data.lazy.a", Vars{"data": data})
	if err != nil {
		t.Fatal(err)
	}
	if got != 10.0 || calls != 2 {
		t.Errorf("got %v after %d calls", got, calls)
	}
}

func TestCustomFunctions(t *testing.T) {
	data := map[string]any{
		"double": func(a float64) float64 { return a * 2 },
		"fail": Func(func(context.Context, ...any) (any, error) {
			return nil, errors.New("my custom error")
		}),
	}
	got, err := eval(t, "data.double(10)", Vars{"data": data})
	if err != nil {
		t.Fatal(err)
	}
	if got != 20.0 {
		t.Errorf("data.double(10) = %v", got)
	}
	_, err = eval(t, "data.fail()", Vars{"data": data})
	if err == nil || !strings.Contains(err.Error(), "my custom error") {
		t.Errorf("data.fail() error = %v", err)
	}
}

type Person struct {
	Name   string `json:"name"`
	secret string
}

type employee struct {
	*Person
	Job string
}

func (e *employee) GetJobUppercase() string { return strings.ToUpper(e.Job) }

func (e *employee) String() string { return e.secret }

func TestHostObject(t *testing.T) {
	obj := &employee{Person: &Person{Name: "Alice", secret: "s"}, Job: "Iceberg mover"}
	vars := Vars{"data": obj}
	tests := []struct {
		src     string
		want    any
		wantErr error
	}{
		{src: "data.GetJobUppercase()", want: "ICEBERG MOVER"},
		{src: "data.Name", want: "Alice"},
		{src: "data.name", want: "Alice"},
		{src: "data.Job", want: "Iceberg mover"},
		{src: "data.secret", wantErr: ErrPropertyNotAllowed},
		{src: "data.Person", wantErr: ErrPropertyNotAllowed},
		{src: "data.String()", wantErr: ErrPropertyNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := eval(t, tt.src, vars)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", tt.src, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestLogicalEvaluatesBoth(t *testing.T) {
	n := 0
	l := lookupFunc(func(_ context.Context, name string) (any, bool, error) {
		if name != "c" {
			return nil, false, nil
		}
		n++
		return float64(n), true, nil
	})
	if _, err := eval(t, "c || c", l); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("c read %d times, want 2", n)
	}
}

type lookupFunc func(context.Context, string) (any, bool, error)

func (f lookupFunc) Lookup(ctx context.Context, name string) (any, bool, error) {
	return f(ctx, name)
}

func TestLookupError(t *testing.T) {
	boom := errors.New("boom")
	l := lookupFunc(func(context.Context, string) (any, bool, error) { return nil, false, boom })
	if _, err := eval(t, "x + 1", l); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestProgramReuse(t *testing.T) {
	p, err := Parse("x * 2")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{0, 2, 4} {
		got, err := p.Eval(context.Background(), Vars{"x": i})
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Eval(x=%d) = %v, want %v", i, got, want)
		}
	}
}
