// Package formula evaluates the small expression language used in report
// fields.
//
// Formulas are parsed with the expr-lang/expr parser but evaluated by this
// package, so that every member access goes through IsPropertyAllowed.
// Evaluation follows the loose value model of report data: numbers are
// float64, "+" concatenates strings and arrays, "==" compares deeply and
// "&&" / "||" yield one of their operands.
//
//	v, err := formula.Evaluate(ctx, `"Hello: " + data.num`, formula.Vars{"data": data})
//
// Names that are not bound evaluate to Undefined. Member access on null or
// Undefined, or on a member the guard denies, fails with
// ErrPropertyNotAllowed. A key missing from a map is Undefined.
package formula
