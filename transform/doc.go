// Package transform implements the data transforms a document applies to
// its input before compilation.
//
// A document lists transforms by type. A Chain looks each up in a Registry
// and folds the data through them in order:
//
//	out, err := transform.Chain{Registry: transform.Default()}.Apply(ctx, data, doc.Transforms, -1)
package transform
