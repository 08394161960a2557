// Package widget compiles report documents.
//
// Each node type is implemented by a Widget held in a Registry. A Compiler
// walks a document's children in order, looking up each node's widget and
// calling its Compile method with a Helper. The Helper gives access to the
// binding stack, formula evaluation and recursive compilation of children.
//
// Widgets may push bindings that are visible to their descendants, and must
// pop them before returning:
//
//	h.Push(varName, v)
//	defer h.Pop()
//	children, err := h.CompileChildren(ctx, n.Children)
//
// Any failure aborts the whole compilation with a *CompileError naming the
// path of the node at fault.
package widget
