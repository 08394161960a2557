// Package report holds the document model: widget nodes, transforms,
// report properties and the compiled form produced by package widget.
//
// Nodes and transforms are tagged records. Their type specific fields live
// in an open field bag which is flattened next to "type" and "children" on
// the wire:
//
//	{"type": "Repeat", "children": [...], "source": "data.items", "varName": "item"}
//
// Documents are treated as values. Package tree edits them by copying the
// spine from the root to the edited node and sharing everything else.
//
// # Related Packages
//
//   - github.com/signadot/rpt/tree - path addressed structural edits
//   - github.com/signadot/rpt/widget - compiling documents
//   - github.com/signadot/rpt/transform - data transforms
package report
