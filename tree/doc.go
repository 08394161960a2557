// Package tree provides path addressed edits of report documents.
//
// Every operation leaves its input untouched. Edits copy the child lists on
// the spine from the document root to the edited node and share all other
// nodes with the input, so unchanged subtrees keep their identity.
//
// Paths are report.Path values: [1, 0] is the first child of the second top
// level node.
package tree
