// Package encode writes documents, compiled documents and data for people
// to read: as JSON or YAML, optionally colored, or as an outline of the
// node tree.
package encode
