// Package source fetches the external data a document is compiled
// against.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
)

var ErrUnsupported = errors.New("unsupported data url")

// Source yields data.
type Source interface {
	Fetch(ctx context.Context) (any, error)
}

// Inline is data given directly.
type Inline struct {
	Data any
}

func (s Inline) Fetch(context.Context) (any, error) {
	return s.Data, nil
}

// File reads JSON or YAML data, chosen by the extension of Path.
type File struct {
	FS   afero.Fs
	Path string
}

func (s File) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := afero.ReadFile(s.FS, s.Path)
	if err != nil {
		return nil, err
	}
	v, err := Parse(d, format.FromPath(s.Path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return v, nil
}

// Parse decodes data into plain values: maps, slices, strings, float64s,
// bools and nil.
func Parse(d []byte, f format.Format) (any, error) {
	if f.IsYAML() {
		j, err := yaml.YAMLToJSON(d)
		if err != nil {
			return nil, err
		}
		d = j
	}
	var v any
	if err := json.Unmarshal(d, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ForDocument returns the source named by the document's data url. A
// "file:" url or a plain path is read from fs; an empty url gives null
// data.
func ForDocument(fs afero.Fs, doc *report.Document) (Source, error) {
	u := doc.DataURL
	switch {
	case u == "":
		return Inline{}, nil
	case strings.HasPrefix(u, "file://"):
		return File{FS: fs, Path: strings.TrimPrefix(u, "file://")}, nil
	case strings.HasPrefix(u, "file:"):
		return File{FS: fs, Path: strings.TrimPrefix(u, "file:")}, nil
	case strings.Contains(u, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, u)
	}
	return File{FS: fs, Path: u}, nil
}
