package report

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/signadot/rpt/format"
)

// Decode parses and validates a document.
func Decode(data []byte, f format.Format) (*Document, error) {
	if f.IsYAML() {
		j, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		data = j
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encode renders v, a document or any part of one, in format f.
func Encode(v any, f format.Format) ([]byte, error) {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	if !f.IsYAML() {
		return append(d, '\n'), nil
	}
	return yaml.JSONToYAML(d)
}
