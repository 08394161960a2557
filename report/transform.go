package report

import (
	"encoding/json"
	"fmt"
)

// Transform is a step applied to the report data before compilation.
type Transform struct {
	Type    string
	Comment string
	Fields  map[string]any
}

func NewTransform(typ string, fields map[string]any) *Transform {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Transform{Type: typ, Fields: fields}
}

func (t *Transform) Str(key string) string {
	s, _ := t.Fields[key].(string)
	return s
}

// Decode decodes the field bag into v as Node.Decode does.
func (t *Transform) Decode(v any) error {
	return decodeFields(t.Fields, v)
}

func (t *Transform) Clone() *Transform {
	return &Transform{Type: t.Type, Comment: t.Comment, Fields: cloneFields(t.Fields)}
}

func (t *Transform) MarshalJSON() ([]byte, error) {
	return marshalTagged(t.Fields, map[string]any{
		"type":    t.Type,
		"comment": t.Comment,
	})
}

func (t *Transform) UnmarshalJSON(d []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(d, &raw); err != nil {
		return err
	}
	out := Transform{}
	for _, k := range []string{"type", "comment"} {
		v, ok := raw[k]
		if !ok {
			continue
		}
		dst := &out.Type
		if k == "comment" {
			dst = &out.Comment
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("transform %s: %w", k, err)
		}
		delete(raw, k)
	}
	fields, err := unmarshalFields(raw)
	if err != nil {
		return fmt.Errorf("transform %s: %w", out.Type, err)
	}
	out.Fields = fields
	*t = out
	return nil
}
