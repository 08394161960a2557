package report

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// Node is an instance of a widget in a document.
type Node struct {
	Type     string
	Children []*Node
	Fields   map[string]any
}

// NewNode creates a node of type typ with the given fields and children.
func NewNode(typ string, fields map[string]any, children ...*Node) *Node {
	if fields == nil {
		fields = map[string]any{}
	}
	if children == nil {
		children = []*Node{}
	}
	return &Node{Type: typ, Fields: fields, Children: children}
}

// Str returns the string field key, or "" if it is absent or not a string.
func (n *Node) Str(key string) string {
	s, _ := n.Fields[key].(string)
	return s
}

// With returns a shallow copy of n with field key set to v.
func (n *Node) With(key string, v any) *Node {
	fields := make(map[string]any, len(n.Fields)+1)
	for k, x := range n.Fields {
		fields[k] = x
	}
	fields[key] = v
	return &Node{Type: n.Type, Children: n.Children, Fields: fields}
}

// WithChildren returns a shallow copy of n with its children replaced.
func (n *Node) WithChildren(children []*Node) *Node {
	return &Node{Type: n.Type, Children: children, Fields: n.Fields}
}

// Clone deep copies the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	res := &Node{
		Type:     n.Type,
		Children: make([]*Node, len(n.Children)),
		Fields:   cloneFields(n.Fields),
	}
	for i, c := range n.Children {
		res.Children[i] = c.Clone()
	}
	return res
}

// CopyFields returns a deep copy of the field bag.
func (n *Node) CopyFields() map[string]any {
	return cloneFields(n.Fields)
}

// Decode decodes the field bag into v, which should be a pointer to a
// struct with json tags.
func (n *Node) Decode(v any) error {
	return decodeFields(n.Fields, v)
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return marshalTagged(n.Fields, map[string]any{
		"type":     n.Type,
		"children": nonNil(n.Children),
	})
}

func (n *Node) UnmarshalJSON(d []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(d, &raw); err != nil {
		return err
	}
	out := Node{Children: []*Node{}}
	if t, ok := raw["type"]; ok {
		if err := json.Unmarshal(t, &out.Type); err != nil {
			return fmt.Errorf("node type: %w", err)
		}
		delete(raw, "type")
	}
	if c, ok := raw["children"]; ok {
		if err := json.Unmarshal(c, &out.Children); err != nil {
			return fmt.Errorf("%s children: %w", out.Type, err)
		}
		delete(raw, "children")
		if out.Children == nil {
			out.Children = []*Node{}
		}
	}
	fields, err := unmarshalFields(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", out.Type, err)
	}
	out.Fields = fields
	*n = out
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func marshalTagged(fields map[string]any, fixed map[string]any) ([]byte, error) {
	m := make(map[string]any, len(fields)+len(fixed))
	for k, v := range fields {
		m[k] = v
	}
	for k, v := range fixed {
		m[k] = v
	}
	return json.Marshal(m)
}

func unmarshalFields(raw map[string]json.RawMessage) (map[string]any, error) {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		var x any
		if err := json.Unmarshal(v, &x); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = x
	}
	return fields, nil
}

func cloneFields(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	c, err := copystructure.Copy(m)
	if err != nil {
		// field bags hold decoded json values, which always copy.
		panic(fmt.Sprintf("copy fields: %v", err))
	}
	return c.(map[string]any)
}

func decodeFields(fields map[string]any, v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           v,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}
