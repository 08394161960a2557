package report

import "encoding/json"

// Compiled is a compiled node. It parallels Node but its fields hold
// evaluated values instead of formulas.
type Compiled struct {
	Type     string
	Children []*Compiled
	Fields   map[string]any
}

func NewCompiled(typ string, fields map[string]any, children ...*Compiled) *Compiled {
	if fields == nil {
		fields = map[string]any{}
	}
	if children == nil {
		children = []*Compiled{}
	}
	return &Compiled{Type: typ, Fields: fields, Children: children}
}

func (c *Compiled) MarshalJSON() ([]byte, error) {
	return marshalTagged(c.Fields, map[string]any{
		"type":     c.Type,
		"children": nonNil(c.Children),
	})
}

// CompiledProperties are the document properties with FileName evaluated.
type CompiledProperties struct {
	Properties
	FileName string `json:"fileName,omitempty"`
}

type CompiledDocument struct {
	Name       string             `json:"name"`
	Target     Target             `json:"target"`
	Children   []*Compiled        `json:"children"`
	Properties CompiledProperties `json:"properties"`
	FontsUsed  []FontStyle        `json:"fontsUsed"`
}

func (d *CompiledDocument) MarshalJSON() ([]byte, error) {
	type plain CompiledDocument
	p := plain(*d)
	p.Children = nonNil(p.Children)
	p.FontsUsed = nonNil(p.FontsUsed)
	return json.Marshal(p)
}
