// Exports Node trees as JSON Schema documents.

package schema

import (
	"github.com/invopop/jsonschema"
)

// JSONSchema renders the node as a draft 2020-12 JSON Schema document.
// Optional primitives are simply omitted from "required"; objects reject
// unknown properties, matching what Validate drops.
//
// The node must be well-formed (see [Node.Check]).
func (n *Node) JSONSchema() *jsonschema.Schema {
	s := n.jsonSchema()
	s.Version = jsonschema.Version
	return s
}

func (n *Node) jsonSchema() *jsonschema.Schema {
	switch n.Kind {
	case KindString:
		return &jsonschema.Schema{Type: "string"}
	case KindNumber:
		return &jsonschema.Schema{Type: "number"}
	case KindBool:
		return &jsonschema.Schema{Type: "boolean"}
	case KindObject:
		s := &jsonschema.Schema{
			Type:                 "object",
			Properties:           jsonschema.NewProperties(),
			AdditionalProperties: jsonschema.FalseSchema,
		}
		for _, f := range n.Fields {
			s.Properties.Set(f.Name, f.Node.jsonSchema())
			if !f.Node.Opt {
				s.Required = append(s.Required, f.Name)
			}
		}
		return s
	case KindArray:
		return &jsonschema.Schema{Type: "array", Items: n.Elem.jsonSchema()}
	}
	return nil
}
