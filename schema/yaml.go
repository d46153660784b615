// Loads schema definitions from YAML documents.

package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML schema definition, e.g.:
//
//	name: string
//	email: string?
//	todos:
//	  - id: number
//	    task: string
//	    done: boolean
//
// Unlike [Parse] on a Go map, mapping order from the document is preserved,
// so defaults and error reporting follow the order fields were written in.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty schema document", ErrDefinition)
	}
	n, err := parseYAMLNode(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if err := n.Check(); err != nil {
		return nil, err
	}
	return n, nil
}

// LoadFile reads and parses a YAML schema definition file.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	n, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return n, nil
}

func parseYAMLNode(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.ScalarNode:
		return parseTypeLiteral(y.Value)
	case yaml.MappingNode:
		fields := make([]Field, 0, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i].Value
			fn, err := parseYAMLNode(y.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			fields = append(fields, Field{Name: key, Node: fn})
		}
		return &Node{Kind: KindObject, Fields: fields}, nil
	case yaml.SequenceNode:
		if len(y.Content) != 1 {
			return nil, fmt.Errorf("%w: array type must have exactly one element, got %d", ErrDefinition, len(y.Content))
		}
		elem, err := parseYAMLNode(y.Content[0])
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindArray, Elem: elem}, nil
	case yaml.AliasNode:
		return parseYAMLNode(y.Alias)
	default:
		return nil, fmt.Errorf("%w: unsupported YAML node kind %d", ErrDefinition, y.Kind)
	}
}
