// Parses the literal schema definition form into Node trees.

package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Parse converts a literal schema definition into a checked [Node].
//
// The definition language mirrors what a schema file or an inline literal
// looks like after JSON/YAML decoding:
//
//   - "string", "number", "boolean" declare required primitives; a trailing
//     "?" ("number?") marks the primitive optional.
//   - map[string]any declares an object, one entry per field. Field order is
//     not observable in a Go map, so fields are sorted by name; use the typed
//     constructors or [ParseYAML] when declaration order matters.
//   - a one-element []any declares a homogeneous array of the element shape.
//     Any other element count is a definition error.
//   - a *Node passes through unchanged (after Check), so typed constructors
//     can be mixed into literal definitions.
func Parse(def any) (*Node, error) {
	n, err := parseDef(def)
	if err != nil {
		return nil, err
	}
	if err := n.Check(); err != nil {
		return nil, err
	}
	return n, nil
}

// MustParse is [Parse] but panics on a malformed definition. Intended for
// schema literals in code.
func MustParse(def any) *Node {
	n, err := Parse(def)
	if err != nil {
		panic(err)
	}
	return n
}

func parseDef(def any) (*Node, error) {
	switch d := def.(type) {
	case *Node:
		return d, nil
	case Node:
		return &d, nil
	case string:
		return parseTypeLiteral(d)
	case map[string]any:
		names := make([]string, 0, len(d))
		for name := range d {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]Field, 0, len(names))
		for _, name := range names {
			fn, err := parseDef(d[name])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields = append(fields, Field{Name: name, Node: fn})
		}
		return &Node{Kind: KindObject, Fields: fields}, nil
	case []any:
		if len(d) != 1 {
			return nil, fmt.Errorf("%w: array type must have exactly one element, got %d", ErrDefinition, len(d))
		}
		elem, err := parseDef(d[0])
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindArray, Elem: elem}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported definition %T", ErrDefinition, def)
	}
}

func parseTypeLiteral(s string) (*Node, error) {
	opt := strings.HasSuffix(s, "?")
	base := strings.TrimSuffix(s, "?")
	var n *Node
	switch base {
	case "string":
		n = String()
	case "number":
		n = Number()
	case "boolean", "bool":
		n = Bool()
	default:
		return nil, fmt.Errorf("%w: unknown type literal %q", ErrDefinition, s)
	}
	n.Opt = opt
	return n, nil
}
