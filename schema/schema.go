// Package schema describes the permitted shape of values stored in a data
// object file and provides default construction and strict validation.
//
// A [Node] is a tagged variant over the primitive types (string, number,
// boolean, each optionally nullable-absent), objects with an ordered field
// list, and homogeneous arrays. Nodes are immutable after construction and
// may be shared freely across stores and goroutines.
//
// Schemas can be built three ways: with the typed constructors ([String],
// [Object], [Array], ...), from the literal definition form via [Parse]
// ("number?", nested maps, one-element slices), or from a YAML document via
// [ParseYAML].
package schema

import (
	"errors"
	"fmt"
)

// ErrDefinition is wrapped by all schema definition errors, i.e. a schema
// that is itself malformed as opposed to data that fails validation.
var ErrDefinition = errors.New("invalid schema definition")

// Kind identifies the variant of a schema node.
type Kind string

const (
	// KindString matches text values.
	KindString Kind = "string"
	// KindNumber matches numeric values (stored as float64).
	KindNumber Kind = "number"
	// KindBool matches boolean values.
	KindBool Kind = "boolean"
	// KindObject matches a JSON object with a fixed field set.
	KindObject Kind = "object"
	// KindArray matches a homogeneous sequence.
	KindArray Kind = "array"
)

// Field is a named member of an object node. Declaration order is preserved;
// defaults and error reporting iterate fields in this order.
type Field struct {
	Name string
	Node *Node
}

// Node is one level of a schema tree.
//
// Exactly one shape is active, selected by Kind: primitives use Opt, objects
// use Fields, arrays use Elem. Construct nodes with the package constructors
// or [Parse]; a hand-built Node should be checked with [Node.Check] before
// use.
type Node struct {
	Kind Kind

	// Opt marks a primitive as optional: the value may be absent and is
	// left absent rather than zero-filled. Meaningless on objects/arrays.
	Opt bool

	// Fields lists object members in declaration order.
	Fields []Field

	// Elem is the item schema of an array node.
	Elem *Node
}

// String returns a required string node.
func String() *Node { return &Node{Kind: KindString} }

// Number returns a required number node.
func Number() *Node { return &Node{Kind: KindNumber} }

// Bool returns a required boolean node.
func Bool() *Node { return &Node{Kind: KindBool} }

// Object returns an object node with the given fields, in order.
func Object(fields ...Field) *Node {
	return &Node{Kind: KindObject, Fields: fields}
}

// Array returns an array node whose every element matches elem.
func Array(elem *Node) *Node {
	return &Node{Kind: KindArray, Elem: elem}
}

// F is shorthand for building a Field.
func F(name string, n *Node) Field { return Field{Name: name, Node: n} }

// Optional returns a copy of a primitive node marked optional.
func (n *Node) Optional() *Node {
	c := *n
	c.Opt = true
	return &c
}

// Check verifies that the node tree is well-formed. It is called by [Parse]
// and by the store when a schema is first used; malformed schemas fail here,
// before any data is inspected.
func (n *Node) Check() error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrDefinition)
	}
	switch n.Kind {
	case KindString, KindNumber, KindBool:
		return nil
	case KindObject:
		seen := make(map[string]bool, len(n.Fields))
		for _, f := range n.Fields {
			if f.Name == "" {
				return fmt.Errorf("%w: object field with empty name", ErrDefinition)
			}
			if seen[f.Name] {
				return fmt.Errorf("%w: duplicate object field %q", ErrDefinition, f.Name)
			}
			seen[f.Name] = true
			if err := f.Node.Check(); err != nil {
				return err
			}
		}
		return nil
	case KindArray:
		if n.Elem == nil {
			return fmt.Errorf("%w: array node without element schema", ErrDefinition)
		}
		return n.Elem.Check()
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrDefinition, n.Kind)
	}
}
