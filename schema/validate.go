package schema

import (
	"encoding/json"
	"fmt"
)

// ValidationError reports a value that does not conform to its schema. Path
// is the dotted/bracketed location of the offending field ("user.age",
// "items[2].active"); Want is the schema's base type and Got the runtime
// type of the value found there.
type ValidationError struct {
	Path string
	Want Kind
	Got  string

	// Value is the offending value, rendered into the message as JSON.
	// Only set for primitive mismatches.
	Value    any
	hasValue bool
}

func (e *ValidationError) Error() string {
	article := "a"
	if e.Want == KindObject || e.Want == KindArray {
		article = "an"
	}
	msg := fmt.Sprintf("Field '%s' must be %s %s, got %s", e.Path, article, e.Want, e.Got)
	if e.hasValue {
		rendered, err := json.Marshal(e.Value)
		if err != nil {
			rendered = fmt.Appendf(nil, "%v", e.Value)
		}
		msg += ": " + string(rendered)
	}
	return msg
}

// Validate strictly checks v against the node and returns the validated
// value: a newly built tree containing exactly the schema's fields, with
// unknown input keys dropped and numbers canonicalized to float64.
//
// Missing required primitives are repaired with their zero value rather than
// rejected; everything else that is present must already have the declared
// type or a [*ValidationError] naming the deepest offending path is
// returned. Legacy permissive coercion (string-to-number and friends) is
// deliberately not performed.
func (n *Node) Validate(v any) (any, error) {
	out, _, err := n.validateAt(v, "")
	return out, err
}

// validateAt returns the validated value plus whether it is present at all;
// absent optional primitives report present=false so object recursion can
// omit the key instead of storing null.
func (n *Node) validateAt(v any, path string) (any, bool, error) {
	switch n.Kind {
	case KindString, KindNumber, KindBool:
		return n.validatePrimitive(v, path)
	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, false, &ValidationError{Path: path, Want: KindObject, Got: typeName(v)}
		}
		out := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			fv, err := f.Node.validateField(obj[f.Name], childPath(path, f.Name))
			if err != nil {
				return nil, false, err
			}
			if fv.present {
				out[f.Name] = fv.value
			}
		}
		return out, true, nil
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, false, &ValidationError{Path: path, Want: KindArray, Got: typeName(v)}
		}
		out := make([]any, 0, len(arr))
		for i, item := range arr {
			iv, _, err := n.Elem.validateAt(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, false, err
			}
			out = append(out, iv)
		}
		return out, true, nil
	}
	return nil, false, fmt.Errorf("%w: unknown kind %q", ErrDefinition, n.Kind)
}

type fieldValue struct {
	value   any
	present bool
}

func (n *Node) validateField(v any, path string) (fieldValue, error) {
	out, present, err := n.validateAt(v, path)
	if err != nil {
		return fieldValue{}, err
	}
	return fieldValue{value: out, present: present}, nil
}

func (n *Node) validatePrimitive(v any, path string) (any, bool, error) {
	if v == nil {
		if n.Opt {
			return nil, false, nil
		}
		// Missing required primitives are auto-repaired, not rejected.
		return n.Default(), true, nil
	}
	switch n.Kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, true, nil
		}
	case KindNumber:
		if f, ok := asNumber(v); ok {
			return f, true, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, true, nil
		}
	}
	return nil, false, &ValidationError{Path: path, Want: n.Kind, Got: typeName(v), Value: v, hasValue: true}
}

// asNumber accepts the numeric types a Go caller may hand the store
// directly; encoding/json only ever produces float64.
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// typeName reports a value's runtime type in schema vocabulary for error
// messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
