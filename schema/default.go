package schema

// Default produces a value satisfying the node with no external input:
// zero values for required primitives, absent keys for optional primitives,
// per-field recursion for objects, and an empty sequence for arrays.
//
// Default never fails on a well-formed node and its result passes
// [Node.Validate] unchanged.
func (n *Node) Default() any {
	switch n.Kind {
	case KindString:
		if n.Opt {
			return nil
		}
		return ""
	case KindNumber:
		if n.Opt {
			return nil
		}
		return float64(0)
	case KindBool:
		if n.Opt {
			return nil
		}
		return false
	case KindObject:
		obj := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			// Optional primitives stay absent, not null.
			if f.Node.Opt {
				continue
			}
			obj[f.Name] = f.Node.Default()
		}
		return obj
	case KindArray:
		return []any{}
	}
	return nil
}
