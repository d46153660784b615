// In-place merge that keeps surviving container identities.

package storedobject

// mergeMap mutates dst so its content equals src while preserving dst's own
// identity and that of every nested map present on both sides. Keys missing
// from src are deleted; matching nested maps recurse; matching slices reuse
// the destination's backing storage when capacity allows; anything else is
// assigned directly.
func mergeMap(dst, src map[string]any) {
	for k := range dst {
		if _, ok := src[k]; !ok {
			delete(dst, k)
		}
	}
	for k, v := range src {
		if dm, ok := dst[k].(map[string]any); ok {
			if sm, ok := v.(map[string]any); ok {
				mergeMap(dm, sm)
				continue
			}
		}
		if ds, ok := dst[k].([]any); ok {
			if sv, ok := v.([]any); ok {
				dst[k] = append(ds[:0], sv...)
				continue
			}
		}
		dst[k] = v
	}
}

// mergeSlice replaces the cell's contents in place. The pointer cell is the
// stable identity callers observe for a root-array store.
func mergeSlice(dst *[]any, src []any) {
	*dst = append((*dst)[:0], src...)
}

// deepCopy clones a JSON-shaped value. Used when a value is adopted without
// passing through validation (which already rebuilds the tree).
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, deepCopy(e))
		}
		return out
	default:
		return v
	}
}
