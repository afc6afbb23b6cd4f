package postgen

// MergePartial folds a newer partial into the accumulated one. Scalars take
// the newest non-absent value, objects merge recursively, arrays merge
// element-wise with newer values overwriting at the same index. Values are
// never retracted: a src array shorter than dst leaves dst's tail in place.
func MergePartial(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, sv := range src {
		if sv == nil {
			if _, ok := dst[k]; !ok {
				dst[k] = nil
			}
			continue
		}
		switch svt := sv.(type) {
		case map[string]any:
			dm, _ := dst[k].(map[string]any)
			dst[k] = MergePartial(dm, svt)
		case []any:
			da, _ := dst[k].([]any)
			dst[k] = mergeSlices(da, svt)
		default:
			dst[k] = sv
		}
	}
	return dst
}

func mergeSlices(dst, src []any) []any {
	out := dst
	for i, sv := range src {
		if i >= len(out) {
			out = append(out, sv)
			continue
		}
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := out[i].(map[string]any); ok {
				out[i] = MergePartial(dm, sm)
				continue
			}
		}
		if sv != nil {
			out[i] = sv
		}
	}
	return out
}

// CloneValue deep-copies a decoded JSON value so published snapshots stay
// immutable while the reducer keeps merging into its own copy.
func CloneValue(v any) any {
	switch vt := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vt))
		for k, val := range vt {
			out[k] = CloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(vt))
		for i, val := range vt {
			out[i] = CloneValue(val)
		}
		return out
	default:
		return v
	}
}

// CloneMap is CloneValue specialized for the top-level partial.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return CloneValue(m).(map[string]any)
}
