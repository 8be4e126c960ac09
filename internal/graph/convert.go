package graph

// Record values come back from the driver as int64, float64, string, or
// []any depending on the Cypher expression. These helpers normalize them so
// query consumers do not repeat type switches.

// AsInt64 converts a record value to int64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// AsFloat64 converts a record value to float64.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// AsString converts a record value to string, returning "" for nil or
// non-string values.
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsStringSlice converts a record value to []string, skipping non-string
// elements. Returns nil for anything that is not a slice.
func AsStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
