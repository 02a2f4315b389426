package audit

import (
	"fmt"
	"strconv"
)

// Snapshots arrive in two shapes: freshly built from typed models, or
// decoded from a persisted journal entry where every number is a
// float64 and every list is []any. These helpers normalize both.

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		if t == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func datePart(v any) string {
	s := asString(v)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, asString(e))
		}
		return out
	default:
		return nil
	}
}

func asResourceMap(v any) map[string]float64 {
	switch t := v.(type) {
	case map[string]float64:
		return t
	case map[string]any:
		out := make(map[string]float64, len(t))
		for k, e := range t {
			if f, ok := asNumber(e); ok {
				out[k] = f
			}
		}
		return out
	default:
		return nil
	}
}

func asFactorList(v any) []factorEntry {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]factorEntry, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		e := factorEntry{
			id:   asString(m["factorId"]),
			name: asString(m["name"]),
		}
		if e.id == "" {
			continue
		}
		if q, ok := asNumber(m["quantity"]); ok && q >= 1 {
			e.quantity = q
		} else {
			e.quantity = 1
		}
		out = append(out, e)
	}
	return out
}
