package normalize

import "strconv"

// Coercion helpers over JSON-decoded objects. encoding/json decodes every
// number as float64 and every nested object as map[string]any, so the
// helpers only need to handle that shape. A missing key or a value of the
// wrong type yields the caller's default.

func rawBool(m map[string]any, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func rawInt(m map[string]any, key string, def int) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return def
}

func rawFloat(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return def
}

func rawString(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

// rawNumeric renders a numeric or string field as a string. Clients report
// some values (such as the UTC offset in minutes) as bare numbers.
func rawNumeric(m map[string]any, key, def string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.Itoa(int(v))
	}
	return def
}

// rawIntPtr distinguishes an absent field from a reported zero. Dimensions
// like hardware concurrency need that distinction because zero is itself a
// suspicious reading.
func rawIntPtr(m map[string]any, key string) *int {
	if v, ok := m[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

func rawFloatPtr(m map[string]any, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}

func rawBoolPtr(m map[string]any, key string) *bool {
	if v, ok := m[key].(bool); ok {
		return &v
	}
	return nil
}

func rawStrings(m map[string]any, key string) []string {
	items, ok := m[key].([]any)
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

func rawObject(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func rawStringMap(m map[string]any, key string) map[string]string {
	obj := rawObject(m, key)
	if obj == nil {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func rawBoolMap(m map[string]any, key string) map[string]bool {
	obj := rawObject(m, key)
	if obj == nil {
		return nil
	}
	out := make(map[string]bool, len(obj))
	for k, v := range obj {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}
