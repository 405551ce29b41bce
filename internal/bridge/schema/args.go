package schema

// Args is a validated argument map. Accessors trust the schema: a field
// that validated as a string is read as a string, and a missing optional
// field yields the zero value unless an Or variant supplies a default.
type Args map[string]any

func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a Args) String(key string) string {
	v, _ := a[key].(string)
	return v
}

func (a Args) StringOr(key, fallback string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return fallback
}

// Int reads a numeric field. JSON decoding yields float64 for all numbers;
// schemas with "type": "integer" guarantee the value is whole.
func (a Args) Int(key string) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (a Args) IntOr(key string, fallback int) int {
	if _, ok := a[key]; !ok {
		return fallback
	}
	return a.Int(key)
}

func (a Args) Float(key string) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (a Args) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

func (a Args) BoolOr(key string, fallback bool) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return fallback
}

func (a Args) Strings(key string) []string {
	raw, ok := a[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (a Args) Map(key string) map[string]any {
	v, _ := a[key].(map[string]any)
	return v
}
