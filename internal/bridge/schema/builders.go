package schema

// Builders for the small subset of JSON Schema the operations use. They
// keep the per-operation declarations compact and uniform.

// Object builds an object schema. Unknown properties are rejected so a
// misspelled optional argument fails validation instead of being ignored.
// A nil properties map declares a zero-argument operation.
func Object(properties map[string]any, required ...string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func String(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// NonEmptyString rejects "" so hosts never see blank names or paths.
func NonEmptyString(description string) map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "description": description}
}

func Enum(description string, values ...string) map[string]any {
	options := make([]any, 0, len(values))
	for _, v := range values {
		options = append(options, v)
	}
	return map[string]any{"type": "string", "enum": options, "description": description}
}

func Integer(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func IntegerMin(description string, min int) map[string]any {
	return map[string]any{"type": "integer", "minimum": min, "description": description}
}

func Number(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func NumberRange(description string, min, max float64) map[string]any {
	return map[string]any{"type": "number", "minimum": min, "maximum": max, "description": description}
}

func Boolean(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func ArrayOf(items map[string]any, description string) map[string]any {
	return map[string]any{"type": "array", "items": items, "description": description}
}

func NonEmptyArrayOf(items map[string]any, description string) map[string]any {
	return map[string]any{"type": "array", "items": items, "minItems": 1, "description": description}
}

// FreeObject admits any object. Used for host setting bags whose keys the
// bridge passes through untouched.
func FreeObject(description string) map[string]any {
	return map[string]any{"type": "object", "description": description}
}
