// Package schema validates operation arguments before any host call runs.
//
// Every operation declares its argument shape as a JSON Schema document.
// Validation happens once, up front; adapters read the validated argument
// map through typed accessors and never re-check shapes themselves.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldError names one rejected argument and why it was rejected.
type FieldError struct {
	Field  string
	Reason string
}

// Invalid reports that an argument map failed schema validation. It lists
// every failing field, not just the first.
type Invalid struct {
	Fields []FieldError
}

func (e *Invalid) Error() string {
	if len(e.Fields) == 0 {
		return "invalid arguments"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

// Compiled is one operation's compiled argument schema.
type Compiled struct {
	doc      map[string]any
	compiled *gojsonschema.Schema
}

// MustCompile compiles a schema document. Operation schemas are static, so
// a malformed one is a programming error and panics at registration.
func MustCompile(doc map[string]any) *Compiled {
	c, err := Compile(doc)
	if err != nil {
		panic(err)
	}
	return c
}

// Compile compiles a schema document.
func Compile(doc map[string]any) (*Compiled, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Compiled{doc: doc, compiled: compiled}, nil
}

// Doc returns the schema document for publishing in tool listings.
func (c *Compiled) Doc() map[string]any {
	return c.doc
}

// Validate checks args against the schema. A nil args map validates as an
// empty object. Failures come back as *Invalid with one entry per field.
func (c *Compiled) Validate(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := c.compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("validate arguments: %w", err)
	}
	if result.Valid() {
		return nil
	}
	invalid := &Invalid{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			if property, ok := desc.Details()["property"].(string); ok {
				field = property
			}
		}
		invalid.Fields = append(invalid.Fields, FieldError{
			Field:  field,
			Reason: desc.Description(),
		})
	}
	return invalid
}
