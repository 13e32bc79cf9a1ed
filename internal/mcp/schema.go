package mcp

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a JSON-schema document describing a tool's input or output. The
// same document is served verbatim on tools/list and used to validate call
// arguments, so clients always see exactly what will be enforced.
type Schema struct {
	doc      map[string]interface{}
	compiled *gojsonschema.Schema
}

// NewSchema compiles a JSON-schema document. Documents are authored as map
// literals next to the tool they describe.
func NewSchema(doc map[string]interface{}) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{doc: doc, compiled: compiled}, nil
}

// MustSchema is NewSchema for statically declared tool schemas
func MustSchema(doc map[string]interface{}) *Schema {
	s, err := NewSchema(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Document returns the raw JSON-schema document for client introspection
func (s *Schema) Document() map[string]interface{} {
	return s.doc
}

// Apply fills declared defaults into a copy of args and validates the result
// against the schema. The original map is never mutated.
func (s *Schema) Apply(args map[string]interface{}) (map[string]interface{}, error) {
	merged := make(map[string]interface{}, len(args))
	for k, v := range args {
		merged[k] = v
	}

	if props, ok := s.doc["properties"].(map[string]interface{}); ok {
		for name, raw := range props {
			prop, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if def, ok := prop["default"]; ok {
				if _, present := merged[name]; !present {
					merged[name] = def
				}
			}
		}
	}

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(merged))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, fmt.Errorf("invalid arguments: %s", strings.Join(details, "; "))
	}

	return merged, nil
}
