package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://xpquest-catalog.json"

// Schema is the JSON schema every catalog document must satisfy before it is
// decoded. Cross-field rules (unique ids, one correct option) live in
// Validate.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":       map[string]any{"type": "string", "minLength": 1},
					"order":    map[string]any{"type": "integer"},
					"prompt":   map[string]any{"type": "string"},
					"xp_value": map[string]any{"type": "integer", "minimum": 0},
					"options": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":         map[string]any{"type": "string", "minLength": 1},
								"label":      map[string]any{"type": "string"},
								"value":      map[string]any{"type": "string"},
								"is_correct": map[string]any{"type": "boolean"},
							},
							"required": []any{"id", "label"},
						},
					},
				},
				"required": []any{"id", "order", "prompt", "options"},
			},
		},
		"scenarios": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "minLength": 1},
					"title": map[string]any{"type": "string"},
					"steps": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"question":      map[string]any{"type": "string"},
								"options":       map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
								"correct_index": map[string]any{"type": "integer", "minimum": 0},
								"feedback":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								"delta":         map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
							},
							"required": []any{"question", "options", "correct_index", "feedback", "delta"},
						},
					},
				},
				"required": []any{"id", "title", "steps"},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidateJSON checks raw catalog JSON against Schema.
func ValidateJSON(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := s.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value, so round-trip the
		// Go literal through encoding/json.
		b, err := json.Marshal(Schema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(b, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
