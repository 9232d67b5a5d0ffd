package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func stringProp() map[string]any { return map[string]any{"type": "string"} }

// syllabusSchema mirrors domain.ParsedSyllabus. Extra keys are tolerated.
var syllabusSchema = map[string]any{
	"$schema":  "http://json-schema.org/draft-07/schema#",
	"type":     "object",
	"required": []string{"course", "events", "tasks", "grading"},
	"properties": map[string]any{
		"course": map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name":       stringProp(),
				"instructor": stringProp(),
				"credits":    map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"events": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"title", "date", "type"},
				"properties": map[string]any{
					"title": stringProp(),
					"date":  stringProp(),
					"type": map[string]any{
						"type": "string",
						"enum": []string{"Exam", "Assignment", "Quiz", "Reading", "Lab", "Presentation", "Event"},
					},
					"description": stringProp(),
				},
			},
		},
		"tasks": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"title", "due", "priority"},
				"properties": map[string]any{
					"title":    stringProp(),
					"due":      stringProp(),
					"priority": map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
					"course":   stringProp(),
					"type":     stringProp(),
				},
			},
		},
		"grading": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"components": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []string{"name", "weight"},
						"properties": map[string]any{
							"name":   stringProp(),
							"weight": map[string]any{"type": "string", "pattern": `^\d{1,3}(\.\d+)?%$`},
						},
					},
				},
			},
		},
	},
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("syllabus.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("syllabus.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

var compiledSyllabusSchema = mustCompile(syllabusSchema)

func mustCompile(schemaMap map[string]any) *jsonschema.Schema {
	s, err := compileSchema(schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

// validateSyllabusJSON checks raw model output against the syllabus schema.
func validateSyllabusJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := compiledSyllabusSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
