package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var resultSchema = mustCompileSchema(map[string]any{
	"type":     "object",
	"required": []any{"tone", "intent", "impact", "rewrite"},
	"properties": map[string]any{
		"tone":    map[string]any{"type": "string"},
		"intent":  map[string]any{"type": "string"},
		"impact":  map[string]any{"type": "string"},
		"rewrite": map[string]any{"type": "string"},
	},
})

func mustCompileSchema(schema map[string]any) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile analysis result schema: %v", err))
	}
	return compiled
}

// ParseResult decodes normalized model text into a Result. Extra keys are
// ignored; missing or non-string fields are rejected.
func ParseResult(text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, invalidOutput(text, errors.New("empty model output"))
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return Result{}, invalidOutput(text, fmt.Errorf("decode json: %w", err))
	}

	validation, err := resultSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Result{}, invalidOutput(text, fmt.Errorf("validate schema: %w", err))
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			issues = append(issues, desc.String())
		}
		return Result{}, invalidOutput(text, fmt.Errorf("schema mismatch: %s", strings.Join(issues, "; ")))
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return Result{}, invalidOutput(text, fmt.Errorf("decode result: %w", err))
	}
	return result, nil
}
