// Package schema validates vigil configuration against its JSON Schema,
// catching shape mistakes (wrong types, unknown group fields) that the
// semantic checks in package config do not cover.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/vigil/config"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator validates configuration against the generated JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the schema reflected from the configuration types.
func NewValidator() (*Validator, error) {
	data, err := config.GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("vigil.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("vigil.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks raw configuration data against the schema. The input is
// the decoded document, not the typed Config, so shape errors the decoder
// papered over are still caught.
func (v *Validator) Validate(raw map[string]interface{}) error {
	// Round-trip through JSON so YAML-decoded values take the plain
	// types the schema library expects.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal config for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal config for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var errorMessages []string
			collectErrors(validationErr, &errorMessages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(errorMessages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" {
		*messages = append(*messages, fmt.Sprintf("- %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
