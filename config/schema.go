package config

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for the vigil configuration.
// It reflects the Config struct from types.go but excludes the 'Extensions'
// field, which holds sections owned by other layers.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown top-level keys are extension sections, so the schema
		// must not reject them.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for a cleaner schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
		// CommandSpec accepts a bare string or a program-plus-args list.
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(CommandSpec{}) {
				return &jsonschema.Schema{
					OneOf: []*jsonschema.Schema{
						{Type: "string"},
						{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					},
				}
			}
			return nil
		},
	}

	type BaseGroup struct {
		Name    string      `yaml:"name" jsonschema:"required,description=Unique group name"`
		Command CommandSpec `yaml:"command" jsonschema:"required,description=Build command to run when the group changes"`
		Files   []string    `yaml:"files" jsonschema:"required,description=Paths of the files to track"`
	}

	type BaseConfig struct {
		Groups          []BaseGroup `yaml:"groups" jsonschema:"required,description=Watched file groups"`
		DebounceSeconds *float64    `yaml:"debounce_seconds,omitempty" jsonschema:"minimum=0,description=Quiet interval before a change burst triggers a run"`
		Settings        *Settings   `yaml:"settings,omitempty" jsonschema:"description=Optional behavior tweaks"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Vigil Configuration"
	schema.Description = "Schema for vigil.yml watch configuration."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
