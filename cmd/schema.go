package cmd

import (
	"fmt"

	"github.com/grovetools/vigil/config"
	"github.com/spf13/cobra"
)

// NewSchemaCmd returns the schema command, printing the configuration JSON
// Schema for editor integration and external validation.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for vigil configuration files",
		Long: `Print the JSON Schema describing vigil.yml to stdout.

Examples:
  # Save the schema for editor completion
  vigil schema > vigil.schema.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
