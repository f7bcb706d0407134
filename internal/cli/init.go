package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// sampleDefinitions seeds a workspace with a minimal identity/resource
// definition pair new users can edit in place: a User identity and a
// Balloon resource with pop/inflate actions.
var sampleDefinitions = map[string]any{
	"identity_defs": []map[string]any{
		{
			"identity_type": "User",
			"schema": map[string]any{
				"type":       "object",
				"required":   []string{"role"},
				"properties": map[string]any{"role": map[string]any{"type": "string"}},
			},
		},
	},
	"resource_defs": []map[string]any{
		{
			"resource_type": "Balloon",
			"actions":       []string{"pop", "inflate"},
			"schema":        map[string]any{"type": "object"},
			"parent_types":  []string{},
			"child_types":   []string{},
		},
	},
}

func cmdInit() *cobra.Command {
	var definitionsPath string

	c := &cobra.Command{
		Use:   "init",
		Short: "Create ~/.authzee/config.yaml and a sample definitions file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &Config{ServerURL: serverURL}
			if err := saveConfig(cfgPath, cfg); err != nil {
				return err
			}

			raw, err := json.MarshalIndent(sampleDefinitions, "", "  ")
			if err != nil {
				return err
			}
			if err := writeFile(definitionsPath, raw, 0o644); err != nil {
				return err
			}

			fmt.Printf("Wrote config: %s\nSample definitions: %s\n", cfgPath, definitionsPath)
			return nil
		},
	}
	c.Flags().StringVar(&definitionsPath, "definitions", "definitions.json", "path to write the sample definitions file")
	return c
}
