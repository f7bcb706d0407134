package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runWorkflowCall reads a workflow request document from file, POSTs it
// to path on the configured server, and prints the response body.
func runWorkflowCall(cmd *cobra.Command, file, path string) error {
	body, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	base := cfg.ServerURL
	if cmd.Flags().Changed("server-url") {
		base = serverURL
	}

	respBody, status, err := httpDoJSON("POST", base+path, body, nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("server returned status %d: %s", status, respBody)
	}
	return printJSON(respBody)
}

func cmdAudit() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "audit",
		Short: "Run the Audit workflow against a definitions/grants/request document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowCall(cmd, file, "/v1/audit")
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "path to a workflow request JSON document")
	_ = c.MarkFlagRequired("file")
	return c
}

func cmdAuthorize() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "authorize",
		Short: "Run the Authorize workflow against a definitions/grants/request document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowCall(cmd, file, "/v1/authorize")
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "path to a workflow request JSON document")
	_ = c.MarkFlagRequired("file")
	return c
}

func cmdSchema() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "schema",
		Short: "Generate the grant/request/error/response schemas for a definitions document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowCall(cmd, file, "/v1/schema")
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "path to an identity_defs/resource_defs JSON document")
	_ = c.MarkFlagRequired("file")
	return c
}

func cmdValidateDefinitions() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "validate-definitions",
		Short: "Validate a definitions document without generating schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowCall(cmd, file, "/v1/validate-definitions")
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "path to an identity_defs/resource_defs JSON document")
	_ = c.MarkFlagRequired("file")
	return c
}
