package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	output    string
	showCurl  bool
	serverURL string
	cfgPath   string
)

var rootCmd = &cobra.Command{
	Use:   "authzee",
	Short: "Authzee developer CLI for grant-based authorization workflows",
}

func Execute() error { return rootCmd.Execute() }

func init() {
	home, _ := os.UserHomeDir()
	defaultCfg := filepath.Join(home, ".authzee", "config.yaml")

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format; responses are always printed as JSON, whatever the value")
	rootCmd.PersistentFlags().BoolVar(&showCurl, "show-curl", false, "print equivalent curl for networked commands")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "http://localhost:8085", "authzeed base URL")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "config file path")

	rootCmd.AddCommand(cmdInit(), cmdServe(), cmdAudit(), cmdAuthorize(), cmdSchema(), cmdValidateDefinitions(), cmdVersion())

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "Show help",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().Help()
		},
	})
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Println("Use -h for help, for example: authzee authorize -f samples/workflow_request.json")
	}
}
