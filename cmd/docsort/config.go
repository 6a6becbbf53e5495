package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/config"
)

var (
	configInitPath  string
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to ./config.yaml (or --path).
Refuses to overwrite an existing file unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configInitPath); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configInitPath)
		}
		if err := config.WriteDefault(configInitPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configInitPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [prefix]",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after file, environment and flag overrides.
With a prefix, list only matching keys (e.g. "docsort config show assistant").`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			cfg := *mgr.Get()
			cfg.Assistant.APIKey = maskKey(cfg.Assistant.APIKey)
			return api.Output(cfg)
		}

		var entries []config.Entry
		for _, e := range mgr.Entries() {
			if !strings.HasPrefix(e.Key, args[0]) {
				continue
			}
			if e.Key == "assistant.api_key" {
				if s, ok := e.Value.(string); ok {
					e.Value = maskKey(s)
				}
			}
			entries = append(entries, e)
		}
		return api.Output(entries)
	},
}

// maskKey hides literal keys; ${VAR} references are shown as written.
func maskKey(s string) string {
	if s == "" || strings.HasPrefix(s, "${") {
		return s
	}
	return "********"
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "config.yaml", "where to write the file")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
