package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/assistant"
	"github.com/jackzampolin/docsort/internal/config"
	"github.com/jackzampolin/docsort/version"
)

var (
	cfgFile      string
	workspaceDir string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "docsort",
	Short: "Manual triage of PDF documents into buckets",
	Long: `docsort walks the PDFs in a source directory one at a time, shows each
page's text layer next to its rendering, and moves the document into the
bucket the operator picks:

  - correct      text layer matches the page images
  - image-only   no usable text layer
  - anomalous    anything else worth a second look`,
	Version:      version.GitRelease,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		api.SetOutputFormat(outputFormat)

		// .env is optional; it lets ${TOGETHER_APIKEY} resolve without exporting it.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docsort/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&workspaceDir, "workspace", "w", "", "workspace directory holding the source and bucket dirs (default: working directory)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)",
	)

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig() (*config.Manager, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	if workspaceDir != "" {
		if err := mgr.Override("workspace", workspaceDir); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		if err := mgr.Override("log_level", logLevel); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// assistantConfig builds the assistant client settings from cfg.
func assistantConfig(cfg *config.Config, rec assistant.Recorder, logger *slog.Logger) assistant.Config {
	ac := assistant.ConfigFrom(cfg.Assistant)
	ac.Recorder = rec
	ac.Logger = logger
	return ac
}
