package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/assistant"
	"github.com/jackzampolin/docsort/internal/classify"
	"github.com/jackzampolin/docsort/internal/config"
	"github.com/jackzampolin/docsort/internal/extract"
	"github.com/jackzampolin/docsort/internal/inspect"
	"github.com/jackzampolin/docsort/internal/metrics"
	"github.com/jackzampolin/docsort/internal/render"
	"github.com/jackzampolin/docsort/internal/server"
	"github.com/jackzampolin/docsort/internal/svcctx"
	"github.com/jackzampolin/docsort/internal/triage"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a triage session and the HTTP display",
	Long: `Start a triage session over the source directory and serve it over HTTP.

The queue is a snapshot taken at start; files added later are picked up by
a restart (the Reiniciar button, or docsort api restart).

The server provides:
  - /                          - triage page
  - /api/triage/current        - document awaiting a decision
  - /api/triage/classify       - sort it into a bucket
  - /api/assistant/chat        - streamed assistant replies
  - /metrics, /swagger.json    - Prometheus metrics and OpenAPI spec

Configuration changes are picked up while running: the assistant at once,
bucket directories at the next decision, the source directory at the next restart.

Examples:
  docsort serve                       # Serve ./docs on 127.0.0.1:8501
  docsort serve -w /srv/scans         # Use another workspace
  docsort serve --host 0.0.0.0        # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		logger := newLogger(cfg, os.Stdout)
		mgr.SetLogger(logger)

		ws, err := cfg.WorkspaceDir()
		if err != nil {
			return err
		}
		if err := ws.EnsureExists(); err != nil {
			return err
		}

		m := metrics.New()
		router := classify.New(classify.Config{Destinations: ws, Logger: logger})
		orch := triage.New(triage.Config{
			SourceDir:  ws.SourcePath(),
			Extension:  cfg.Extension,
			Extractor:  extract.New(extract.Config{Logger: logger}),
			Rasterizer: render.New(render.Config{DPI: cfg.RenderDPI, Logger: logger}),
			Counter:    inspect.New(inspect.Config{Logger: logger}),
			Router:     router,
			Recorder:   m,
			Logger:     logger,
		})
		asst := assistant.NewService(assistantConfig(cfg, m, logger))

		mgr.OnChange(func(c *config.Config) {
			next, err := c.WorkspaceDir()
			if err != nil {
				logger.Warn("keeping previous workspace layout", "error", err)
			} else {
				router.SetDestinations(next)
				orch.SetSource(next.SourcePath(), c.Extension)
			}
			asst.Update(assistantConfig(c, m, logger))
			logger.Info("configuration reloaded", "source", c.SourceDir, "model", c.Assistant.Model)
		})
		mgr.WatchConfig()

		if _, err := orch.Start(ctx); err != nil {
			return fmt.Errorf("failed to start triage session: %w", err)
		}

		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host: host,
			Port: port,
			Services: &svcctx.Services{
				Orchestrator: orch,
				Assistant:    asst,
				ConfigMgr:    mgr,
				Metrics:      m,
				Home:         ws,
				Logger:       logger,
			},
			Logger: logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 8501, "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
