package main

import (
	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/config"
	"github.com/jackzampolin/docsort/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if mgr, err := config.NewManager(cfgFile); err == nil {
		return mgr.Get().Server.URL()
	}
	return config.DefaultConfig().Server.URL()
}

func init() {
	apiCmd := api.NewRegistry(endpoints.All()...).BuildCommands(getServerURL)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "", "Server URL (default: from config server.host and server.port)",
	)
	rootCmd.AddCommand(apiCmd)
}
