package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and the CLI command that calls it.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresSession reports whether the handler needs the triage
	// orchestrator to be wired into the request context.
	RequiresSession() bool

	// Command returns a cobra command that calls this endpoint over HTTP,
	// or nil when the endpoint has no CLI counterpart.
	// getServerURL is evaluated when the command runs, after flag parsing.
	Command(getServerURL func() string) *cobra.Command
}
