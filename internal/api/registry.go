package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates an endpoint registry.
func NewRegistry(eps ...Endpoint) *Registry {
	r := &Registry{}
	for _, ep := range eps {
		r.Register(ep)
	}
	return r
}

// Register adds an endpoint.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes adds every endpoint route to mux.
// requireSession wraps handlers of endpoints that need the orchestrator.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, requireSession func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresSession() && requireSession != nil {
			handler = requireSession(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns the "api" command with one subcommand per endpoint
// that has a CLI counterpart.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call a running docsort server over HTTP.

These commands require a running server (docsort serve).
Use --server to point at a different address.

Examples:
  docsort api health                              # Check server health
  docsort api current                             # Show the document awaiting a decision
  docsort api classify factura_3.pdf correct      # Sort the current document`,
	}

	for _, ep := range r.endpoints {
		if cmd := ep.Command(getServerURL); cmd != nil {
			apiCmd.AddCommand(cmd)
		}
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
