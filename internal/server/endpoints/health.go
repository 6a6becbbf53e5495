package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/svcctx"
	"github.com/jackzampolin/docsort/internal/triage"
	"github.com/jackzampolin/docsort/version"
)

// HealthResponse is the response for the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresSession() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Returns ok while the HTTP server is responding
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server" yaml:"server"`
	Version   string          `json:"version" yaml:"version"`
	Session   SessionStatus   `json:"session" yaml:"session"`
	Workspace WorkspaceStatus `json:"workspace" yaml:"workspace"`
	Assistant AssistantStatus `json:"assistant" yaml:"assistant"`
}

// SessionStatus summarizes the triage session.
type SessionStatus struct {
	ID        string       `json:"id" yaml:"id"`
	State     triage.State `json:"state" yaml:"state"`
	FileName  string       `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	Processed int          `json:"processed" yaml:"processed"`
	Total     int          `json:"total" yaml:"total"`
	Done      bool         `json:"done" yaml:"done"`
}

// WorkspaceStatus shows where documents are read from and sorted into.
type WorkspaceStatus struct {
	ConfigFile string            `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Source     string            `json:"source" yaml:"source"`
	Extension  string            `json:"extension" yaml:"extension"`
	Buckets    map[string]string `json:"buckets" yaml:"buckets"`
}

// AssistantStatus shows whether chat is available.
type AssistantStatus struct {
	Configured bool   `json:"configured" yaml:"configured"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresSession() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Session progress, workspace layout and assistant availability
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := StatusResponse{
		Server:  "running",
		Version: version.GitRelease,
	}

	if orch := svcctx.OrchestratorFrom(ctx); orch != nil {
		p := orch.Current()
		resp.Session = SessionStatus{
			ID:        p.SessionID,
			State:     p.State,
			FileName:  p.FileName,
			Processed: p.Processed,
			Total:     p.Total,
			Done:      p.Done,
		}
	} else {
		resp.Session.State = triage.StateIdle
	}

	// The config reflects hot reloads; Home is the layout the server started with.
	h := svcctx.HomeFrom(ctx)
	if mgr := svcctx.ConfigFrom(ctx); mgr != nil {
		cfg := mgr.Get()
		resp.Workspace.ConfigFile = mgr.File()
		resp.Workspace.Extension = cfg.Extension
		if live, err := cfg.WorkspaceDir(); err == nil {
			h = live
		}
	}
	if h != nil {
		resp.Workspace.Source = h.SourcePath()
		resp.Workspace.Buckets = make(map[string]string)
		for b, path := range h.BucketPaths() {
			resp.Workspace.Buckets[string(b)] = path
		}
	}

	if a := svcctx.AssistantFrom(ctx); a != nil {
		resp.Assistant = AssistantStatus{Configured: a.Configured(), Model: a.Model()}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
