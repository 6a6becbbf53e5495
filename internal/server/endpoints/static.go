package endpoints

import (
	"io/fs"
	"net/http"
	"path"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/web"
)

// StaticEndpoint serves the embedded triage page and its assets.
// Paths that are not an asset get the page itself.
type StaticEndpoint struct{}

var _ api.Endpoint = (*StaticEndpoint)(nil)

func (e *StaticEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/{path...}", e.handler
}

func (e *StaticEndpoint) RequiresSession() bool { return false }

func (e *StaticEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

func (e *StaticEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	assets, err := web.Assets()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "triage page not available")
		return
	}

	name := r.PathValue("path")
	if name != "" && name != "index.html" {
		if info, err := fs.Stat(assets, path.Clean(name)); err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, assets, path.Clean(name))
			return
		}
	}

	page, err := web.Index()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "triage page not available")
		return
	}
	// The page polls the session itself; never serve a cached copy after a restart.
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
