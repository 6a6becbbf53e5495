package endpoints

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/config"
	"github.com/jackzampolin/docsort/internal/svcctx"
)

// SettingsResponse lists effective config values.
type SettingsResponse struct {
	File     string         `json:"file,omitempty" yaml:"file,omitempty"`
	Settings []config.Entry `json:"settings" yaml:"settings"`
}

// ListSettingsEndpoint handles GET /api/settings.
type ListSettingsEndpoint struct{}

var _ api.Endpoint = (*ListSettingsEndpoint)(nil)

func (e *ListSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

func (e *ListSettingsEndpoint) RequiresSession() bool { return false }

// handler godoc
//
//	@Summary		List settings
//	@Description	Effective configuration values after file, environment and defaults. Secrets are masked.
//	@Tags			settings
//	@Produce		json
//	@Param			prefix	query		string	false	"Only keys starting with this prefix"
//	@Success		200		{object}	SettingsResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/settings [get]
func (e *ListSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ConfigFrom(r.Context())
	if mgr == nil {
		writeError(w, http.StatusServiceUnavailable, "config manager not available")
		return
	}

	prefix := r.URL.Query().Get("prefix")
	entries := make([]config.Entry, 0)
	for _, entry := range mgr.Entries() {
		if prefix != "" && !strings.HasPrefix(entry.Key, prefix) {
			continue
		}
		entries = append(entries, mask(entry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	writeJSON(w, http.StatusOK, SettingsResponse{File: mgr.File(), Settings: entries})
}

func (e *ListSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "List the server's effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/settings"
			if prefix != "" {
				path += "?prefix=" + prefix
			}
			var resp SettingsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only keys starting with this prefix (e.g. assistant.)")
	return cmd
}

// GetSettingEndpoint handles GET /api/settings/{key}.
type GetSettingEndpoint struct{}

var _ api.Endpoint = (*GetSettingEndpoint)(nil)

func (e *GetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings/{key}", e.handler
}

func (e *GetSettingEndpoint) RequiresSession() bool { return false }

// handler godoc
//
//	@Summary		Get setting
//	@Description	One effective configuration value
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Dotted config key"
//	@Success		200	{object}	config.Entry
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/settings/{key} [get]
func (e *GetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ConfigFrom(r.Context())
	if mgr == nil {
		writeError(w, http.StatusServiceUnavailable, "config manager not available")
		return
	}

	key := r.PathValue("key")
	value, err := mgr.Value(key)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, config.ErrInvalidKey):
			status = http.StatusBadRequest
		case errors.Is(err, config.ErrNoDefault):
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	entry := config.Entry{Key: key, Value: value}
	if def := config.GetDefault(key); def != nil {
		entry.Description = def.Description
	}
	writeJSON(w, http.StatusOK, mask(entry))
}

func (e *GetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "setting <key>",
		Short: "Show one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var entry config.Entry
			if err := client.Get(cmd.Context(), "/api/settings/"+args[0], &entry); err != nil {
				return err
			}
			return api.Output(entry)
		},
	}
}

// mask hides literal API keys; ${VAR} references are shown as written.
func mask(e config.Entry) config.Entry {
	if !strings.HasSuffix(e.Key, "api_key") {
		return e
	}
	if s, ok := e.Value.(string); ok && s != "" && !strings.HasPrefix(s, "${") {
		e.Value = "********"
	}
	return e
}
