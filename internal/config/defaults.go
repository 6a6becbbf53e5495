package config

import (
	"errors"
	"fmt"
	"sort"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry describes one configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DefaultEntries returns every leaf configuration key with its default value.
// The manager seeds viper with these so each key can be overridden from the
// environment (DOCSORT_ASSISTANT_MODEL, DOCSORT_BUCKETS_IMAGE_ONLY, ...).
func DefaultEntries() []Entry {
	d := DefaultConfig()

	entries := []Entry{
		{Key: "workspace", Value: d.Workspace, Description: "Root of the triage workspace; empty means the working directory"},
		{Key: "source_dir", Value: d.SourceDir, Description: "Directory holding documents awaiting a decision"},
		{Key: "extension", Value: d.Extension, Description: "File extension picked up from the source directory"},
		{Key: "render_dpi", Value: d.RenderDPI, Description: "Resolution of rendered page images"},
		{Key: "log_level", Value: d.LogLevel, Description: "Log level: debug, info, warn or error"},
		{Key: "server.host", Value: d.Server.Host, Description: "Address the display server binds to"},
		{Key: "server.port", Value: d.Server.Port, Description: "Port the display server listens on"},
		{Key: "assistant.base_url", Value: d.Assistant.BaseURL, Description: "OpenAI-compatible chat completions endpoint"},
		{Key: "assistant.model", Value: d.Assistant.Model, Description: "Chat model name"},
		{Key: "assistant.api_key", Value: d.Assistant.APIKey, Description: "Assistant API key (uses environment variable)"},
		{Key: "assistant.system_prompt", Value: d.Assistant.SystemPrompt, Description: "Persona prepended to every conversation"},
		{Key: "assistant.rate_limit", Value: d.Assistant.RateLimit, Description: "Requests per minute; 0 disables limiting"},
		{Key: "assistant.max_retries", Value: d.Assistant.MaxRetries, Description: "Retries before the first streamed token"},
		{Key: "assistant.timeout_seconds", Value: d.Assistant.TimeoutSeconds, Description: "Per-request timeout"},
		{Key: "assistant.temperature", Value: d.Assistant.Temperature, Description: "Sampling temperature"},
	}

	buckets := make([]string, 0, len(d.Buckets))
	for b := range d.Buckets {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	for _, b := range buckets {
		entries = append(entries, Entry{
			Key:         "buckets." + b,
			Value:       d.Buckets[b],
			Description: fmt.Sprintf("Storage directory for the %s bucket", b),
		})
	}
	return entries
}

// GetDefault returns the default value for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// MustDefault is GetDefault returning ErrNoDefault for unknown keys.
func MustDefault(key string) (Entry, error) {
	def := GetDefault(key)
	if def == nil {
		return Entry{}, fmt.Errorf("%w for key %q", ErrNoDefault, key)
	}
	return *def, nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
