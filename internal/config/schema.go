package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/jackzampolin/docsort/internal/home"
	"github.com/jackzampolin/docsort/internal/types"
)

// Config holds docsort configuration.
// Stored at: ./config.yaml or $HOME/.docsort/config.yaml
type Config struct {
	Workspace string            `mapstructure:"workspace" yaml:"workspace" json:"workspace"`    // Root of the triage workspace (default: working directory)
	SourceDir string            `mapstructure:"source_dir" yaml:"source_dir" json:"source_dir"` // Pending documents, relative to workspace
	Extension string            `mapstructure:"extension" yaml:"extension" json:"extension"`    // File extension picked up from the source dir
	Buckets   map[string]string `mapstructure:"buckets" yaml:"buckets" json:"buckets"`          // bucket -> directory
	RenderDPI float64           `mapstructure:"render_dpi" yaml:"render_dpi" json:"render_dpi"` // Raster pass resolution
	LogLevel  string            `mapstructure:"log_level" yaml:"log_level" json:"log_level"`    // debug, info, warn, error
	Server    ServerCfg         `mapstructure:"server" yaml:"server" json:"server"`
	Assistant AssistantCfg      `mapstructure:"assistant" yaml:"assistant" json:"assistant"`
}

// ServerCfg configures the HTTP display surface.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port int    `mapstructure:"port" yaml:"port" json:"port"`
}

// AssistantCfg configures the chat assistant.
type AssistantCfg struct {
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url" json:"base_url"`       // OpenAI-compatible endpoint
	Model          string  `mapstructure:"model" yaml:"model" json:"model"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key" json:"api_key"`          // Supports ${ENV_VAR} syntax
	SystemPrompt   string  `mapstructure:"system_prompt" yaml:"system_prompt" json:"system_prompt"`
	RateLimit      float64 `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"` // Requests per minute, 0 = unlimited
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
}

// DefaultSystemPrompt is the assistant persona used when none is configured.
const DefaultSystemPrompt = "Usted es un experto en el cuidado de ancianos, con un profundo énfasis en salud y nutrición. " +
	"Proporcione consejos especializados, información precisa y apoyo práctico a los cuidadores de ancianos: " +
	"dieta adecuada para los mayores, manejo de condiciones de salud comunes, bienestar emocional y rutinas de ejercicio seguras. " +
	"Si recibe una pregunta fuera de estos temas, indique amablemente que no puede ayudar y oriente al usuario hacia recursos relevantes. " +
	"Si la pregunta no está clara, pida aclaraciones. Su enfoque debe ser amable, compasivo y paciente."

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	buckets := make(map[string]string, len(home.DefaultBucketDirs))
	for b, dir := range home.DefaultBucketDirs {
		buckets[b.String()] = dir
	}
	return &Config{
		SourceDir: home.DefaultSourceDirName,
		Extension: ".pdf",
		Buckets:   buckets,
		RenderDPI: 200,
		LogLevel:  "info",
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: 8501,
		},
		Assistant: AssistantCfg{
			BaseURL:        "https://api.together.xyz/v1",
			Model:          "meta-llama/Llama-3-8b-chat-hf",
			APIKey:         "${TOGETHER_APIKEY}",
			SystemPrompt:   DefaultSystemPrompt,
			RateLimit:      60,
			MaxRetries:     3,
			TimeoutSeconds: 120,
			Temperature:    0.7,
		},
	}
}

// Layout converts the directory settings into a workspace layout.
func (c *Config) Layout() (home.Layout, error) {
	layout := home.Layout{
		SourceDir:  c.SourceDir,
		BucketDirs: make(map[types.Bucket]string, len(c.Buckets)),
	}
	for name, dir := range c.Buckets {
		b, err := types.ParseBucket(name)
		if err != nil {
			return home.Layout{}, err
		}
		layout.BucketDirs[b] = dir
	}
	return layout, nil
}

// WorkspaceDir opens the workspace directory described by the config.
func (c *Config) WorkspaceDir() (*home.Dir, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	return home.New(c.Workspace, layout)
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name onto a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Addr returns the host:port the server listens on.
func (s ServerCfg) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the base URL clients use to reach the server.
func (s ServerCfg) URL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(s.Port)))
}

// ResolvedAPIKey returns the API key with ${ENV_VAR} references expanded.
func (a AssistantCfg) ResolvedAPIKey() string {
	return ResolveEnvVars(a.APIKey)
}
