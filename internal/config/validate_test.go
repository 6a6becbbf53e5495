package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"dpi too low", func(c *Config) { c.RenderDPI = 10 }, true},
		{"dpi too high", func(c *Config) { c.RenderDPI = 5000 }, true},
		{"empty extension", func(c *Config) { c.Extension = "" }, true},
		{"extension without dot", func(c *Config) { c.Extension = "pdf" }, true},
		{"unknown bucket", func(c *Config) { c.Buckets["trash"] = "trash" }, true},
		{"empty bucket dir", func(c *Config) { c.Buckets["correct"] = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"negative retries", func(c *Config) { c.Assistant.MaxRetries = -1 }, true},
		{"temperature out of range", func(c *Config) { c.Assistant.Temperature = 3 }, true},
		{"bucket shares source dir", func(c *Config) { c.Buckets["correct"] = "docs" }, true},
		{"buckets share a dir", func(c *Config) { c.Buckets["correct"] = "img_docs/" }, true},
		{"custom dirs", func(c *Config) { c.SourceDir = "inbox"; c.Buckets["anomalous"] = "review" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
