package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/docsort/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assistant.APIKey != "${TOGETHER_APIKEY}" {
		t.Error("expected together API key placeholder")
	}
	if cfg.RenderDPI != 200 {
		t.Errorf("expected 200 DPI, got %v", cfg.RenderDPI)
	}
	if len(cfg.Buckets) != 3 {
		t.Errorf("expected 3 buckets, got %d", len(cfg.Buckets))
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestAssistantCfg_ResolvedAPIKey(t *testing.T) {
	t.Setenv("TEST_TOGETHER_KEY", "tg-key-123")

	cfg := AssistantCfg{APIKey: "${TEST_TOGETHER_KEY}"}
	if got := cfg.ResolvedAPIKey(); got != "tg-key-123" {
		t.Errorf("expected tg-key-123, got %s", got)
	}
}

func TestConfig_Layout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Buckets["weird"] = "odd_docs"
	delete(cfg.Buckets, "anomalous")

	layout, err := cfg.Layout()
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if layout.BucketDirs[types.BucketAnomalous] != "odd_docs" {
		t.Errorf("alias not mapped: %v", layout.BucketDirs)
	}

	cfg.Buckets["trash"] = "trash"
	if _, err := cfg.Layout(); err == nil {
		t.Error("expected error for unknown bucket")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestServerCfg(t *testing.T) {
	s := ServerCfg{Host: "0.0.0.0", Port: 9000}
	if s.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %s", s.Addr())
	}
	if s.URL() != "http://localhost:9000" {
		t.Errorf("URL() = %s", s.URL())
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
source_dir: inbox
render_dpi: 150
assistant:
  model: test-model
`)
		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.SourceDir != "inbox" {
			t.Errorf("expected inbox, got %s", cfg.SourceDir)
		}
		if cfg.RenderDPI != 150 {
			t.Errorf("expected 150, got %v", cfg.RenderDPI)
		}
		if cfg.Assistant.Model != "test-model" {
			t.Errorf("expected test-model, got %s", cfg.Assistant.Model)
		}
		// Unset keys keep their defaults.
		if cfg.Extension != ".pdf" || cfg.Buckets["image-only"] != "img_docs" {
			t.Errorf("defaults lost: extension=%q buckets=%v", cfg.Extension, cfg.Buckets)
		}
		if mgr.File() != configFile {
			t.Errorf("File() = %s, want %s", mgr.File(), configFile)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DOCSORT_SERVER_PORT", "9100")
		t.Setenv("DOCSORT_BUCKETS_IMAGE_ONLY", "scans")

		mgr, err := NewManager(writeConfig(t, "log_level: debug\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.Server.Port != 9100 {
			t.Errorf("expected port 9100, got %d", cfg.Server.Port)
		}
		if cfg.Buckets["image-only"] != "scans" {
			t.Errorf("expected scans, got %s", cfg.Buckets["image-only"])
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "render_dpi: 5\n")); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("rejects malformed file", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "source_dir: [unclosed\n")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestManager_Entries(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "extension: .PDF\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	found := false
	for _, e := range mgr.Entries() {
		if e.Key == "extension" {
			found = true
			if e.Value != ".PDF" {
				t.Errorf("extension = %v, want .PDF", e.Value)
			}
		}
	}
	if !found {
		t.Error("extension entry missing")
	}

	v, err := mgr.Value("server.port")
	if err != nil || v == nil {
		t.Errorf("Value(server.port) = %v, %v", v, err)
	}
	if _, err := mgr.Value("bad key!"); err == nil {
		t.Error("expected invalid key error")
	}
}

func TestManager_Override(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "workspace: /from/file\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Override("workspace", "/from/flag"); err != nil {
		t.Fatalf("Override failed: %v", err)
	}
	if got := mgr.Get().Workspace; got != "/from/flag" {
		t.Errorf("workspace = %s, want /from/flag", got)
	}
	if err := mgr.Override("render_dpi", 1); err == nil {
		t.Error("override that fails validation should be rejected")
	}
	if err := mgr.Override("bad key", 1); err == nil {
		t.Error("expected invalid key error")
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log_level: info\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log_level: info\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Buckets["correct"]
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, `
assistant:
  model: initial-model
`)

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if got := mgr.Get().Assistant.Model; got != "initial-model" {
		t.Errorf("initial value mismatch: expected initial-model, got %s", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Assistant.Model)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	newContent := `
assistant:
  model: updated-model
`
	if err := os.WriteFile(configFile, []byte(newContent), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}

	if got := mgr.Get().Assistant.Model; got != "updated-model" {
		t.Errorf("config not updated: expected updated-model, got %s", got)
	}
	if v := lastValue.Load(); v != "updated-model" {
		t.Errorf("callback received wrong value: expected updated-model, got %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default does not load: %v", err)
	}
	cfg := mgr.Get()
	if cfg.SourceDir != "docs" || cfg.Buckets["anomalous"] != "weird_docs" {
		t.Errorf("round trip lost values: %+v", cfg)
	}
}
