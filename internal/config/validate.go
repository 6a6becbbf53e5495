package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "source_dir": {"type": "string", "minLength": 1},
    "extension": {"type": "string", "pattern": "^\\.[A-Za-z0-9]+$"},
    "buckets": {
      "type": "object",
      "propertyNames": {"enum": ["correct", "image-only", "anomalous"]},
      "additionalProperties": {"type": "string", "minLength": 1}
    },
    "render_dpi": {"type": "number", "minimum": 36, "maximum": 1200},
    "log_level": {"enum": ["", "debug", "info", "warn", "warning", "error"]},
    "server": {
      "type": "object",
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535}
      }
    },
    "assistant": {
      "type": "object",
      "properties": {
        "base_url": {"type": "string"},
        "model": {"type": "string"},
        "rate_limit": {"type": "number", "minimum": 0},
        "max_retries": {"type": "integer", "minimum": 0, "maximum": 10},
        "timeout_seconds": {"type": "integer", "minimum": 1},
        "temperature": {"type": "number", "minimum": 0, "maximum": 2}
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func configSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.schema.json", strings.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("failed to load config schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("config.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile config schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks cfg against the config schema and checks that the
// source and bucket directories are distinct.
func Validate(cfg *Config) error {
	schema, err := configSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode config for validation: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := map[string]string{filepath.Clean(cfg.SourceDir): "source_dir"}
	for name, dir := range cfg.Buckets {
		clean := filepath.Clean(dir)
		if other, ok := seen[clean]; ok {
			return fmt.Errorf("invalid config: buckets.%s and %s share directory %q", name, other, dir)
		}
		seen[clean] = "buckets." + name
	}
	return nil
}
