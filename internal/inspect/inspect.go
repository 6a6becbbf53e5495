// Package inspect reads document structure without decoding page content.
package inspect

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Config configures an Inspector.
type Config struct {
	Logger *slog.Logger
}

// Inspector answers structural questions about PDF files.
type Inspector struct {
	logger *slog.Logger
}

// New creates an Inspector.
func New(cfg Config) *Inspector {
	// pdfcpu otherwise creates a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Inspector{logger: logger}
}

// PageCount returns the number of physical pages in the document.
func (i *Inspector) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, relaxed())
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return count, nil
}

// Validate checks the document's structure in relaxed mode.
func (i *Inspector) Validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	if err := api.Validate(f, relaxed()); err != nil {
		i.logger.Debug("document failed validation", "path", path, "error", err)
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}

func relaxed() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
