package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/extract"
	"github.com/jackzampolin/docsort/internal/inspect"
	"github.com/jackzampolin/docsort/internal/render"
)

var (
	inspectImagesDir string
	inspectDPI       float64
)

// InspectReport summarizes both extraction passes for one file.
type InspectReport struct {
	File      string        `json:"file" yaml:"file"`
	Pages     int           `json:"pages" yaml:"pages"`
	Valid     bool          `json:"valid" yaml:"valid"`
	Problem   string        `json:"problem,omitempty" yaml:"problem,omitempty"`
	HasText   bool          `json:"has_text" yaml:"has_text"`
	DPI       float64       `json:"dpi" yaml:"dpi"`
	TextPages []PageSummary `json:"text_pages" yaml:"text_pages"`
	Images    []ImageInfo   `json:"images" yaml:"images"`
}

// PageSummary is the text pass result for one page.
type PageSummary struct {
	Source  int    `json:"source" yaml:"source"`
	Chars   int    `json:"chars" yaml:"chars"`
	Preview string `json:"preview,omitempty" yaml:"preview,omitempty"`
}

// ImageInfo is the render pass result for one page.
type ImageInfo struct {
	Source int    `json:"source" yaml:"source"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <pdf>",
	Short: "Run both extraction passes on a single PDF",
	Long: `Run the text and render passes on one file without moving it.

Useful when a document lands in an unexpected bucket: the report shows how
many pages each pass saw and how much text each page carries.

Examples:
  docsort inspect docs/scan_7.pdf
  docsort inspect docs/scan_7.pdf --images /tmp/scan_7 --dpi 150`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger := newLogger(cfg, os.Stderr)

		dpi := cfg.RenderDPI
		if cmd.Flags().Changed("dpi") {
			dpi = inspectDPI
		}

		report := InspectReport{
			File:      filepath.Base(path),
			Valid:     true,
			TextPages: make([]PageSummary, 0),
			Images:    make([]ImageInfo, 0),
		}

		in := inspect.New(inspect.Config{Logger: logger})
		if err := in.Validate(path); err != nil {
			report.Valid = false
			report.Problem = err.Error()
		}
		if n, err := in.PageCount(path); err == nil {
			report.Pages = n
		}

		records, err := extract.New(extract.Config{Logger: logger}).Extract(ctx, path)
		if err != nil {
			return fmt.Errorf("text pass: %w", err)
		}
		report.HasText = extract.HasText(records)
		for _, r := range records {
			report.TextPages = append(report.TextPages, PageSummary{
				Source:  r.Source,
				Chars:   len([]rune(r.Content)),
				Preview: preview(r.Content, 60),
			})
		}

		rasterizer := render.New(render.Config{DPI: dpi, Logger: logger})
		report.DPI = rasterizer.DPI()
		images, err := rasterizer.Rasterize(ctx, path)
		if err != nil {
			return fmt.Errorf("render pass: %w", err)
		}
		if inspectImagesDir != "" {
			if err := os.MkdirAll(inspectImagesDir, 0o755); err != nil {
				return err
			}
		}
		for _, img := range images {
			info := ImageInfo{Source: img.Source, Width: img.Width, Height: img.Height}
			if inspectImagesDir != "" {
				info.File = filepath.Join(inspectImagesDir, fmt.Sprintf("page_%03d.png", img.Source))
				if err := os.WriteFile(info.File, img.Bytes, 0o644); err != nil {
					return err
				}
			}
			report.Images = append(report.Images, info)
		}

		return api.Output(report)
	},
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func init() {
	inspectCmd.Flags().StringVar(&inspectImagesDir, "images", "", "write page renderings as PNG files into this directory")
	inspectCmd.Flags().Float64Var(&inspectDPI, "dpi", 300, "render resolution (default from config)")

	rootCmd.AddCommand(inspectCmd)
}
