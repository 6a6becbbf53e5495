package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/queue"
)

// QueueListing is the offline view of the source directory.
type QueueListing struct {
	Source    string   `json:"source" yaml:"source"`
	Extension string   `json:"extension" yaml:"extension"`
	Total     int      `json:"total" yaml:"total"`
	Documents []string `json:"documents" yaml:"documents"`
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List pending documents in presentation order",
	Long: `List the documents a new session would present, in natural order
(doc2.pdf before doc10.pdf). Does not need a running server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		ws, err := cfg.WorkspaceDir()
		if err != nil {
			return err
		}

		q, err := queue.Build(ws.SourcePath(), cfg.Extension)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("source directory %s does not exist", ws.SourcePath())
			}
			return err
		}

		listing := QueueListing{
			Source:    ws.SourcePath(),
			Extension: cfg.Extension,
			Documents: make([]string, 0),
		}
		for _, doc := range q.Documents() {
			listing.Documents = append(listing.Documents, doc.FileName)
		}
		listing.Total = len(listing.Documents)
		return api.Output(listing)
	},
}

func init() {
	rootCmd.AddCommand(queueCmd)
}
