package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/assistant"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant from the terminal",
	Long: `Start an interactive conversation with the assistant. Replies stream as
they arrive. The history lasts until you exit.

Commands:
  /reset   start a new conversation
  /exit    quit

Requires assistant.api_key (default ${TOGETHER_APIKEY}).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger := newLogger(cfg, os.Stderr)

		svc := assistant.NewService(assistantConfig(cfg, nil, logger))
		if !svc.Configured() {
			return fmt.Errorf("%w: set TOGETHER_APIKEY or assistant.api_key", assistant.ErrNotConfigured)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "docsort assistant (%s). /reset to start over, /exit to quit.\n", svc.Model())

		var conv assistant.Conversation
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "/exit", "/quit":
				return nil
			case "/reset":
				conv.Reset()
				fmt.Fprintln(out, "(conversation cleared)")
				continue
			}

			_, err := conv.Ask(ctx, svc, line, func(delta string) error {
				_, err := fmt.Fprint(out, delta)
				return err
			})
			fmt.Fprintln(out)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				if errors.Is(err, assistant.ErrUnavailable) {
					fmt.Fprintln(out, "(assistant unavailable, try again shortly)")
					continue
				}
				fmt.Fprintf(out, "(error: %v)\n", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
