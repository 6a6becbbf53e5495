package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/assistant"
	"github.com/jackzampolin/docsort/internal/svcctx"
)

// ChatRequest is the conversation so far, ending with the user's message.
type ChatRequest struct {
	Messages []assistant.Message `json:"messages"`
}

// ChatEndpoint handles POST /api/assistant/chat.
type ChatEndpoint struct{}

var _ api.Endpoint = (*ChatEndpoint)(nil)

func (e *ChatEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/assistant/chat", e.handler
}

func (e *ChatEndpoint) RequiresSession() bool { return false }

// handler godoc
//
//	@Summary		Chat with the assistant
//	@Description	Streams the assistant reply as plain text while it is generated
//	@Tags			assistant
//	@Accept			json
//	@Produce		plain
//	@Param			request	body		ChatRequest	true	"Conversation"
//	@Success		200		{string}	string
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/assistant/chat [post]
func (e *ChatEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	svc := svcctx.AssistantFrom(r.Context())
	if svc == nil || !svc.Configured() {
		writeError(w, http.StatusServiceUnavailable, assistant.ErrNotConfigured.Error())
		return
	}

	flusher, _ := w.(http.Flusher)
	started := false
	onDelta := func(delta string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := io.WriteString(w, delta); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	_, err := svc.Stream(r.Context(), req.Messages, onDelta)
	if err == nil {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
		}
		return
	}

	if started {
		// Status is already sent; the client sees a truncated reply.
		svcctx.LoggerFrom(r.Context()).Warn("assistant stream interrupted", "error", err)
		return
	}
	writeError(w, chatStatus(err), err.Error())
}

func chatStatus(err error) int {
	switch {
	case errors.Is(err, assistant.ErrInvalidConversation):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrNotConfigured), errors.Is(err, assistant.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (e *ChatEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the server's assistant a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			req := ChatRequest{Messages: []assistant.Message{{
				Role:    assistant.RoleUser,
				Content: strings.Join(args, " "),
			}}}
			if err := client.PostStream(cmd.Context(), "/api/assistant/chat", req, os.Stdout); err != nil {
				return err
			}
			os.Stdout.WriteString("\n")
			return nil
		},
	}
}
