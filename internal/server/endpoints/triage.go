package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsort/internal/api"
	"github.com/jackzampolin/docsort/internal/classify"
	"github.com/jackzampolin/docsort/internal/svcctx"
	"github.com/jackzampolin/docsort/internal/triage"
	"github.com/jackzampolin/docsort/internal/types"
)

// CurrentEndpoint handles GET /api/triage/current.
type CurrentEndpoint struct{}

var _ api.Endpoint = (*CurrentEndpoint)(nil)

func (e *CurrentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/triage/current", e.handler
}

func (e *CurrentEndpoint) RequiresSession() bool { return true }

// handler godoc
//
//	@Summary		Current document
//	@Description	The document awaiting a decision with its page texts, image availability and notices
//	@Tags			triage
//	@Produce		json
//	@Success		200	{object}	triage.Presentation
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/triage/current [get]
func (e *CurrentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	orch := svcctx.OrchestratorFrom(r.Context())
	writeJSON(w, http.StatusOK, orch.Current())
}

func (e *CurrentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var brief bool
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the document awaiting a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var p triage.Presentation
			if err := client.Get(cmd.Context(), "/api/triage/current", &p); err != nil {
				return err
			}
			if brief {
				for i := range p.Pages {
					p.Pages[i].Text = ""
				}
			}
			return api.Output(p)
		},
	}
	cmd.Flags().BoolVar(&brief, "brief", false, "Omit page text")
	return cmd
}

// PageImageEndpoint handles GET /api/triage/pages/{source}/image.
type PageImageEndpoint struct{}

var _ api.Endpoint = (*PageImageEndpoint)(nil)

func (e *PageImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/triage/pages/{source}/image", e.handler
}

func (e *PageImageEndpoint) RequiresSession() bool { return true }

// handler godoc
//
//	@Summary		Page image
//	@Description	PNG rendering of one page of the current document
//	@Tags			triage
//	@Produce		image/png
//	@Param			source	path		int	true	"Page number (1-indexed)"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/api/triage/pages/{source}/image [get]
func (e *PageImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	source, err := strconv.Atoi(r.PathValue("source"))
	if err != nil || source < 1 {
		writeError(w, http.StatusBadRequest, "source must be a positive integer")
		return
	}

	img, err := svcctx.OrchestratorFrom(r.Context()).PageImage(source)
	switch {
	case errors.Is(err, triage.ErrNotReady):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, triage.ErrNoPage):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Bytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(img.Bytes)
}

func (e *PageImageEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "page-image <source>",
		Short: "Download the PNG of one page of the current document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := strconv.Atoi(args[0])
			if err != nil || source < 1 {
				return fmt.Errorf("source must be a positive integer: %q", args[0])
			}
			if outFile == "" {
				outFile = fmt.Sprintf("page_%03d.png", source)
			}
			client := api.NewClient(getServerURL())
			data, _, err := client.GetRaw(cmd.Context(), fmt.Sprintf("/api/triage/pages/%d/image", source))
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d bytes)\n", outFile, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Output file (default page_NNN.png)")
	return cmd
}

// ClassifyRequest is the request body for a decision.
type ClassifyRequest struct {
	FileName  string `json:"file_name"`
	Bucket    string `json:"bucket"`
	SessionID string `json:"session_id,omitempty"`
}

// ClassifyErrorResponse is returned when a decision is not applied.
// Presentation is the unchanged step, so the display can stay on the document.
type ClassifyErrorResponse struct {
	Error        string               `json:"error"`
	Kind         types.FailureKind    `json:"kind,omitempty"`
	Presentation *triage.Presentation `json:"presentation,omitempty"`
}

// ClassifyEndpoint handles POST /api/triage/classify.
type ClassifyEndpoint struct{}

var _ api.Endpoint = (*ClassifyEndpoint)(nil)

func (e *ClassifyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/triage/classify", e.handler
}

func (e *ClassifyEndpoint) RequiresSession() bool { return true }

// handler godoc
//
//	@Summary		Classify current document
//	@Description	Move the current document into a bucket and present the next one
//	@Tags			triage
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ClassifyRequest	true	"Decision"
//	@Success		200		{object}	triage.Presentation
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ClassifyErrorResponse
//	@Failure		422		{object}	ClassifyErrorResponse
//	@Failure		500		{object}	ClassifyErrorResponse
//	@Router			/api/triage/classify [post]
func (e *ClassifyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "file_name is required")
		return
	}

	orch := svcctx.OrchestratorFrom(r.Context())

	bucket, err := types.ParseBucket(req.Bucket)
	if err != nil {
		p := orch.Current()
		writeJSON(w, http.StatusUnprocessableEntity, ClassifyErrorResponse{Error: err.Error(), Presentation: &p})
		return
	}

	p, err := orch.Decide(r.Context(), triage.Decision{
		FileName:  req.FileName,
		Bucket:    bucket,
		SessionID: req.SessionID,
	})
	if err != nil {
		resp := ClassifyErrorResponse{Error: err.Error(), Presentation: &p}
		if kind, ok := types.FailureKindOf(err); ok {
			resp.Kind = kind
		}
		writeJSON(w, decisionStatus(err), resp)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// decisionStatus maps a rejected or failed decision to an HTTP status.
func decisionStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrUnknownBucket):
		return http.StatusUnprocessableEntity
	case errors.Is(err, classify.ErrNotCurrent),
		errors.Is(err, triage.ErrStaleSession),
		errors.Is(err, triage.ErrNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (e *ClassifyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "classify <file_name> <bucket>",
		Short: "Sort the current document into a bucket (correct, image-only, anomalous)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var p triage.Presentation
			err := client.Post(cmd.Context(), "/api/triage/classify", ClassifyRequest{
				FileName:  args[0],
				Bucket:    args[1],
				SessionID: sessionID,
			}, &p)
			if err != nil {
				return err
			}
			return api.Output(p)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Reject the decision unless this session is still active")
	return cmd
}

// RestartEndpoint handles POST /api/triage/restart.
type RestartEndpoint struct{}

var _ api.Endpoint = (*RestartEndpoint)(nil)

func (e *RestartEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/triage/restart", e.handler
}

func (e *RestartEndpoint) RequiresSession() bool { return true }

// handler godoc
//
//	@Summary		Restart session
//	@Description	Rebuild the queue from the source area and start a new session
//	@Tags			triage
//	@Produce		json
//	@Success		200	{object}	triage.Presentation
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/triage/restart [post]
func (e *RestartEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	p, err := svcctx.OrchestratorFrom(r.Context()).Restart(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (e *RestartEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Rescan the source area and start a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var p triage.Presentation
			if err := client.Post(cmd.Context(), "/api/triage/restart", nil, &p); err != nil {
				return err
			}
			fmt.Printf("Session %s: %d documents\n", p.SessionID, p.Total)
			return nil
		},
	}
}

// QueueEndpoint handles GET /api/queue.
type QueueEndpoint struct{}

var _ api.Endpoint = (*QueueEndpoint)(nil)

func (e *QueueEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/queue", e.handler
}

func (e *QueueEndpoint) RequiresSession() bool { return true }

// handler godoc
//
//	@Summary		Pending queue
//	@Description	Documents not yet decided in this session, in presentation order
//	@Tags			triage
//	@Produce		json
//	@Success		200	{object}	triage.QueueView
//	@Router			/api/queue [get]
func (e *QueueEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, svcctx.OrchestratorFrom(r.Context()).Queue())
}

func (e *QueueEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "List pending documents of the running session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var q triage.QueueView
			if err := client.Get(cmd.Context(), "/api/queue", &q); err != nil {
				return err
			}
			return api.Output(q)
		},
	}
}
