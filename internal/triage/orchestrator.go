// Package triage drives the one-document-at-a-time review cycle:
// resolve the current document, extract it, wait for a decision, move it.
package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/docsort/internal/queue"
	"github.com/jackzampolin/docsort/internal/types"
)

var (
	// ErrNotReady is returned when a decision arrives with no document awaiting one.
	ErrNotReady = errors.New("no document awaiting a decision")

	// ErrStaleSession is returned when a decision names a session that is no longer active.
	ErrStaleSession = errors.New("decision belongs to a previous session")

	// ErrNoPage is returned when the current document has no image for a page.
	ErrNoPage = errors.New("page image not available")
)

// TextExtractor runs the text pass over a document.
type TextExtractor interface {
	Extract(ctx context.Context, path string) ([]types.PageRecord, error)
}

// Rasterizer runs the image pass over a document.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string) ([]types.PageImage, error)
}

// PageCounter reports a document's physical page count.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// Router performs the terminal move for the current document.
type Router interface {
	Classify(ctx context.Context, state queue.State, doc types.Document, b types.Bucket) (queue.State, error)
}

// Recorder receives metrics about the triage cycle.
type Recorder interface {
	ObserveExtraction(pass string, elapsed time.Duration, err error)
	ObserveClassification(b types.Bucket, err error)
	ObserveQueue(processed, total int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveExtraction(string, time.Duration, error) {}
func (noopRecorder) ObserveClassification(types.Bucket, error)      {}
func (noopRecorder) ObserveQueue(int, int)                          {}

// Pass names used in logs and metrics.
const (
	PassText  = "text"
	PassImage = "image"
)

// Config configures an Orchestrator.
type Config struct {
	SourceDir string
	Extension string

	Extractor  TextExtractor
	Rasterizer Rasterizer
	Counter    PageCounter // optional
	Router     Router
	Recorder   Recorder // optional
	Logger     *slog.Logger
}

// Decision is an operator's choice for one document.
type Decision struct {
	FileName  string       `json:"file_name"`
	Bucket    types.Bucket `json:"bucket"`
	SessionID string       `json:"session_id,omitempty"`
}

// Orchestrator owns the queue state and the extraction results of the current document.
// All transitions run under one lock, so decisions are applied strictly one at a time.
type Orchestrator struct {
	mu sync.Mutex

	sourceDir string
	extension string

	extractor  TextExtractor
	rasterizer Rasterizer
	counter    PageCounter
	router     Router
	recorder   Recorder
	logger     *slog.Logger

	session string
	state   State
	queue   queue.State

	// Current document.
	doc       types.Document
	pages     []Page
	images    map[int]types.PageImage
	pageCount int
	mode      Mode
	notices   []Notice

	// Last relocation failure, shown until the next successful decision.
	moveFailure *Notice
}

// New creates an Orchestrator in the Idle state. Call Start to load the queue.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}
	ext := cfg.Extension
	if ext == "" {
		ext = queue.DefaultExtension
	}
	return &Orchestrator{
		sourceDir:  cfg.SourceDir,
		extension:  ext,
		extractor:  cfg.Extractor,
		rasterizer: cfg.Rasterizer,
		counter:    cfg.Counter,
		router:     cfg.Router,
		recorder:   recorder,
		logger:     logger,
		state:      StateIdle,
	}
}

// Start builds a fresh queue snapshot from the source area and presents
// the first document. Calling it again starts a new session.
// A cancelled ctx leaves the current session untouched.
func (o *Orchestrator) Start(ctx context.Context) (Presentation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return o.presentation(), err
	}

	q, err := queue.Build(o.sourceDir, o.extension)
	if err != nil {
		return o.presentation(), err
	}

	o.session = uuid.New().String()
	o.queue = q
	o.moveFailure = nil
	_, total := q.Remaining()
	o.logger.Info("triage session started", "session", o.session, "documents", total, "source", o.sourceDir)

	// The snapshot is already replaced; a dropped request must not leave the
	// first document marked as unreadable.
	o.present(context.WithoutCancel(ctx))
	return o.presentation(), nil
}

// Restart is Start under the name the display surface uses.
func (o *Orchestrator) Restart(ctx context.Context) (Presentation, error) {
	return o.Start(ctx)
}

// SetSource changes the source area used by the next Start.
func (o *Orchestrator) SetSource(dir, ext string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sourceDir = dir
	if ext != "" {
		o.extension = ext
	}
}

// Current returns the presentation for the current step.
func (o *Orchestrator) Current() Presentation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.presentation()
}

// PageImage returns the rendered image of one page of the current document.
func (o *Orchestrator) PageImage(source int) (types.PageImage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateReady {
		return types.PageImage{}, ErrNotReady
	}
	img, ok := o.images[source]
	if !ok {
		return types.PageImage{}, fmt.Errorf("%w: page %d of %s", ErrNoPage, source, o.doc.FileName)
	}
	return img, nil
}

// Decide applies a decision to the current document.
// On success the next document is presented; on failure the current one stays
// and the returned presentation carries the error as a notice.
func (o *Orchestrator) Decide(ctx context.Context, d Decision) (Presentation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateReady {
		return o.presentation(), ErrNotReady
	}
	if d.SessionID != "" && d.SessionID != o.session {
		return o.presentation(), fmt.Errorf("%w: %s", ErrStaleSession, d.SessionID)
	}

	doc := o.doc
	if d.FileName != "" {
		doc.FileName = d.FileName
	}

	o.transition(StateAdvancing)
	next, err := o.router.Classify(ctx, o.queue, doc, d.Bucket)
	o.recorder.ObserveClassification(d.Bucket, err)
	if err != nil {
		o.transition(StateReady)
		if kind, ok := types.FailureKindOf(err); ok && kind == types.FailureRelocation {
			n := noticeFromError(types.FailureRelocation, o.doc.FileName, err)
			o.moveFailure = &n
			o.logger.Warn("classification failed", "file", o.doc.FileName, "bucket", d.Bucket, "error", err)
		}
		return o.presentation(), err
	}

	o.queue = next
	o.moveFailure = nil

	// The file has moved; a dropped request must not degrade the next document.
	o.present(context.WithoutCancel(ctx))
	return o.presentation(), nil
}

// QueueView is a read-only view of the session's queue.
type QueueView struct {
	SessionID string           `json:"session_id"`
	Cursor    int              `json:"cursor"`
	Processed int              `json:"processed"`
	Total     int              `json:"total"`
	Pending   []types.Document `json:"pending"`
}

// Queue returns the pending documents of the current session.
func (o *Orchestrator) Queue() QueueView {
	o.mu.Lock()
	defer o.mu.Unlock()

	processed, total := o.queue.Remaining()
	pending := o.queue.Pending()
	if pending == nil {
		pending = []types.Document{}
	}
	return QueueView{
		SessionID: o.session,
		Cursor:    o.queue.Cursor(),
		Processed: processed,
		Total:     total,
		Pending:   pending,
	}
}

// present resolves the current document and runs both extraction passes.
// Must be called with o.mu held.
func (o *Orchestrator) present(ctx context.Context) {
	o.clearCurrent()

	processed, total := o.queue.Remaining()
	o.recorder.ObserveQueue(processed, total)

	doc, ok := o.queue.Current()
	if !ok {
		o.transition(StateIdle)
		o.logger.Info("queue exhausted", "session", o.session, "processed", processed, "total", total)
		return
	}

	o.doc = doc
	o.transition(StatePresenting)

	// Two independent decode passes; a failure in one never affects the other.
	start := time.Now()
	records, textErr := o.extractor.Extract(ctx, doc.Path)
	o.recorder.ObserveExtraction(PassText, time.Since(start), textErr)
	if textErr != nil {
		records = nil
		o.notices = append(o.notices, noticeFromError(types.FailureOpen, doc.FileName, textErr))
		o.logger.Warn("text pass degraded", "file", doc.FileName, "error", textErr)
	}

	start = time.Now()
	images, imgErr := o.rasterizer.Rasterize(ctx, doc.Path)
	o.recorder.ObserveExtraction(PassImage, time.Since(start), imgErr)
	if imgErr != nil {
		images = nil
		o.notices = append(o.notices, noticeFromError(types.FailureRender, doc.FileName, imgErr))
		o.logger.Warn("image pass degraded", "file", doc.FileName, "error", imgErr)
	}

	o.images = make(map[int]types.PageImage, len(images))
	for _, img := range images {
		o.images[img.Source] = img
	}
	o.pages = pair(records, images)
	o.mode = modeFor(len(records) > 0, len(images) > 0)
	o.reconcilePageCount(doc, len(records), len(images))

	o.logger.Debug("document extracted", "file", doc.FileName, "mode", o.mode,
		"text_pages", len(records), "image_pages", len(images))
	o.transition(StateReady)
}

func (o *Orchestrator) reconcilePageCount(doc types.Document, textPages, imagePages int) {
	if o.counter == nil {
		return
	}
	count, err := o.counter.PageCount(doc.Path)
	if err != nil {
		o.logger.Debug("page count unavailable", "file", doc.FileName, "error", err)
		return
	}
	o.pageCount = count
	if textPages > 0 && textPages != count {
		o.notices = append(o.notices, pageCountNotice(doc.FileName, PassText, textPages, count))
	}
	if imagePages > 0 && imagePages != count {
		o.notices = append(o.notices, pageCountNotice(doc.FileName, PassImage, imagePages, count))
	}
}

func (o *Orchestrator) clearCurrent() {
	o.doc = types.Document{}
	o.pages = nil
	o.images = nil
	o.pageCount = 0
	o.mode = ""
	o.notices = nil
}

func (o *Orchestrator) transition(to State) {
	if o.state == to {
		return
	}
	o.logger.Debug("triage transition", "from", o.state, "to", to, "file", o.doc.FileName)
	o.state = to
}

func (o *Orchestrator) presentation() Presentation {
	processed, total := o.queue.Remaining()
	p := Presentation{
		SessionID: o.session,
		State:     o.state,
		Processed: processed,
		Total:     total,
		Pages:     []Page{},
		Notices:   []Notice{},
		Done:      o.session != "" && o.state == StateIdle && processed == total,
	}
	if o.state == StateIdle {
		return p
	}

	p.FileName = o.doc.FileName
	p.PageCount = o.pageCount
	p.Mode = o.mode
	p.Pages = append(p.Pages, o.pages...)
	p.Notices = append(p.Notices, o.notices...)
	if o.moveFailure != nil {
		p.Notices = append(p.Notices, *o.moveFailure)
	}
	return p
}
