package triage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackzampolin/docsort/internal/types"
)

// State is the orchestrator's position in the triage cycle.
type State string

const (
	// StateIdle means there is no current document.
	StateIdle State = "idle"
	// StatePresenting means extraction of the current document is running.
	StatePresenting State = "presenting"
	// StateReady means the current document awaits a decision.
	StateReady State = "ready"
	// StateAdvancing means a classification is in flight.
	StateAdvancing State = "advancing"
)

// Mode describes which extraction passes produced content.
type Mode string

const (
	ModeFull      Mode = "full"
	ModeTextOnly  Mode = "text_only"
	ModeImageOnly Mode = "image_only"
	ModeNameOnly  Mode = "name_only"
)

// NoticePageCount flags a pass whose page count disagrees with the document.
const NoticePageCount types.FailureKind = "page_count"

// Notice is a human-readable problem report tagged with the file it concerns.
type Notice struct {
	Kind     types.FailureKind `json:"kind"`
	FileName string            `json:"file_name"`
	Message  string            `json:"message"`
}

// noticeFromError reports err under its own failure kind, or under kind
// when err carries none.
func noticeFromError(kind types.FailureKind, fileName string, err error) Notice {
	var f *types.Failure
	if errors.As(err, &f) {
		return Notice{Kind: f.Kind, FileName: f.FileName, Message: f.Error()}
	}
	return Notice{Kind: kind, FileName: fileName, Message: err.Error()}
}

// Page is one page of the current document with whatever each pass produced.
type Page struct {
	Source   int    `json:"source"`
	Text     string `json:"text,omitempty"`
	HasText  bool   `json:"has_text"`
	HasImage bool   `json:"has_image"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Presentation is everything the display surface needs for one step.
type Presentation struct {
	SessionID string   `json:"session_id"`
	State     State    `json:"state"`
	FileName  string   `json:"file_name,omitempty"`
	Processed int      `json:"processed"`
	Total     int      `json:"total"`
	PageCount int      `json:"page_count"`
	Mode      Mode     `json:"mode,omitempty"`
	Pages     []Page   `json:"pages"`
	Notices   []Notice `json:"notices"`
	Done      bool     `json:"done"`
}

// pair joins text records and images by source page number.
// A page present in only one pass is returned single-source.
func pair(records []types.PageRecord, images []types.PageImage) []Page {
	bySource := make(map[int]*Page, len(records))
	get := func(source int) *Page {
		p, ok := bySource[source]
		if !ok {
			p = &Page{Source: source}
			bySource[source] = p
		}
		return p
	}

	for _, r := range records {
		p := get(r.Source)
		p.Text = r.Content
		p.HasText = strings.TrimSpace(r.Content) != ""
	}
	for _, img := range images {
		p := get(img.Source)
		p.HasImage = true
		p.Width = img.Width
		p.Height = img.Height
	}

	pages := make([]Page, 0, len(bySource))
	for _, p := range bySource {
		pages = append(pages, *p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Source < pages[j].Source })
	return pages
}

func modeFor(hasText, hasImages bool) Mode {
	switch {
	case hasText && hasImages:
		return ModeFull
	case hasText:
		return ModeTextOnly
	case hasImages:
		return ModeImageOnly
	default:
		return ModeNameOnly
	}
}

func pageCountNotice(fileName, pass string, got, want int) Notice {
	return Notice{
		Kind:     NoticePageCount,
		FileName: fileName,
		Message:  fmt.Sprintf("%s pass produced %d pages but %s has %d", pass, got, fileName, want),
	}
}
