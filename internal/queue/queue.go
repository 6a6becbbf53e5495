// Package queue holds the ordered snapshot of pending documents and the
// cursor that walks it.
package queue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackzampolin/docsort/internal/types"
)

// DefaultExtension is the file extension picked up from the source area.
const DefaultExtension = ".pdf"

// ErrExhausted is returned when advancing a queue with no current document.
var ErrExhausted = errors.New("queue exhausted")

// State is an immutable snapshot of the pending queue plus a cursor.
// Advancing returns a new State; the receiver is never modified, so a caller
// that keeps the old value can always fall back to it.
type State struct {
	docs   []types.Document
	cursor int
}

// Build lists the documents in dir matching ext and returns them in natural order.
// The directory is read once; later moves out of dir don't affect the snapshot.
func Build(dir, ext string) (State, error) {
	if ext == "" {
		ext = DefaultExtension
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return State{}, fmt.Errorf("failed to read source directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		names = append(names, e.Name())
	}

	SortNatural(names)

	docs := make([]types.Document, len(names))
	for i, name := range names {
		docs[i] = types.Document{
			FileName: name,
			Path:     filepath.Join(dir, name),
		}
	}
	return fromDocuments(docs), nil
}

// fromDocuments builds a State over an already ordered document list,
// numbering positions from 0.
func fromDocuments(docs []types.Document) State {
	cp := make([]types.Document, len(docs))
	copy(cp, docs)
	for i := range cp {
		cp[i].Position = i
	}
	return State{docs: cp}
}

// Current returns the document at the cursor, or false when exhausted.
func (s State) Current() (types.Document, bool) {
	if s.cursor >= len(s.docs) {
		return types.Document{}, false
	}
	return s.docs[s.cursor], true
}

// Advance moves the cursor past the current document.
func (s State) Advance() (State, error) {
	if s.Exhausted() {
		return s, ErrExhausted
	}
	return State{docs: s.docs, cursor: s.cursor + 1}, nil
}

// Exhausted reports whether no current document remains.
func (s State) Exhausted() bool {
	return s.cursor >= len(s.docs)
}

// Remaining returns the processed and total document counts.
func (s State) Remaining() (processed, total int) {
	return s.cursor, len(s.docs)
}

// Cursor returns the index of the current document.
func (s State) Cursor() int {
	return s.cursor
}

// Pending returns the documents not yet processed, in queue order.
func (s State) Pending() []types.Document {
	if s.Exhausted() {
		return nil
	}
	out := make([]types.Document, len(s.docs)-s.cursor)
	copy(out, s.docs[s.cursor:])
	return out
}

// Documents returns every document in the snapshot, processed or not.
func (s State) Documents() []types.Document {
	out := make([]types.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// SortNatural sorts names in place so embedded numbers compare by value.
// e.g., ["a-1.pdf", "a-10.pdf", "a-2.pdf"] -> ["a-1.pdf", "a-2.pdf", "a-10.pdf"]
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return Less(names[i], names[j])
	})
}
