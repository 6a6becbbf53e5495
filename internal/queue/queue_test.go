package queue

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jackzampolin/docsort/internal/testutil"
)

func TestSortNatural(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "numeric suffix",
			input:    []string{"a-1.pdf", "a-10.pdf", "a-2.pdf"},
			expected: []string{"a-1.pdf", "a-2.pdf", "a-10.pdf"},
		},
		{
			name:     "mixed prefixes",
			input:    []string{"doc-10.pdf", "alpha.pdf", "doc-2.pdf", "beta-3.pdf"},
			expected: []string{"alpha.pdf", "beta-3.pdf", "doc-2.pdf", "doc-10.pdf"},
		},
		{
			name:     "case insensitive text",
			input:    []string{"b.pdf", "A-10.pdf", "a-2.pdf"},
			expected: []string{"a-2.pdf", "A-10.pdf", "b.pdf"},
		},
		{
			name:     "multiple runs",
			input:    []string{"vol2-part10.pdf", "vol2-part9.pdf", "vol10-part1.pdf", "vol1-part1.pdf"},
			expected: []string{"vol1-part1.pdf", "vol2-part9.pdf", "vol2-part10.pdf", "vol10-part1.pdf"},
		},
		{
			name:     "leading zeros tie broken by byte order",
			input:    []string{"file002.pdf", "file1.pdf", "file01.pdf"},
			expected: []string{"file01.pdf", "file1.pdf", "file002.pdf"},
		},
		{
			name:     "huge numbers",
			input:    []string{"x-100000000000000000000001.pdf", "x-99999999999999999999999.pdf"},
			expected: []string{"x-99999999999999999999999.pdf", "x-100000000000000000000001.pdf"},
		},
		{
			name:     "empty",
			input:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]string{}, tt.input...)
			SortNatural(got)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SortNatural() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSortNatural_Deterministic(t *testing.T) {
	a := []string{"a-10.pdf", "A-1.pdf", "a-1.pdf", "a-2.pdf"}
	b := []string{"a-2.pdf", "a-1.pdf", "a-10.pdf", "A-1.pdf"}
	SortNatural(a)
	SortNatural(b)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("order depends on input: %v vs %v", a, b)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a-10.pdf", "a-1.pdf", "a-2.PDF", "notes.txt"} {
		testutil.Touch(t, dir, name)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	state, err := Build(dir, ".pdf")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var names []string
	for i, d := range state.Documents() {
		names = append(names, d.FileName)
		if d.Position != i {
			t.Errorf("%s: position = %d, want %d", d.FileName, d.Position, i)
		}
		if d.Path != filepath.Join(dir, d.FileName) {
			t.Errorf("%s: path = %s", d.FileName, d.Path)
		}
	}
	want := []string{"a-1.pdf", "a-2.PDF", "a-10.pdf"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("documents = %v, want %v", names, want)
	}

	processed, total := state.Remaining()
	if processed != 0 || total != 3 {
		t.Errorf("Remaining() = (%d, %d), want (0, 3)", processed, total)
	}
}

func TestBuild_MissingDir(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nope"), ".pdf"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestBuild_Empty(t *testing.T) {
	state, err := Build(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !state.Exhausted() {
		t.Error("empty queue should be exhausted")
	}
	if _, ok := state.Current(); ok {
		t.Error("empty queue should have no current document")
	}
}

func TestAdvance(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.pdf", "2.pdf", "3.pdf"} {
		testutil.Touch(t, dir, name)
	}
	state, err := Build(dir, ".pdf")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	initial := state
	for i := 0; i < 3; i++ {
		doc, ok := state.Current()
		if !ok {
			t.Fatalf("step %d: no current document", i)
		}
		if doc.Position != i {
			t.Errorf("step %d: current position %d", i, doc.Position)
		}
		next, err := state.Advance()
		if err != nil {
			t.Fatalf("step %d: Advance failed: %v", i, err)
		}
		if cur, ok := next.Current(); ok && cur.FileName == doc.FileName {
			t.Errorf("step %d: advance did not move past %s", i, doc.FileName)
		}
		state = next
	}

	if !state.Exhausted() {
		t.Error("queue should be exhausted after 3 advances")
	}
	if processed, total := state.Remaining(); processed != 3 || total != 3 {
		t.Errorf("Remaining() = (%d, %d), want (3, 3)", processed, total)
	}
	if _, err := state.Advance(); !errors.Is(err, ErrExhausted) {
		t.Errorf("Advance on exhausted queue: err = %v, want ErrExhausted", err)
	}

	// The original value is untouched.
	if initial.Cursor() != 0 {
		t.Errorf("initial state mutated: cursor = %d", initial.Cursor())
	}
	if len(initial.Pending()) != 3 {
		t.Errorf("initial pending = %d, want 3", len(initial.Pending()))
	}
}

func TestPending(t *testing.T) {
	state := fromDocuments(nil)
	if state.Pending() != nil {
		t.Error("expected nil pending for empty queue")
	}

	dir := t.TempDir()
	testutil.Touch(t, dir, "a.pdf")
	testutil.Touch(t, dir, "b.pdf")
	state, _ = Build(dir, ".pdf")
	state, _ = state.Advance()

	pending := state.Pending()
	if len(pending) != 1 || pending[0].FileName != "b.pdf" {
		t.Errorf("Pending() = %+v", pending)
	}
}
