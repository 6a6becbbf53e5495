package inspect

import (
	"path/filepath"
	"testing"

	"github.com/jackzampolin/docsort/internal/testutil"
)

func TestPageCount(t *testing.T) {
	dir := t.TempDir()
	insp := New(Config{})

	tests := []struct {
		name  string
		pages []string
	}{
		{"single page", []string{"hello"}},
		{"mixed pages", []string{"a", "", "c", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WritePDF(t, dir, tt.name+".pdf", tt.pages)
			got, err := insp.PageCount(path)
			if err != nil {
				t.Fatalf("PageCount failed: %v", err)
			}
			if got != len(tt.pages) {
				t.Errorf("PageCount() = %d, want %d", got, len(tt.pages))
			}
		})
	}
}

func TestPageCount_Errors(t *testing.T) {
	dir := t.TempDir()
	insp := New(Config{})

	if _, err := insp.PageCount(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := insp.PageCount(testutil.WriteCorrupt(t, dir, "bad.pdf")); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	insp := New(Config{})

	if err := insp.Validate(testutil.WritePDF(t, dir, "ok.pdf", []string{"fine"})); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}
	if err := insp.Validate(testutil.WriteCorrupt(t, dir, "bad.pdf")); err == nil {
		t.Error("corrupt document accepted")
	}
}
