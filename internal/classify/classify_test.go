package classify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/jackzampolin/docsort/internal/home"
	"github.com/jackzampolin/docsort/internal/queue"
	"github.com/jackzampolin/docsort/internal/testutil"
	"github.com/jackzampolin/docsort/internal/types"
)

func setup(t *testing.T, names ...string) (*home.Dir, *Router, queue.State) {
	t.Helper()
	ws, err := home.New(t.TempDir(), home.Layout{})
	if err != nil {
		t.Fatalf("home.New failed: %v", err)
	}
	if err := ws.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	for _, n := range names {
		testutil.Touch(t, ws.SourcePath(), n)
	}
	state, err := queue.Build(ws.SourcePath(), ".pdf")
	if err != nil {
		t.Fatalf("queue.Build failed: %v", err)
	}
	return ws, New(Config{Destinations: ws}), state
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// inBuckets counts the buckets holding name.
func inBuckets(ws *home.Dir, name string) int {
	n := 0
	for _, p := range ws.BucketPaths() {
		if exists(filepath.Join(p, name)) {
			n++
		}
	}
	return n
}

func TestClassify(t *testing.T) {
	ws, r, state := setup(t, "a-1.pdf", "a-2.pdf")
	doc, _ := state.Current()

	next, err := r.Classify(context.Background(), state, doc, types.BucketImageOnly)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if exists(doc.Path) {
		t.Error("source file should be gone")
	}
	if !exists(filepath.Join(ws.BucketPath(types.BucketImageOnly), "a-1.pdf")) {
		t.Error("file should be in the image-only bucket")
	}
	if n := inBuckets(ws, "a-1.pdf"); n != 1 {
		t.Errorf("file present in %d buckets, want 1", n)
	}

	cur, ok := next.Current()
	if !ok || cur.FileName != "a-2.pdf" {
		t.Errorf("next current = %+v, want a-2.pdf", cur)
	}
	if processed, total := next.Remaining(); processed != 1 || total != 2 {
		t.Errorf("Remaining() = (%d, %d), want (1, 2)", processed, total)
	}

	// A second decision for the same document can't apply.
	again, err := r.Classify(context.Background(), next, doc, types.BucketCorrect)
	if !errors.Is(err, ErrNotCurrent) {
		t.Errorf("repeat classify: err = %v, want ErrNotCurrent", err)
	}
	if again.Cursor() != next.Cursor() {
		t.Error("state changed on rejected decision")
	}
}

func TestClassify_Exhaustion(t *testing.T) {
	names := []string{"1.pdf", "2.pdf", "3.pdf"}
	ws, r, state := setup(t, names...)
	buckets := types.AllBuckets()

	for i := range names {
		doc, ok := state.Current()
		if !ok {
			t.Fatalf("step %d: queue exhausted early", i)
		}
		var err error
		state, err = r.Classify(context.Background(), state, doc, buckets[i%len(buckets)])
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if _, ok := state.Current(); ok {
		t.Error("expected no current document")
	}
	if processed, total := state.Remaining(); processed != 3 || total != 3 {
		t.Errorf("Remaining() = (%d, %d), want (3, 3)", processed, total)
	}
	for _, n := range names {
		if c := inBuckets(ws, n); c != 1 {
			t.Errorf("%s in %d buckets, want 1", n, c)
		}
	}
}

func TestClassify_Rejections(t *testing.T) {
	_, r, state := setup(t, "a.pdf", "b.pdf")
	docs := state.Documents()

	tests := []struct {
		name   string
		doc    types.Document
		bucket types.Bucket
		want   error
	}{
		{"stale document", docs[1], types.BucketCorrect, ErrNotCurrent},
		{"unknown bucket", docs[0], types.Bucket("trash"), types.ErrUnknownBucket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Classify(context.Background(), state, tt.doc, tt.bucket)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got.Cursor() != state.Cursor() {
				t.Error("cursor moved on rejection")
			}
			if !exists(tt.doc.Path) {
				t.Error("source file touched on rejection")
			}
		})
	}
}

func TestClassify_NoAdvanceOnFailure(t *testing.T) {
	t.Run("source vanished", func(t *testing.T) {
		ws, r, state := setup(t, "gone.pdf", "next.pdf")
		doc, _ := state.Current()
		if err := os.Remove(doc.Path); err != nil {
			t.Fatal(err)
		}

		got, err := r.Classify(context.Background(), state, doc, types.BucketCorrect)
		if kind, ok := types.FailureKindOf(err); !ok || kind != types.FailureRelocation {
			t.Fatalf("err = %v, want relocation failure", err)
		}
		if got.Cursor() != state.Cursor() {
			t.Error("cursor advanced past failed move")
		}
		if cur, _ := got.Current(); cur.FileName != "gone.pdf" {
			t.Errorf("current = %s, want gone.pdf", cur.FileName)
		}
		if n := inBuckets(ws, "gone.pdf"); n != 0 {
			t.Errorf("file present in %d buckets", n)
		}
	})

	t.Run("collision", func(t *testing.T) {
		ws, r, state := setup(t, "dup.pdf")
		doc, _ := state.Current()
		existing := filepath.Join(ws.BucketPath(types.BucketAnomalous), "dup.pdf")
		if err := os.WriteFile(existing, []byte("older"), 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := r.Classify(context.Background(), state, doc, types.BucketAnomalous)
		if !errors.Is(err, ErrCollision) {
			t.Fatalf("err = %v, want ErrCollision", err)
		}
		if kind, _ := types.FailureKindOf(err); kind != types.FailureRelocation {
			t.Errorf("kind = %q, want relocation", kind)
		}
		if got.Cursor() != state.Cursor() {
			t.Error("cursor advanced on collision")
		}
		if !exists(doc.Path) {
			t.Error("source removed on collision")
		}
		data, _ := os.ReadFile(existing)
		if string(data) != "older" {
			t.Error("existing bucket file was overwritten")
		}
	})

	t.Run("destination unwritable", func(t *testing.T) {
		ws, err := home.New(t.TempDir(), home.Layout{})
		if err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(ws.SourcePath(), 0o755); err != nil {
			t.Fatal(err)
		}
		testutil.Touch(t, ws.SourcePath(), "x.pdf")
		// A regular file where the bucket directory should be.
		if err := os.WriteFile(ws.BucketPath(types.BucketCorrect), nil, 0o644); err != nil {
			t.Fatal(err)
		}
		state, _ := queue.Build(ws.SourcePath(), ".pdf")
		doc, _ := state.Current()

		got, err := New(Config{Destinations: ws}).Classify(context.Background(), state, doc, types.BucketCorrect)
		if kind, ok := types.FailureKindOf(err); !ok || kind != types.FailureRelocation {
			t.Fatalf("err = %v, want relocation failure", err)
		}
		if got.Cursor() != 0 || !exists(doc.Path) {
			t.Error("failed move must leave state and source untouched")
		}
	})
}

func TestClassify_CancelledContext(t *testing.T) {
	_, r, state := setup(t, "a.pdf")
	doc, _ := state.Current()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := r.Classify(ctx, state, doc, types.BucketCorrect)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got.Cursor() != 0 || !exists(doc.Path) {
		t.Error("cancelled decision must have no effect")
	}
}

func TestCopyThenRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	dst := filepath.Join(dir, "dst.pdf")
	if err := os.WriteFile(src, []byte("payload"), 0o640); err != nil {
		t.Fatal(err)
	}

	if err := copyThenRemove(src, dst); err != nil {
		t.Fatalf("copyThenRemove failed: %v", err)
	}
	if exists(src) {
		t.Error("source should be removed")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Errorf("destination content = %q, %v", data, err)
	}
}

func TestCopyThenRemove_KeepsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	dst := filepath.Join(dir, "dst.pdf")
	os.WriteFile(src, []byte("new"), 0o644)
	os.WriteFile(dst, []byte("old"), 0o644)

	err := copyThenRemove(src, dst)
	if !errors.Is(err, ErrCollision) {
		t.Fatalf("err = %v, want ErrCollision", err)
	}
	if !exists(src) {
		t.Error("source removed despite collision")
	}
	if data, _ := os.ReadFile(dst); string(data) != "old" {
		t.Error("existing destination modified")
	}
}

func TestCopyThenRemove_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.pdf")
	if err := copyThenRemove(filepath.Join(dir, "nope.pdf"), dst); err == nil {
		t.Fatal("expected error")
	}
	if exists(dst) {
		t.Error("destination created for missing source")
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	dst := filepath.Join(dir, "dst.pdf")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := move(src, dst); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if exists(src) {
		t.Error("source should be removed")
	}
	if data, _ := os.ReadFile(dst); string(data) != "payload" {
		t.Errorf("destination content = %q", data)
	}
}

// A file that shows up in the bucket after the collision check must survive.
func TestMove_NeverReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	dst := filepath.Join(dir, "dst.pdf")
	os.WriteFile(src, []byte("new"), 0o644)
	os.WriteFile(dst, []byte("old"), 0o644)

	err := move(src, dst)
	if !errors.Is(err, ErrCollision) {
		t.Fatalf("err = %v, want ErrCollision", err)
	}
	if data, _ := os.ReadFile(src); string(data) != "new" {
		t.Error("source lost after refused move")
	}
	if data, _ := os.ReadFile(dst); string(data) != "old" {
		t.Error("existing destination replaced")
	}
}

func TestLinkUnsupported(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&os.LinkError{Op: "link", Err: syscall.EXDEV}, true},
		{&os.LinkError{Op: "link", Err: syscall.EPERM}, true},
		{&os.LinkError{Op: "link", Err: syscall.EEXIST}, false},
		{&os.LinkError{Op: "link", Err: syscall.ENOENT}, false},
	}
	for _, tt := range tests {
		if got := linkUnsupported(tt.err); got != tt.want {
			t.Errorf("linkUnsupported(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRouter_SetDestinations(t *testing.T) {
	_, r, state := setup(t, "x.pdf")
	doc, _ := state.Current()

	other, err := home.New(t.TempDir(), home.Layout{
		BucketDirs: map[types.Bucket]string{types.BucketAnomalous: "review"},
	})
	if err != nil {
		t.Fatal(err)
	}
	r.SetDestinations(other)

	want := filepath.Join(other.Path(), "review", "x.pdf")
	if _, err := r.Classify(context.Background(), state, doc, types.BucketAnomalous); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !exists(want) {
		t.Error("file should land in the new bucket directory, created on demand")
	}
}
