// Package classify performs the terminal move of a document into a bucket.
package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/jackzampolin/docsort/internal/queue"
	"github.com/jackzampolin/docsort/internal/types"
)

var (
	// ErrNotCurrent is returned when a decision names a document other than the current one.
	ErrNotCurrent = errors.New("document is not the current document")

	// ErrCollision is returned when the bucket already holds a file with the same name.
	ErrCollision = errors.New("destination already exists")
)

// Destinations resolves bucket storage areas. *home.Dir satisfies it.
type Destinations interface {
	BucketPath(b types.Bucket) string
	EnsureBucketDir(b types.Bucket) error
}

// Config configures a Router.
type Config struct {
	Destinations Destinations
	Logger       *slog.Logger
}

// Router moves the current document into its bucket and advances the queue.
type Router struct {
	mu     sync.RWMutex
	dest   Destinations
	logger *slog.Logger
}

// New creates a Router.
func New(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{dest: cfg.Destinations, logger: logger}
}

// SetDestinations switches the bucket storage areas used by later decisions.
func (r *Router) SetDestinations(d Destinations) {
	r.mu.Lock()
	r.dest = d
	r.mu.Unlock()
}

func (r *Router) destinations() Destinations {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dest
}

// Classify relocates doc into bucket b and returns the advanced state.
// On any error the passed-in state is returned unchanged and doc stays where it was.
func (r *Router) Classify(ctx context.Context, state queue.State, doc types.Document, b types.Bucket) (queue.State, error) {
	if !b.Valid() {
		return state, fmt.Errorf("%w: %q", types.ErrUnknownBucket, b)
	}

	current, ok := state.Current()
	if !ok || current.FileName != doc.FileName {
		return state, fmt.Errorf("%w: %s", ErrNotCurrent, doc.FileName)
	}

	if err := ctx.Err(); err != nil {
		return state, err
	}

	dest := r.destinations()
	if err := dest.EnsureBucketDir(b); err != nil {
		return state, types.NewFailure(types.FailureRelocation, current.FileName, err)
	}

	dst := filepath.Join(dest.BucketPath(b), current.FileName)
	if _, err := os.Lstat(dst); err == nil {
		return state, types.NewFailure(types.FailureRelocation, current.FileName,
			fmt.Errorf("%w: %s", ErrCollision, dst))
	} else if !errors.Is(err, os.ErrNotExist) {
		return state, types.NewFailure(types.FailureRelocation, current.FileName, err)
	}

	if err := move(current.Path, dst); err != nil {
		r.logger.Warn("relocation failed", "file", current.FileName, "bucket", b, "error", err)
		return state, types.NewFailure(types.FailureRelocation, current.FileName, err)
	}

	next, err := state.Advance()
	if err != nil {
		// Unreachable with a current document; keep the file tracked anyway.
		return state, err
	}

	r.logger.Info("document classified", "file", current.FileName, "bucket", b, "dest", dst)
	return next, nil
}

// move hard-links src at dst and then removes src. Link refuses an existing
// dst, so a file that appears in the bucket after the Lstat check is never
// replaced. Filesystems without hard links, and moves across devices, fall
// back to an exclusive copy.
func move(src, dst string) error {
	err := os.Link(src, dst)
	switch {
	case err == nil:
		if err := os.Remove(src); err != nil {
			os.Remove(dst)
			return fmt.Errorf("failed to remove source after link: %w", err)
		}
		return nil
	case errors.Is(err, os.ErrExist):
		return fmt.Errorf("%w: %s", ErrCollision, dst)
	case linkUnsupported(err):
		return copyThenRemove(src, dst)
	default:
		return fmt.Errorf("failed to move file: %w", err)
	}
}

func linkUnsupported(err error) bool {
	for _, errno := range []syscall.Errno{syscall.EXDEV, syscall.EPERM, syscall.ENOTSUP, syscall.EOPNOTSUPP, syscall.EMLINK} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func copyThenRemove(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		// Keep exactly one copy: the source is still tracked by the queue.
		os.Remove(dst)
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrCollision, dst)
		}
		return fmt.Errorf("failed to create destination: %w", err)
	}

	// From here on dst is ours; remove it on any failure.
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to sync destination: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to close destination: %w", err)
	}
	return nil
}
