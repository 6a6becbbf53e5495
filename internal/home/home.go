package home

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackzampolin/docsort/internal/types"
)

const (
	// DefaultSourceDirName is the default directory holding pending documents.
	DefaultSourceDirName = "docs"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// DefaultBucketDirs maps each bucket to its default directory name.
var DefaultBucketDirs = map[types.Bucket]string{
	types.BucketCorrect:   "correct_docs",
	types.BucketImageOnly: "img_docs",
	types.BucketAnomalous: "weird_docs",
}

// Layout names the directories inside a workspace.
// Relative names are resolved against the workspace root.
type Layout struct {
	SourceDir  string
	BucketDirs map[types.Bucket]string
}

// DefaultLayout returns the standard docs/ + three bucket layout.
func DefaultLayout() Layout {
	dirs := make(map[types.Bucket]string, len(DefaultBucketDirs))
	for b, d := range DefaultBucketDirs {
		dirs[b] = d
	}
	return Layout{SourceDir: DefaultSourceDirName, BucketDirs: dirs}
}

// Dir represents a triage workspace: one source area and one storage area per bucket.
type Dir struct {
	path   string
	layout Layout
}

// New creates a Dir rooted at path with the given layout.
// If path is empty, uses the current working directory.
// Missing layout entries fall back to the defaults.
func New(path string, layout Layout) (*Dir, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = wd
	}

	if layout.SourceDir == "" {
		layout.SourceDir = DefaultSourceDirName
	}
	dirs := make(map[types.Bucket]string, len(DefaultBucketDirs))
	for b, d := range DefaultBucketDirs {
		dirs[b] = d
	}
	for b, d := range layout.BucketDirs {
		if !b.Valid() {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownBucket, b)
		}
		if d != "" {
			dirs[b] = d
		}
	}
	layout.BucketDirs = dirs

	return &Dir{path: path, layout: layout}, nil
}

// Path returns the root path of the workspace.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the workspace config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// SourcePath returns the directory holding pending documents.
func (d *Dir) SourcePath() string {
	return d.resolve(d.layout.SourceDir)
}

// BucketPath returns the storage directory for a bucket.
func (d *Dir) BucketPath(b types.Bucket) string {
	return d.resolve(d.layout.BucketDirs[b])
}

// BucketPaths returns the storage directory of every bucket.
func (d *Dir) BucketPaths() map[types.Bucket]string {
	paths := make(map[types.Bucket]string, len(d.layout.BucketDirs))
	for _, b := range types.AllBuckets() {
		paths[b] = d.BucketPath(b)
	}
	return paths
}

// EnsureExists creates the source and bucket directories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.SourcePath(), 0o755); err != nil {
		return fmt.Errorf("failed to create source directory: %w", err)
	}
	for _, b := range types.AllBuckets() {
		if err := d.EnsureBucketDir(b); err != nil {
			return err
		}
	}
	return nil
}

// EnsureBucketDir creates the storage directory for one bucket.
func (d *Dir) EnsureBucketDir(b types.Bucket) error {
	if err := os.MkdirAll(d.BucketPath(b), 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", b, err)
	}
	return nil
}

// Exists returns true if the source directory exists.
func (d *Dir) Exists() bool {
	info, err := os.Stat(d.SourcePath())
	return err == nil && info.IsDir()
}

// ConfigExists returns true if the config file exists in the workspace.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

func (d *Dir) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.path, name)
}
