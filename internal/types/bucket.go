// Package types provides shared types used across multiple packages.
// This package has no dependencies on other docsort packages to avoid import cycles.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBucket is returned when a bucket label is not one of the fixed outcomes.
var ErrUnknownBucket = errors.New("unknown bucket")

// Bucket is a terminal classification outcome.
type Bucket string

const (
	// BucketCorrect holds documents whose text layer is usable.
	BucketCorrect Bucket = "correct"
	// BucketImageOnly holds documents that are scans without a usable text layer.
	BucketImageOnly Bucket = "image-only"
	// BucketAnomalous holds documents that need a closer look.
	BucketAnomalous Bucket = "anomalous"
)

// AllBuckets returns the closed set of buckets in display order.
func AllBuckets() []Bucket {
	return []Bucket{BucketCorrect, BucketImageOnly, BucketAnomalous}
}

// ParseBucket converts a label to a Bucket.
// Matching ignores case and surrounding whitespace, and accepts "_" for "-".
func ParseBucket(s string) (Bucket, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch normalized {
	case "correct":
		return BucketCorrect, nil
	case "image-only", "image", "img":
		return BucketImageOnly, nil
	case "anomalous", "weird":
		return BucketAnomalous, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBucket, s)
	}
}

// Valid reports whether b is one of the fixed buckets.
func (b Bucket) Valid() bool {
	switch b {
	case BucketCorrect, BucketImageOnly, BucketAnomalous:
		return true
	}
	return false
}

func (b Bucket) String() string {
	return string(b)
}
