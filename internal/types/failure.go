package types

import (
	"errors"
	"fmt"
)

// FailureKind classifies per-document failures surfaced to the operator.
type FailureKind string

const (
	// FailureOpen means the document could not be opened or parsed for text.
	FailureOpen FailureKind = "open"
	// FailureEmptyText means the document opened but no page has usable text.
	FailureEmptyText FailureKind = "empty_text"
	// FailureRender means the image pass is unavailable for the document.
	FailureRender FailureKind = "render"
	// FailureRelocation means the move into a bucket did not happen.
	FailureRelocation FailureKind = "relocation"
)

// Failure is a per-document failure tagged with the offending file name.
type Failure struct {
	Kind     FailureKind
	FileName string
	Err      error
}

// NewFailure wraps err as a Failure of the given kind.
func NewFailure(kind FailureKind, fileName string, err error) *Failure {
	return &Failure{Kind: kind, FileName: fileName, Err: err}
}

func (f *Failure) Error() string {
	var what string
	switch f.Kind {
	case FailureOpen:
		what = "could not open or parse"
	case FailureEmptyText:
		what = "no usable text layer in"
	case FailureRender:
		what = "could not render pages of"
	case FailureRelocation:
		what = "could not move"
	default:
		what = "failed on"
	}
	if f.Err == nil {
		return fmt.Sprintf("%s %s", what, f.FileName)
	}
	return fmt.Sprintf("%s %s: %v", what, f.FileName, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// FailureKindOf returns the kind of the first Failure in err's chain.
func FailureKindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
