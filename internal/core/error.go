package core

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse-grained categorization for build errors.
type ErrorKind string

const (
	// KindParse marks a malformed database file.
	KindParse ErrorKind = "parse"
	// KindCollision marks two records deriving the same identifier.
	KindCollision ErrorKind = "collision"
	// KindTemplate marks a template/record mismatch.
	KindTemplate ErrorKind = "template"
	// KindIO marks a filesystem access failure.
	KindIO ErrorKind = "io"
)

// Error wraps an underlying error with operation context and a kind.
// Every build error is fatal; the kind only shapes the diagnostic.
type Error struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on the producing
// package.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
