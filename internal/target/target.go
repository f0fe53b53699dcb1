package target

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
)

// Reasons reported in a DirectoryConflict.
const (
	ReasonNonEmpty     = "non-empty"
	ReasonInaccessible = "inaccessible"
)

// ProjectDir returns base/name.
func ProjectDir(base, name string) string {
	return filepath.Join(base, name)
}

// Check returns nil when base/name is absent or an empty directory, and a
// DirectoryConflict failure otherwise. A directory that cannot be listed is
// treated as non-overwritable.
func Check(base, name string) error {
	dir := ProjectDir(base, name)

	if _, err := os.Lstat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return conflict(name, dir, ReasonInaccessible, err)
	}

	f, err := os.Open(dir)
	if err != nil {
		return conflict(name, dir, ReasonInaccessible, err)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	switch {
	case err == nil:
		return conflict(name, dir, ReasonNonEmpty, nil)
	case errors.Is(err, io.EOF):
		return nil
	default:
		return conflict(name, dir, ReasonInaccessible, err)
	}
}

// Prepare creates the base directory when it does not exist yet.
func Prepare(base string) error {
	if err := os.MkdirAll(base, 0755); err != nil {
		return failure.Wrap(failure.IOFailure, base,
			fmt.Sprintf("creating base directory %s", base), err)
	}
	return nil
}

func conflict(name, dir, reason string, cause error) error {
	var msg string
	if reason == ReasonNonEmpty {
		msg = fmt.Sprintf("target directory %q is not empty (path: %s); choose another name or an empty directory", name, dir)
	} else {
		msg = fmt.Sprintf("target directory %q already exists and cannot be read (path: %s); choose another name or an empty directory", name, dir)
	}
	return &failure.Error{Kind: failure.DirectoryConflict, Subject: dir, Msg: msg, Err: &ConflictError{Reason: reason, cause: cause}}
}

// ConflictError carries the reason of a DirectoryConflict.
type ConflictError struct {
	Reason string
	cause  error
}

func (e *ConflictError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.cause)
	}
	return e.Reason
}

func (e *ConflictError) Unwrap() error { return e.cause }

// ConflictReason returns the reason carried by err, or "" when err is not a
// directory conflict.
func ConflictReason(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ""
}
