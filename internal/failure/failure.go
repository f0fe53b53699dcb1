package failure

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a pipeline failure.
type Kind string

const (
	ToolNotFound        Kind = "tool_not_found"
	UnsupportedTemplate Kind = "unsupported_template"
	DirectoryConflict   Kind = "directory_conflict"
	GenerationFailed    Kind = "generation_failed"
	InstallFailed       Kind = "install_failed"
	DependencyAddFailed Kind = "dependency_add_failed"
	Timeout             Kind = "timeout"
	WorkerFailed        Kind = "worker_failed"
	InvalidJob          Kind = "invalid_job"
	IOFailure           Kind = "io_failure"
)

// Error is a classified failure. Subject names the offending tool,
// directory, or package and is always part of the message.
type Error struct {
	Kind    Kind
	Subject string
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same Kind, so that
// errors.Is(err, failure.New(failure.Timeout, "", "")) works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Subject == "" && t.Msg == "" && t.Err == nil
}

// New returns a classified error without a cause.
func New(kind Kind, subject, msg string) *Error {
	return &Error{Kind: kind, Subject: subject, Msg: msg}
}

// Wrap returns a classified error wrapping err.
func Wrap(kind Kind, subject, msg string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or IOFailure
// for unclassified non-nil errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return IOFailure
}

// Sentinel returns a bare *Error usable as an errors.Is target.
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}
