package pipeline

import (
	"fmt"
)

// Stage names one step of a job.
type Stage string

const (
	StageValidating             Stage = "validating"
	StageResolving              Stage = "resolving"
	StagePersistingDefault      Stage = "persisting-default"
	StageCheckingDirectory      Stage = "checking-directory"
	StageGenerating             Stage = "generating"
	StageInstallingBase         Stage = "installing-base"
	StageApplyingFeatures       Stage = "applying-features"
	StagePatching               Stage = "patching"
	StageInitializingRepository Stage = "initializing-repository"
	StageDone                   Stage = "done"
)

// StageError is the terminal Failed(stage, reason) state of a job.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func failed(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Mode selects blocking or streaming execution.
type Mode int

const (
	ModeBlocking Mode = iota
	ModeStreaming
)

func (m Mode) String() string {
	if m == ModeStreaming {
		return "streaming"
	}
	return "blocking"
}

// Reporter receives human-readable progress lines.
type Reporter interface {
	Log(line string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(line string)

func (f ReporterFunc) Log(line string) { f(line) }

type discard struct{}

func (discard) Log(string) {}
