// Package toolchaintest provides a recording toolchain.Runner for tests.
package toolchaintest

import (
	"context"
	"strings"
	"sync"

	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
)

// HandlerFunc decides the outcome of one fake invocation.
type HandlerFunc func(cmd toolchain.Command) (*toolchain.Output, error)

// Runner records every command and answers with Handler, or with a
// successful empty Output when Handler is nil.
type Runner struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []toolchain.Command
}

// Run implements toolchain.Runner.
func (r *Runner) Run(_ context.Context, cmd toolchain.Command) (*toolchain.Output, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()

	if r.Handler == nil {
		return &toolchain.Output{}, nil
	}
	return r.Handler(cmd)
}

// Calls returns a copy of the recorded commands.
func (r *Runner) Calls() []toolchain.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]toolchain.Command(nil), r.calls...)
}

// Lines returns the recorded commands rendered as command lines.
func (r *Runner) Lines() []string {
	var lines []string
	for _, c := range r.Calls() {
		lines = append(lines, c.String())
	}
	return lines
}

// CallsWith returns the recorded commands whose first argument is verb.
func (r *Runner) CallsWith(verb string) []toolchain.Command {
	var out []toolchain.Command
	for _, c := range r.Calls() {
		if len(c.Args) > 0 && c.Args[0] == verb {
			out = append(out, c)
		}
	}
	return out
}

// HasPrefix reports whether any recorded command line starts with prefix.
func (r *Runner) HasPrefix(prefix string) bool {
	for _, l := range r.Lines() {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}
