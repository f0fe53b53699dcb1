package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is added on top of the inherited process environment.
	Env map[string]string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Output captures the result of a finished process.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the process exited with status zero.
func (o *Output) Success() bool { return o != nil && o.ExitCode == 0 }

// Runner spawns external processes. A non-nil error means the process could
// not be started or waited on; a process that ran and exited non-zero is
// reported through Output.ExitCode with a nil error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// BaseEnv is applied to every command before Command.Env.
	BaseEnv map[string]string
	// Stdout and Stderr, when set, receive a live copy of the child output.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes cmd and captures its output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = buildEnv(os.Environ(), r.BaseEnv, cmd.Env)

	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = teeTo(&stdoutBuf, r.Stdout)
	c.Stderr = teeTo(&stderrBuf, r.Stderr)

	err := c.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", cmd.Name, err)
	}
	return output, nil
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// buildEnv layers the given overlays onto a base environment slice.
func buildEnv(base []string, overlays ...map[string]string) []string {
	env := append([]string(nil), base...)
	for _, overlay := range overlays {
		for k, v := range overlay {
			env = setEnv(env, k, v)
		}
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
