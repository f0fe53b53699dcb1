package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/platform"
)

// DefaultBinary is the package manager used when none is configured.
const DefaultBinary = "pnpm"

// Resolver locates a usable package-manager executable. Results are never
// cached: the tool may be installed or removed between runs.
type Resolver struct {
	Runner Runner
	// Binary is the logical command name, e.g. "pnpm".
	Binary string
	// Candidates overrides platform.ExecutableCandidates (tests).
	Candidates func(name string) []string
	// LookupCommand overrides platform.PathLookupCommand (tests).
	LookupCommand string
}

// NewResolver returns a Resolver for binary using the platform defaults.
func NewResolver(runner Runner, binary string) *Resolver {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Resolver{Runner: runner, Binary: binary}
}

// Resolve returns the first candidate that can be spawned with --version.
// Direct names are tried first, then the path-lookup utility's answer.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	candidates := platform.ExecutableCandidates
	if r.Candidates != nil {
		candidates = r.Candidates
	}
	for _, c := range candidates(r.Binary) {
		if r.probe(ctx, c) {
			return c, nil
		}
	}

	lookup := r.LookupCommand
	if lookup == "" {
		lookup = platform.PathLookupCommand()
	}
	out, err := r.Runner.Run(ctx, Command{Name: lookup, Args: []string{r.Binary}})
	if err == nil && out.Success() {
		if path := platform.FirstLine(out.Stdout); path != "" && r.probe(ctx, path) {
			return path, nil
		}
	}

	return "", failure.New(failure.ToolNotFound, r.Binary,
		fmt.Sprintf("%s not found: tried %s and %s lookup", r.Binary,
			strings.Join(candidates(r.Binary), ", "), lookup))
}

// probe treats a successful spawn and exit as proof of usability. The exit
// code is deliberately ignored: some shims print a warning and exit non-zero.
func (r *Resolver) probe(ctx context.Context, bin string) bool {
	_, err := r.Runner.Run(ctx, Command{Name: bin, Args: []string{"--version"}})
	return err == nil
}

// Version returns the trimmed --version output of bin.
func Version(ctx context.Context, runner Runner, bin string) (string, error) {
	out, err := runner.Run(ctx, Command{Name: bin, Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", fmt.Errorf("%s --version exited with status %d", bin, out.ExitCode)
	}
	return strings.TrimSpace(out.Stdout), nil
}

// CheckMinimum reports whether version satisfies constraint (e.g. ">=8.0.0").
// A leading "v" is tolerated, as node prints "v20.11.0".
func CheckMinimum(version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}
	return c.Check(v), nil
}
