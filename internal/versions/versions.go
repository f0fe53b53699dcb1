package versions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
)

const (
	DefaultTimeout = 8 * time.Second
	// MaxLimit caps every answer; DefaultLimit applies when Limit is unset
	// or out of range.
	MaxLimit     = 100
	DefaultLimit = MaxLimit
)

// Querier runs "<bin> view <pkg> versions --json" on a worker goroutine.
type Querier struct {
	Exec    toolchain.Runner
	Timeout time.Duration
	Limit   int
}

// New returns a Querier with the default timeout and limit.
func New(exec toolchain.Runner) *Querier {
	return &Querier{Exec: exec, Timeout: DefaultTimeout, Limit: DefaultLimit}
}

type result struct {
	versions []string
	err      error
}

// Query returns at most Limit versions of pkg, newest first. It fails with
// failure.Timeout when the process outlives Timeout and with
// failure.WorkerFailed when the worker dies without reporting.
func (q *Querier) Query(ctx context.Context, bin, pkg string) ([]string, error) {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return nil, failure.New(failure.InvalidJob, "", "package name is required")
	}

	timeout := q.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- result{err: failure.New(failure.WorkerFailed, pkg,
					fmt.Sprintf("version query for %s crashed: %v", pkg, r))}
			}
		}()
		v, err := q.run(ctx, bin, pkg)
		results <- result{versions: v, err: err}
	}()

	select {
	case r := <-results:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, timeoutError(pkg, timeout)
		}
		return r.versions, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, timeoutError(pkg, timeout)
		}
		return nil, failure.Wrap(failure.IOFailure, pkg, "version query cancelled", ctx.Err())
	}
}

func timeoutError(pkg string, timeout time.Duration) error {
	return failure.New(failure.Timeout, pkg,
		fmt.Sprintf("version query for %s timed out after %s", pkg, timeout))
}

func (q *Querier) run(ctx context.Context, bin, pkg string) ([]string, error) {
	cmd := toolchain.Command{Name: bin, Args: []string{"view", pkg, "versions", "--json"}}
	out, err := q.Exec.Run(ctx, cmd)
	if err != nil {
		return nil, failure.Wrap(failure.IOFailure, pkg, fmt.Sprintf("running %s", cmd), err)
	}
	if !out.Success() {
		msg := strings.TrimSpace(out.Stderr)
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", out.ExitCode)
		}
		return nil, failure.Wrap(failure.IOFailure, pkg,
			fmt.Sprintf("querying versions of %s", pkg), errors.New(msg))
	}

	published, err := Parse([]byte(out.Stdout))
	if err != nil {
		return nil, failure.Wrap(failure.IOFailure, pkg,
			fmt.Sprintf("parsing versions of %s", pkg), err)
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Newest(published, limit), nil
}

// Parse decodes the registry answer, which is an array of versions or a
// bare string when only one version exists.
func Parse(data []byte) ([]string, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("expected a JSON array or string: %w", err)
	}
	return []string{single}, nil
}

// Newest orders versions most-recent-first and keeps at most limit of them
// (limit <= 0 keeps all). Valid semantic versions come first in descending
// order; anything unparsable follows in reverse publication order.
func Newest(published []string, limit int) []string {
	type parsed struct {
		raw string
		v   *semver.Version
	}
	var valid []parsed
	var other []string
	for i := len(published) - 1; i >= 0; i-- {
		raw := published[i]
		if v, err := semver.NewVersion(raw); err == nil {
			valid = append(valid, parsed{raw: raw, v: v})
		} else {
			other = append(other, raw)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].v.GreaterThan(valid[j].v)
	})

	out := make([]string, 0, len(published))
	for _, p := range valid {
		out = append(out, p.raw)
	}
	out = append(out, other...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
