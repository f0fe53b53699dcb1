package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vuecraft-labs/vuecraft/internal/config"
	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/gitinit"
	"github.com/vuecraft-labs/vuecraft/internal/installer"
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
	"github.com/vuecraft-labs/vuecraft/internal/logger"
	"github.com/vuecraft-labs/vuecraft/internal/patcher"
	"github.com/vuecraft-labs/vuecraft/internal/registry"
	"github.com/vuecraft-labs/vuecraft/internal/scaffold"
	"github.com/vuecraft-labs/vuecraft/internal/target"
	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
	"github.com/vuecraft-labs/vuecraft/internal/userdata"
)

// Resolver locates the package-manager binary.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Pipeline holds the collaborators shared by every job.
type Pipeline struct {
	Exec     toolchain.Runner
	Resolver Resolver
	Registry *registry.Store
	Paths    userdata.Paths
	Policy   config.FailurePolicy
	Logger   *slog.Logger
}

// Result describes what a finished job did. It is returned alongside the
// error of a failed job with the stages reached so far filled in.
type Result struct {
	JobID      string
	Binary     string
	ProjectDir string
	Stage      Stage // last stage entered
	Steps      []registry.Step
	// Warnings are non-fatal failures: install errors under the continue
	// policy, an unreadable registry, patch and repository errors.
	Warnings []error
	Patch    *patcher.Result
	Assets   *patcher.Result
	Git      *gitinit.Result
}

// FailFast reports whether install failures abort a job run in mode.
func (p *Pipeline) FailFast(mode Mode) bool {
	switch p.Policy {
	case config.PolicyAbort:
		return true
	case config.PolicyContinue:
		return false
	}
	return mode == ModeBlocking
}

type job struct {
	p        *Pipeline
	ctx      context.Context
	spec     jobspec.Spec
	failFast bool
	log      *slog.Logger
	out      Reporter
	res      *Result
}

// Run executes spec to completion on the calling goroutine.
func (p *Pipeline) Run(ctx context.Context, spec jobspec.Spec, mode Mode, jobID string, out Reporter) (*Result, error) {
	if out == nil {
		out = discard{}
	}
	base := p.Logger
	if base == nil {
		base = logger.Discard()
	}
	j := &job{
		p:        p,
		ctx:      ctx,
		spec:     spec,
		failFast: p.FailFast(mode),
		log:      base.With("job_id", jobID, "mode", mode.String()),
		out:      out,
		res:      &Result{JobID: jobID, ProjectDir: spec.ProjectDir()},
	}

	err := j.run()
	if err != nil {
		j.log.Error("job failed", "stage", j.res.Stage, "kind", failure.KindOf(err), "error", err)
		return j.res, err
	}
	j.enter(StageDone)
	j.log.Info("job finished", "project", j.res.ProjectDir, "warnings", len(j.res.Warnings))
	return j.res, nil
}

func (j *job) run() error {
	j.enter(StageValidating)
	if err := j.spec.Validate(); err != nil {
		return failed(StageValidating, err)
	}

	j.enter(StageResolving)
	bin, err := j.p.Resolver.Resolve(j.ctx)
	if err != nil {
		return failed(StageResolving, err)
	}
	j.res.Binary = bin
	j.say("Using %s", bin)

	if j.spec.PersistAsDefault {
		j.enter(StagePersistingDefault)
		if err := userdata.SaveDefaultDirectory(j.p.Paths, j.spec.TargetDirectory); err != nil {
			return failed(StagePersistingDefault, failure.Wrap(failure.IOFailure, j.p.Paths.PreferencesPath(),
				"saving default directory", err))
		}
	}

	j.enter(StageCheckingDirectory)
	if err := target.Prepare(j.spec.TargetDirectory); err != nil {
		return failed(StageCheckingDirectory, err)
	}
	if err := target.Check(j.spec.TargetDirectory, j.spec.ProjectName); err != nil {
		return failed(StageCheckingDirectory, err)
	}

	j.enter(StageGenerating)
	gen := &scaffold.Runner{Exec: j.p.Exec}
	if cmd, err := scaffold.Command(j.spec, bin); err == nil {
		j.say("Running %s", cmd)
	}
	genOut, err := gen.Generate(j.ctx, j.spec, bin)
	j.relay(genOut)
	if err != nil {
		return failed(StageGenerating, err)
	}

	inst := &installer.Installer{Exec: j.p.Exec}
	dir := j.spec.ProjectDir()

	j.enter(StageInstallingBase)
	j.say("Running %s install", bin)
	if err := inst.InstallBase(j.ctx, dir, bin); err != nil {
		if err := j.installFailure(StageInstallingBase, err); err != nil {
			return err
		}
	}

	j.enter(StageApplyingFeatures)
	matched, err := j.applyFeatures(inst, dir, bin)
	if err != nil {
		return err
	}

	j.enter(StagePatching)
	j.patch(matched)

	if j.spec.InitGit {
		j.enter(StageInitializingRepository)
		j.initRepository()
	}
	return nil
}

// applyFeatures installs the packages of every matched feature in request
// order and returns the matched keys.
func (j *job) applyFeatures(inst *installer.Installer, dir, bin string) (map[string]bool, error) {
	if len(j.spec.Features) == 0 {
		return map[string]bool{}, nil
	}

	if j.p.Registry == nil {
		j.say("No feature registry configured, skipping features")
		return map[string]bool{}, nil
	}
	features, err := j.p.Registry.Load()
	if err != nil {
		j.warn(fmt.Errorf("loading feature registry: %w", err))
		j.say("Feature registry unavailable, skipping features")
		return map[string]bool{}, nil
	}

	steps := registry.Plan(features, j.spec.Features, j.spec.Template, j.spec.Language)
	j.res.Steps = steps
	for _, step := range steps {
		if step.Skipped != "" {
			j.log.Info("feature skipped", "stage", StageApplyingFeatures, "feature", step.Key, "reason", step.Skipped)
			j.say("Skipping %s: %s", step.Key, step.Skipped)
			continue
		}
		for _, spec := range step.Specs {
			if step.Dev {
				j.say("Adding %s (dev)", spec)
			} else {
				j.say("Adding %s", spec)
			}
			if err := inst.Add(j.ctx, dir, bin, spec, step.Dev); err != nil {
				if err := j.installFailure(StageApplyingFeatures, err); err != nil {
					return nil, err
				}
			}
		}
	}
	return registry.Matched(steps), nil
}

// installFailure applies the failure policy: fatal errors come back wrapped,
// tolerated ones are recorded and nil is returned.
func (j *job) installFailure(stage Stage, err error) error {
	if j.failFast {
		return failed(stage, err)
	}
	j.warn(err)
	j.say("Warning: %v", err)
	return nil
}

func (j *job) patch(matched map[string]bool) {
	req := patcher.Request{
		ProjectDir: j.spec.ProjectDir(),
		Template:   j.spec.Template,
		Language:   j.spec.Language,
		Features:   matched,
	}

	assets, err := patcher.WriteAssets(req)
	j.res.Assets = assets
	if err != nil {
		j.warn(fmt.Errorf("writing feature assets: %w", err))
	}
	for _, path := range assets.Created {
		j.say("Created %s", path)
	}

	res, err := patcher.PatchEntry(req)
	j.res.Patch = res
	switch {
	case err != nil:
		j.warn(fmt.Errorf("patching entry file: %w", err))
	case res.Skipped:
		j.log.Info("no entry file to patch", "stage", StagePatching, "project", req.ProjectDir)
	case res.Changed():
		j.say("Patched %s", res.EntryFile)
	}
}

func (j *job) initRepository() {
	res, err := gitinit.Init(j.spec.ProjectDir())
	j.res.Git = res
	if err != nil {
		j.warn(fmt.Errorf("initializing repository: %w", err))
		return
	}
	if res.Initialized {
		j.say("Initialized git repository")
	}
}

func (j *job) enter(stage Stage) {
	j.res.Stage = stage
	j.log.Debug("stage started", "stage", stage)
}

func (j *job) say(format string, args ...any) {
	j.out.Log(fmt.Sprintf(format, args...))
}

func (j *job) warn(err error) {
	j.res.Warnings = append(j.res.Warnings, err)
	j.log.Warn("continuing after failure", "stage", j.res.Stage, "kind", failure.KindOf(err), "error", err)
}

// relay forwards captured child output line by line.
func (j *job) relay(out *toolchain.Output) {
	if out == nil {
		return
	}
	for _, stream := range []string{out.Stdout, out.Stderr} {
		for _, line := range strings.Split(stream, "\n") {
			if line = strings.TrimRight(line, "\r "); line != "" {
				j.out.Log(line)
			}
		}
	}
}
