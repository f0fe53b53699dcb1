package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
)

// Installer runs install and add commands.
type Installer struct {
	Exec toolchain.Runner
}

// InstallBase runs "<bin> install" in dir.
func (i *Installer) InstallBase(ctx context.Context, dir, bin string) error {
	out, err := i.Exec.Run(ctx, toolchain.Command{Name: bin, Args: []string{"install"}, Dir: dir})
	if err != nil {
		return failure.Wrap(failure.InstallFailed, dir, "base install failed in "+dir, err)
	}
	if !out.Success() {
		return failure.Wrap(failure.InstallFailed, dir, "base install failed in "+dir, exitError(out))
	}
	return nil
}

// Add runs "<bin> add [-D] <spec>" in dir for a single package spec.
func (i *Installer) Add(ctx context.Context, dir, bin, spec string, dev bool) error {
	args := []string{"add"}
	if dev {
		args = append(args, "-D")
	}
	args = append(args, spec)

	out, err := i.Exec.Run(ctx, toolchain.Command{Name: bin, Args: args, Dir: dir})
	if err != nil {
		return failure.Wrap(failure.DependencyAddFailed, spec, "failed to add dependency "+spec, err)
	}
	if !out.Success() {
		return failure.Wrap(failure.DependencyAddFailed, spec, "failed to add dependency "+spec, exitError(out))
	}
	return nil
}

func exitError(out *toolchain.Output) error {
	msg := fmt.Sprintf("exit status %d", out.ExitCode)
	if s := strings.TrimSpace(out.Stderr); s != "" {
		msg += ": " + s
	}
	return errors.New(msg)
}
