package scaffold

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
)

// Generator package references passed to "<pm> dlx".
const (
	CreateVue = "create-vue@latest"
	VueCLI    = "@vue/cli@5"
)

// nonInteractiveEnv suppresses prompts in both generators.
var nonInteractiveEnv = map[string]string{"CI": "true"}

// GenerationError carries the generator's exit status and output.
type GenerationError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("generator exited with status %d", e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

// Runner runs the project generator through a package manager binary.
type Runner struct {
	Exec toolchain.Runner
}

// Command builds the generator invocation for spec. The switch over template
// kinds is exhaustive; anything else is a programming error.
func Command(spec jobspec.Spec, bin string) (toolchain.Command, error) {
	var args []string
	switch spec.Template {
	case jobspec.TemplateV3:
		args = []string{"dlx", CreateVue, spec.ProjectName}
		if spec.Language == jobspec.LangTS {
			args = append(args, "--ts")
		}
		if spec.Has("router") {
			args = append(args, "--router")
		}
		if spec.Has("pinia") {
			args = append(args, "--pinia")
		}
		// create-vue prompts unless at least one feature flag is given.
		if len(args) == 3 {
			args = append(args, "--default")
		}
	case jobspec.TemplateV2:
		preset, err := inlinePreset()
		if err != nil {
			return toolchain.Command{}, err
		}
		args = []string{"dlx", VueCLI, "create", spec.ProjectName,
			"--inlinePreset", preset,
			"--packageManager", "pnpm",
			"--no-git", "--force"}
	default:
		return toolchain.Command{}, failure.New(failure.UnsupportedTemplate, string(spec.Template),
			fmt.Sprintf("unsupported template %q", spec.Template))
	}

	return toolchain.Command{
		Name: bin,
		Args: args,
		Dir:  spec.TargetDirectory,
		Env:  nonInteractiveEnv,
	}, nil
}

// inlinePreset forces a minimal Vue 2 project with the babel plugin only.
func inlinePreset() (string, error) {
	preset := map[string]interface{}{
		"vueVersion": "2",
		"plugins": map[string]interface{}{
			"@vue/cli-plugin-babel": map[string]interface{}{},
		},
	}
	data, err := json.Marshal(preset)
	if err != nil {
		return "", fmt.Errorf("encoding inline preset: %w", err)
	}
	return string(data), nil
}

// Generate runs the generator. The returned Output is non-nil whenever the
// process ran, including on failure, so callers can surface its streams.
func (r *Runner) Generate(ctx context.Context, spec jobspec.Spec, bin string) (*toolchain.Output, error) {
	cmd, err := Command(spec, bin)
	if err != nil {
		return nil, err
	}

	out, err := r.Exec.Run(ctx, cmd)
	if err != nil {
		return out, failure.Wrap(failure.GenerationFailed, spec.ProjectName,
			fmt.Sprintf("running generator for %s", spec.ProjectName), err)
	}
	if !out.Success() {
		return out, failure.Wrap(failure.GenerationFailed, spec.ProjectName,
			fmt.Sprintf("project creation failed for %s", spec.ProjectName),
			&GenerationError{ExitCode: out.ExitCode, Stdout: out.Stdout, Stderr: out.Stderr})
	}
	return out, nil
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
