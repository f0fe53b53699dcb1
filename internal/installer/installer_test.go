package installer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
	"github.com/vuecraft-labs/vuecraft/internal/toolchain/toolchaintest"
)

func TestInstallBase(t *testing.T) {
	fake := &toolchaintest.Runner{}
	i := &Installer{Exec: fake}

	if err := i.InstallBase(context.Background(), "/work/app", "pnpm"); err != nil {
		t.Fatalf("InstallBase() error: %v", err)
	}
	calls := fake.Calls()
	if len(calls) != 1 || calls[0].String() != "pnpm install" || calls[0].Dir != "/work/app" {
		t.Errorf("unexpected calls: %+v", calls)
	}
}

func TestInstallBase_Failure(t *testing.T) {
	fake := &toolchaintest.Runner{Handler: func(cmd toolchain.Command) (*toolchain.Output, error) {
		return &toolchain.Output{ExitCode: 1, Stderr: "ERR_PNPM_OFFLINE"}, nil
	}}
	err := (&Installer{Exec: fake}).InstallBase(context.Background(), "/work/app", "pnpm")
	if failure.KindOf(err) != failure.InstallFailed {
		t.Fatalf("KindOf() = %q, want %q", failure.KindOf(err), failure.InstallFailed)
	}
	if !strings.Contains(err.Error(), "ERR_PNPM_OFFLINE") || !strings.Contains(err.Error(), "/work/app") {
		t.Errorf("error should name directory and cause: %v", err)
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		spec string
		dev  bool
		want string
	}{
		{"vue-router@^4.6.3", false, "pnpm add vue-router@^4.6.3"},
		{"sass@^1.94.0", true, "pnpm add -D sass@^1.94.0"},
	}
	for _, tt := range tests {
		fake := &toolchaintest.Runner{}
		if err := (&Installer{Exec: fake}).Add(context.Background(), "/work/app", "pnpm", tt.spec, tt.dev); err != nil {
			t.Fatalf("Add(%q) error: %v", tt.spec, err)
		}
		if got := fake.Lines(); len(got) != 1 || got[0] != tt.want {
			t.Errorf("Add(%q) ran %v, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestAdd_FailureNamesPackage(t *testing.T) {
	for name, handler := range map[string]toolchaintest.HandlerFunc{
		"non-zero exit": func(cmd toolchain.Command) (*toolchain.Output, error) {
			return &toolchain.Output{ExitCode: 1}, nil
		},
		"spawn error": func(cmd toolchain.Command) (*toolchain.Output, error) {
			return nil, errors.New("fork/exec: permission denied")
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := (&Installer{Exec: &toolchaintest.Runner{Handler: handler}}).Add(context.Background(), "/w", "pnpm", "naive-ui", false)
			if failure.KindOf(err) != failure.DependencyAddFailed {
				t.Fatalf("KindOf() = %q", failure.KindOf(err))
			}
			if !strings.Contains(err.Error(), "naive-ui") {
				t.Errorf("error should name the package: %v", err)
			}
		})
	}
}
