package project

import (
	"context"

	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
	"github.com/vuecraft-labs/vuecraft/internal/userdata"
)

// Report describes the local toolchain. Empty versions mean the tool could
// not be run.
type Report struct {
	Node string

	PackageManager        string // resolved binary
	PackageManagerVersion string
	MinVersion            string
	// MeetsMinimum is nil when the version could not be compared.
	MeetsMinimum *bool

	Root        string
	SystemPaths map[string]string
}

// Environment probes node and the package manager.
func (s *Service) Environment(ctx context.Context) Report {
	r := Report{
		MinVersion:  s.settings.MinVersion,
		Root:        s.paths.Root,
		SystemPaths: userdata.SystemPaths(),
	}

	if v, err := toolchain.Version(ctx, s.exec, "node"); err == nil {
		r.Node = v
	} else {
		s.logger.Debug("node probe failed", "error", err)
	}

	bin, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.logger.Debug("package manager not found", "error", err)
		return r
	}
	r.PackageManager = bin

	v, err := toolchain.Version(ctx, s.exec, bin)
	if err != nil {
		return r
	}
	r.PackageManagerVersion = v

	if r.MinVersion != "" {
		if ok, err := toolchain.CheckMinimum(v, r.MinVersion); err == nil {
			r.MeetsMinimum = &ok
		}
	}
	return r
}
