package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vuecraft-labs/vuecraft/internal/config"
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
	"github.com/vuecraft-labs/vuecraft/internal/logger"
	"github.com/vuecraft-labs/vuecraft/internal/pipeline"
	"github.com/vuecraft-labs/vuecraft/internal/progress"
	"github.com/vuecraft-labs/vuecraft/internal/registry"
	"github.com/vuecraft-labs/vuecraft/internal/target"
	"github.com/vuecraft-labs/vuecraft/internal/toolchain"
	"github.com/vuecraft-labs/vuecraft/internal/userdata"
	"github.com/vuecraft-labs/vuecraft/internal/versions"
)

// Service exposes the scaffold operations for one configuration root.
type Service struct {
	settings config.Settings
	paths    userdata.Paths
	exec     toolchain.Runner
	resolver pipeline.Resolver
	logger   *slog.Logger
	reporter pipeline.Reporter
}

// Option configures a Service.
type Option func(*Service)

// WithRunner sets the process runner (useful for testing).
func WithRunner(r toolchain.Runner) Option {
	return func(s *Service) {
		s.exec = r
	}
}

// WithResolver replaces the package-manager lookup.
func WithResolver(r pipeline.Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithReporter receives the progress lines of blocking jobs.
func WithReporter(r pipeline.Reporter) Option {
	return func(s *Service) {
		s.reporter = r
	}
}

// New creates a Service from loaded configuration. Unless a runner is
// given, child processes get the variables of scaffold.env on top of the
// inherited environment.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Service{
		settings: settings,
		paths:    userdata.NewPaths(cfg.Root()),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Discard()
	}
	if s.exec == nil {
		env, err := userdata.LoadEnv(s.paths)
		if err != nil {
			return nil, err
		}
		s.exec = &toolchain.ExecRunner{BaseEnv: env}
	}
	if s.resolver == nil {
		s.resolver = toolchain.NewResolver(s.exec, settings.Binary)
	}
	return s, nil
}

// Settings returns the settings the Service was built with.
func (s *Service) Settings() config.Settings { return s.settings }

// Paths returns the file locations under the configuration root.
func (s *Service) Paths() userdata.Paths { return s.paths }

func (s *Service) registry() *registry.Store {
	return registry.NewStore(s.paths.RegistryPath(), s.logger)
}

func (s *Service) pipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Exec:     s.exec,
		Resolver: s.resolver,
		Registry: s.registry(),
		Paths:    s.paths,
		Policy:   s.settings.FailurePolicy,
		Logger:   s.logger,
	}
}

// CheckTarget is the pre-flight directory check: nil when dir/name is
// absent or empty, a DirectoryConflict failure otherwise.
func (s *Service) CheckTarget(dir, name string) error {
	return target.Check(dir, name)
}

// Create runs a job to completion and returns its first fatal error.
func (s *Service) Create(ctx context.Context, spec jobspec.Spec) error {
	_, err := s.CreateWithResult(ctx, spec)
	return err
}

// CreateWithResult is Create returning the job summary as well.
func (s *Service) CreateWithResult(ctx context.Context, spec jobspec.Spec) (*pipeline.Result, error) {
	return s.pipeline().Run(ctx, spec, pipeline.ModeBlocking, uuid.NewString(), s.reporter)
}

// CreateStreaming starts a job in the background and returns its event
// stream immediately.
func (s *Service) CreateStreaming(spec jobspec.Spec) *progress.Stream {
	return s.pipeline().Stream(spec)
}

// LoadRegistry returns the current feature registry, read fresh.
func (s *Service) LoadRegistry() ([]registry.Feature, error) {
	return s.registry().Load()
}

// RegistryDocument returns the raw registry file.
func (s *Service) RegistryDocument() ([]byte, error) {
	return s.registry().Raw()
}

// SaveRegistry validates payload and replaces the registry file.
func (s *Service) SaveRegistry(payload []byte) error {
	return s.registry().Save(payload)
}

// QueryVersions lists published versions of pkg, newest first.
func (s *Service) QueryVersions(ctx context.Context, pkg string) ([]string, error) {
	bin, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	q := &versions.Querier{
		Exec:    s.exec,
		Timeout: s.settings.VersionsTimeout,
		Limit:   s.settings.VersionsLimit,
	}
	return q.Query(ctx, bin, pkg)
}

// DefaultDirectory returns the persisted default target directory, or "".
func (s *Service) DefaultDirectory() (string, error) {
	return userdata.DefaultDirectory(s.paths)
}
