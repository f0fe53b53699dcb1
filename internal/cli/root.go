package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vuecraft-labs/vuecraft/internal/branding"
	"github.com/vuecraft-labs/vuecraft/internal/config"
	"github.com/vuecraft-labs/vuecraft/internal/logger"
	"github.com/vuecraft-labs/vuecraft/internal/pipeline"
	"github.com/vuecraft-labs/vuecraft/internal/project"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Persistent flags.
var (
	rootDir   string
	logLevel  string
	logFormat string
)

// Loaded in PersistentPreRunE for every command except version.
var (
	cfg *config.Config
	svc *project.Service
	log *slog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Configuration root (default: $"+branding.EnvVar("HOME")+" or ~/"+branding.HomeDir()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds Vue projects through pnpm and the official generators,
then applies optional features: extra dependencies, entry-file patches, and
starter assets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup(cmd)
	},
}

// setup loads configuration from the root and builds the service.
func setup(cmd *cobra.Command) error {
	root, err := config.ResolveRoot(rootDir)
	if err != nil {
		return err
	}
	cfg, err = config.Load(root)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", cfg.FilePath(), err)
	}

	logCfg := logger.DefaultConfig()
	level := settings.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if logCfg.Level, err = logger.ParseLevel(level); err != nil {
		return err
	}
	format := settings.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	if logCfg.Format, err = logger.ParseFormat(format); err != nil {
		return err
	}
	logCfg.Output = cmd.ErrOrStderr()
	log = logger.New(logCfg)

	out := cmd.OutOrStdout()
	svc, err = project.New(cfg,
		project.WithLogger(log),
		project.WithReporter(pipeline.ReporterFunc(func(line string) {
			fmt.Fprintln(out, line)
		})),
	)
	return err
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
