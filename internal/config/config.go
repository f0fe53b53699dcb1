package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vuecraft-labs/vuecraft/internal/branding"
	"github.com/vuecraft-labs/vuecraft/internal/logger"
	"github.com/vuecraft-labs/vuecraft/internal/versions"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyBinary          = "toolchain.binary"
	KeyMinVersion      = "toolchain.min_version"
	KeyFailurePolicy   = "install.failure_policy"
	KeyVersionsTimeout = "versions.timeout"
	KeyVersionsLimit   = "versions.limit"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
)

// FailurePolicy decides whether install errors end a job.
type FailurePolicy string

const (
	// PolicyDefault aborts blocking jobs and lets streaming jobs continue.
	PolicyDefault  FailurePolicy = ""
	PolicyAbort    FailurePolicy = "abort"
	PolicyContinue FailurePolicy = "continue"
)

// MaxVersionsLimit is the largest accepted versions.limit.
const MaxVersionsLimit = versions.MaxLimit

var defaults = map[string]any{
	KeyBinary:          "pnpm",
	KeyMinVersion:      ">=8.0.0",
	KeyFailurePolicy:   string(PolicyDefault),
	KeyVersionsTimeout: "8s",
	KeyVersionsLimit:   versions.DefaultLimit,
	KeyLogLevel:        "warn",
	KeyLogFormat:       "text",
}

// Settings is the typed view of the configuration.
type Settings struct {
	Binary          string
	MinVersion      string
	FailurePolicy   FailurePolicy
	VersionsTimeout time.Duration
	VersionsLimit   int
	LogLevel        string
	LogFormat       string
}

// Keys lists every known setting key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolveRoot returns the configuration root: flagValue when set, then the
// VUECRAFT_HOME environment variable, then ~/.vuecraft.
func ResolveRoot(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return filepath.Abs(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// Config is a loaded settings instance bound to one configuration root.
type Config struct {
	root string
	v    *viper.Viper
}

// Load reads <root>/config.yaml when present and layers environment
// overrides on top of it.
func Load(root string) (*Config, error) {
	c := &Config{root: root, v: viper.New()}
	for k, val := range defaults {
		c.v.SetDefault(k, val)
	}
	c.v.SetConfigFile(c.FilePath())
	c.v.SetConfigType(fileType)
	c.v.SetEnvPrefix(branding.EnvPrefix())
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config file %s: %w", c.FilePath(), err)
	}
	return c, nil
}

// Root returns the configuration root directory.
func (c *Config) Root() string { return c.root }

// FilePath returns the path to the settings file.
func (c *Config) FilePath() string {
	return filepath.Join(c.root, fileName+"."+fileType)
}

// Get returns a setting as a string. Returns an empty string if unknown.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Set validates and stores one setting, rewriting config.yaml. Only values
// explicitly set in the file are written back; defaults and environment
// overrides are not persisted.
func (c *Config) Set(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := validate(key, value); err != nil {
		return err
	}

	if err := os.MkdirAll(c.root, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", c.root, err)
	}

	file := viper.New()
	file.SetConfigFile(c.FilePath())
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file %s: %w", c.FilePath(), err)
	}
	file.Set(key, value)

	if err := file.WriteConfigAs(c.FilePath()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	c.v.Set(key, value)
	return nil
}

// Settings returns the validated typed settings.
func (c *Config) Settings() (Settings, error) {
	s := Settings{
		Binary:        strings.TrimSpace(c.v.GetString(KeyBinary)),
		MinVersion:    c.v.GetString(KeyMinVersion),
		FailurePolicy: FailurePolicy(strings.ToLower(c.v.GetString(KeyFailurePolicy))),
		LogLevel:      c.v.GetString(KeyLogLevel),
		LogFormat:     c.v.GetString(KeyLogFormat),
	}
	if s.Binary == "" {
		s.Binary = defaults[KeyBinary].(string)
	}

	var errs []error
	for _, key := range []string{KeyFailurePolicy, KeyVersionsTimeout, KeyVersionsLimit, KeyLogLevel, KeyLogFormat} {
		if err := validate(key, c.v.GetString(key)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Settings{}, err
	}

	s.VersionsTimeout = c.v.GetDuration(KeyVersionsTimeout)
	s.VersionsLimit = c.v.GetInt(KeyVersionsLimit)
	return s, nil
}

func validate(key, value string) error {
	switch key {
	case KeyFailurePolicy:
		switch FailurePolicy(strings.ToLower(value)) {
		case PolicyDefault, PolicyAbort, PolicyContinue:
			return nil
		}
		return fmt.Errorf("%s: invalid value %q (want abort or continue)", key, value)
	case KeyVersionsTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s: invalid duration %q", key, value)
		}
	case KeyVersionsLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > MaxVersionsLimit {
			return fmt.Errorf("%s: invalid limit %q (want 1-%d)", key, value, MaxVersionsLimit)
		}
	case KeyLogLevel:
		if _, err := logger.ParseLevel(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	case KeyLogFormat:
		if _, err := logger.ParseFormat(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
