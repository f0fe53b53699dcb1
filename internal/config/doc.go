// Package config manages vuecraft settings stored in <root>/config.yaml,
// where root is the configuration root holding all persisted state
// (--root, VUECRAFT_HOME, or ~/.vuecraft). Every setting can be overridden
// with a VUECRAFT_ environment variable, e.g. VUECRAFT_TOOLCHAIN_BINARY.
package config
