// Package jobspec defines the immutable description of one scaffold job and
// parses it from YAML job files validated against an embedded JSON Schema.
package jobspec
