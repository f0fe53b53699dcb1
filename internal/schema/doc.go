// Package schema compiles embedded JSON Schemas and validates JSON or YAML
// documents against them, flattening validator output into path-addressed
// issues suitable for printing.
package schema
